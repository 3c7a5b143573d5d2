package handler

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/pkg/response"
)

// NewRouter wires every route onto a gorilla/mux router.
func NewRouter(billing *BillingHandler, health *HealthHandler, logger *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", health.Health).Methods("GET")
	router.HandleFunc("/health/ready", health.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/clients", billing.CreateClient).Methods("POST")
	api.HandleFunc("/clients", billing.ListClients).Methods("GET")
	api.HandleFunc("/clients/{clientId}", billing.GetClient).Methods("GET")
	api.HandleFunc("/clients/{clientId}", billing.UpdateClient).Methods("PUT")
	api.HandleFunc("/clients/{clientId}", billing.DeleteClient).Methods("DELETE")

	api.HandleFunc("/charges", billing.CreateSingleCharge).Methods("POST")
	api.HandleFunc("/charges", billing.ListCharges).Methods("GET")
	api.HandleFunc("/charges/schedule", billing.GenerateSchedule).Methods("POST")
	api.HandleFunc("/charges/{chargeId}", billing.GetCharge).Methods("GET")
	api.HandleFunc("/charges/{chargeId}", billing.DeleteCharge).Methods("DELETE")
	api.HandleFunc("/charges/{chargeId}/quote", billing.QuoteCharge).Methods("GET")
	api.HandleFunc("/charges/{chargeId}/schedule", billing.RecalculateSchedule).Methods("PUT")
	api.HandleFunc("/charges/{chargeId}/cancel", billing.CancelCharge).Methods("POST")

	api.HandleFunc("/installments/{installmentId}/quote", billing.QuoteInstallment).Methods("GET")
	api.HandleFunc("/installments/{installmentId}/due-date", billing.EditDueDate).Methods("PUT")
	api.HandleFunc("/installments/{installmentId}/penalty", billing.SetManualPenalty).Methods("PUT")

	api.HandleFunc("/payments", billing.ApplyPayment).Methods("POST")

	api.HandleFunc("/balance", billing.OutstandingBalance).Methods("GET")
	api.HandleFunc("/dashboard", billing.DashboardStats).Methods("GET")
	api.HandleFunc("/reports/monthly", billing.MonthlyReport).Methods("GET")
	api.HandleFunc("/reports/debtors", billing.TopDebtors).Methods("GET")

	api.HandleFunc("/settings", billing.GetSettings).Methods("GET")
	api.HandleFunc("/settings", billing.UpdateSettings).Methods("PUT")

	return router
}
