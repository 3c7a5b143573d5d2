package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/pkg/response"
	"github.com/segyhp/collection-engine/pkg/utils"
)

// UserHeader names the operator recorded in the audit journal.
const UserHeader = "X-User"

type BillingHandler struct {
	service   BillingService
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewBillingHandler(service BillingService, logger *logrus.Logger) *BillingHandler {
	return &BillingHandler{
		service:   service,
		validator: NewValidator(),
		logger:    logger,
	}
}

// decode reads a JSON body into dst and validates it.
func (h *BillingHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.BadRequest(w, "Invalid "+name, errors.New("must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

func user(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(UserHeader))
}

// Clients

func (h *BillingHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req domain.ClientRequest
	if !h.decode(w, r, &req) {
		return
	}

	client, err := h.service.CreateClient(r.Context(), &req, user(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, client)
}

func (h *BillingHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.ListClients(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, clients)
}

func (h *BillingHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clientId")
	if !ok {
		return
	}

	client, err := h.service.GetClient(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, client)
}

func (h *BillingHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clientId")
	if !ok {
		return
	}
	var req domain.ClientRequest
	if !h.decode(w, r, &req) {
		return
	}

	client, err := h.service.UpdateClient(r.Context(), id, &req, user(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, client)
}

func (h *BillingHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clientId")
	if !ok {
		return
	}

	if err := h.service.DeleteClient(r.Context(), id, user(r)); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// Charges

func (h *BillingHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.GenerateSchedule(r.Context(), &req, user(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, result)
}

func (h *BillingHandler) RecalculateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chargeId")
	if !ok {
		return
	}
	var req domain.RecalculateScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.RecalculateSchedule(r.Context(), id, &req, user(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *BillingHandler) CreateSingleCharge(w http.ResponseWriter, r *http.Request) {
	var req domain.SingleChargeRequest
	if !h.decode(w, r, &req) {
		return
	}

	charge, err := h.service.CreateSingleCharge(r.Context(), &req, user(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, charge)
}

func (h *BillingHandler) ListCharges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.ChargeFilter

	if raw := q.Get("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid client_id", err)
			return
		}
		filter.ClientID = &id
	}
	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			response.BadRequest(w, "Invalid status", err)
			return
		}
		filter.Status = status
	}
	if raw := q.Get("type"); raw != "" {
		filter.Type = domain.ChargeType(raw)
	}
	if raw := q.Get("due_before"); raw != "" {
		due, err := utils.ParseDate(raw)
		if err != nil {
			response.BadRequest(w, "Invalid due_before", err)
			return
		}
		filter.DueBefore = &due
	}
	var ok bool
	if filter.Limit, ok = queryInt(w, r, "limit"); !ok {
		return
	}
	if filter.Offset, ok = queryInt(w, r, "offset"); !ok {
		return
	}

	charges, err := h.service.ListCharges(r.Context(), filter)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, charges)
}

func (h *BillingHandler) GetCharge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chargeId")
	if !ok {
		return
	}

	detail, err := h.service.GetCharge(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, detail)
}

func (h *BillingHandler) QuoteCharge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chargeId")
	if !ok {
		return
	}

	quote, err := h.service.QuoteCharge(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, quote)
}

func (h *BillingHandler) CancelCharge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chargeId")
	if !ok {
		return
	}

	charge, err := h.service.CancelCharge(r.Context(), id, user(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, charge)
}

func (h *BillingHandler) DeleteCharge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chargeId")
	if !ok {
		return
	}

	if err := h.service.DeleteCharge(r.Context(), id, user(r)); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// Installments

func (h *BillingHandler) QuoteInstallment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "installmentId")
	if !ok {
		return
	}

	quote, err := h.service.QuoteInstallment(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, quote)
}

func (h *BillingHandler) EditDueDate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "installmentId")
	if !ok {
		return
	}
	var req domain.DueDateRequest
	if !h.decode(w, r, &req) {
		return
	}

	inst, err := h.service.EditDueDate(r.Context(), id, req.DueDate.Time, user(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, inst)
}

func (h *BillingHandler) SetManualPenalty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "installmentId")
	if !ok {
		return
	}
	var req domain.ManualPenaltyRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.SetManualPenalty(r.Context(), id, req.Amount, user(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, result)
}

// Payments

func (h *BillingHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.ApplyPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.RecordedBy == "" {
		req.RecordedBy = user(r)
	}

	result, err := h.service.ApplyPayment(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, result)
}

// Reports

func (h *BillingHandler) OutstandingBalance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope := domain.BalanceScope(q.Get("scope"))
	if scope == "" {
		scope = domain.ScopePortfolio
	}

	var id *uuid.UUID
	if raw := q.Get("id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid id", err)
			return
		}
		id = &parsed
	}

	balance, err := h.service.OutstandingBalance(r.Context(), scope, id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, balance)
}

func (h *BillingHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, stats)
}

func (h *BillingHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	months, ok := queryInt(w, r, "months")
	if !ok {
		return
	}

	rows, err := h.service.MonthlyReport(r.Context(), months)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

func (h *BillingHandler) TopDebtors(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	debtors, err := h.service.TopDebtors(r.Context(), limit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, debtors)
}

// Settings

func (h *BillingHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.GetSettings(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, snapshot)
}

func (h *BillingHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	snapshot, err := h.service.UpdateSettings(r.Context(), values, user(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	h.logger.WithField("user", user(r)).Info("settings changed over HTTP")
	response.Success(w, snapshot)
}
