package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidRate          = errors.New("unsupported interest rate")
	ErrBlockedDate          = errors.New("date is blocked")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidInput         = errors.New("invalid input")
	ErrClientNotFound       = errors.New("client not found")
	ErrChargeNotFound       = errors.New("charge not found")
	ErrInstallmentNotFound  = errors.New("installment not found")
	ErrTargetNotFound       = errors.New("payment target not found")
	ErrChargeCancelled      = errors.New("charge is cancelled")
	ErrChargeSettled        = errors.New("charge is already paid")
	ErrInstallmentSettled   = errors.New("installment is already paid")
	ErrDuplicateSubmission  = errors.New("duplicate submission")
	ErrClientDocumentExists = errors.New("client document already exists")
	ErrInvalidDocument      = errors.New("invalid CPF/CNPJ")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidRate          = "INVALID_RATE"
	ErrCodeBlockedDate          = "BLOCKED_DATE"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeClientNotFound       = "CLIENT_NOT_FOUND"
	ErrCodeChargeNotFound       = "CHARGE_NOT_FOUND"
	ErrCodeInstallmentNotFound  = "INSTALLMENT_NOT_FOUND"
	ErrCodeTargetNotFound       = "TARGET_NOT_FOUND"
	ErrCodeChargeCancelled      = "CHARGE_CANCELLED"
	ErrCodeChargeSettled        = "CHARGE_SETTLED"
	ErrCodeInstallmentSettled   = "INSTALLMENT_SETTLED"
	ErrCodeDuplicateSubmission  = "DUPLICATE_SUBMISSION"
	ErrCodeClientDocumentExists = "CLIENT_DOCUMENT_EXISTS"
	ErrCodeInvalidDocument      = "INVALID_DOCUMENT"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// Code returns the business code carried by err, or "" when err is not a BusinessError.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsValidation reports whether err was rejected before any write.
func IsValidation(err error) bool {
	switch Code(err) {
	case ErrCodeInvalidRate, ErrCodeBlockedDate, ErrCodeInvalidAmount, ErrCodeInvalidInput, ErrCodeInvalidDocument:
		return true
	}
	return false
}

// IsNotFound reports whether err refers to a missing row.
func IsNotFound(err error) bool {
	switch Code(err) {
	case ErrCodeClientNotFound, ErrCodeChargeNotFound, ErrCodeInstallmentNotFound, ErrCodeTargetNotFound:
		return true
	}
	return false
}

// IsConflict reports whether err is a state conflict.
func IsConflict(err error) bool {
	switch Code(err) {
	case ErrCodeChargeCancelled, ErrCodeChargeSettled, ErrCodeInstallmentSettled, ErrCodeDuplicateSubmission, ErrCodeClientDocumentExists:
		return true
	}
	return false
}

// Wrap common errors with business context
func WrapInvalidRate(rate string, supported []string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRate,
		fmt.Sprintf("Interest rate %s%% is not supported, use one of %v", rate, supported),
		ErrInvalidRate,
	)
}

func WrapBlockedDate(date string, next string) *BusinessError {
	return NewBusinessError(
		ErrCodeBlockedDate,
		fmt.Sprintf("Date %s is blocked (Sunday or year-end holiday), next allowed date is %s", date, next),
		ErrBlockedDate,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid amount: %s, must be greater than zero", amount),
		ErrInvalidAmount,
	)
}

func WrapInvalidInput(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidInput, message, ErrInvalidInput)
}

func WrapClientNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("Client with ID %s not found", id),
		ErrClientNotFound,
	)
}

func WrapChargeNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeChargeNotFound,
		fmt.Sprintf("Charge with ID %s not found", id),
		ErrChargeNotFound,
	)
}

func WrapInstallmentNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("Installment with ID %s not found", id),
		ErrInstallmentNotFound,
	)
}

func WrapTargetNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeTargetNotFound,
		fmt.Sprintf("No installment or charge with ID %s", id),
		ErrTargetNotFound,
	)
}

func WrapChargeCancelled(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeChargeCancelled,
		fmt.Sprintf("Charge with ID %s is cancelled", id),
		ErrChargeCancelled,
	)
}

func WrapChargeSettled(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeChargeSettled,
		fmt.Sprintf("Charge with ID %s is already paid", id),
		ErrChargeSettled,
	)
}

func WrapInstallmentSettled(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentSettled,
		fmt.Sprintf("Installment with ID %s is already paid", id),
		ErrInstallmentSettled,
	)
}

func WrapDuplicateSubmission(target string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateSubmission,
		fmt.Sprintf("An identical payment for %s was just submitted", target),
		ErrDuplicateSubmission,
	)
}

func WrapClientDocumentExists(document string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientDocumentExists,
		fmt.Sprintf("A client with document %s already exists", document),
		ErrClientDocumentExists,
	)
}

func WrapInvalidDocument(document string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDocument,
		fmt.Sprintf("Document %s is not a valid CPF (11 digits) or CNPJ (14 digits)", document),
		ErrInvalidDocument,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
