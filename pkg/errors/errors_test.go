package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessError_Unwrap(t *testing.T) {
	err := WrapInvalidAmount("-1")

	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.Contains(t, err.Error(), ErrCodeInvalidAmount)

	wrapped := fmt.Errorf("apply payment: %w", err)
	assert.Equal(t, ErrCodeInvalidAmount, Code(wrapped))
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		notFound   bool
		conflict   bool
	}{
		{"invalid rate", WrapInvalidRate("45", []string{"30", "60"}), true, false, false},
		{"blocked date", WrapBlockedDate("2024-12-25", "2024-12-26"), true, false, false},
		{"missing installment", WrapInstallmentNotFound("x"), false, true, false},
		{"cancelled charge", WrapChargeCancelled("x"), false, false, true},
		{"duplicate submission", WrapDuplicateSubmission("x"), false, false, true},
		{"database", WrapDatabaseError(errors.New("boom")), false, false, false},
		{"plain error", errors.New("boom"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, IsValidation(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.conflict, IsConflict(tt.err))
		})
	}
}
