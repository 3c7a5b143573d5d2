package penalty_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/collection-engine/internal/calendar"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/mocks"
	"github.com/segyhp/collection-engine/internal/penalty"
)

func TestCalculator_NoSnapshotBetweenCalls(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	inst := &domain.Installment{
		Amount:     decimal.NewFromInt(50),
		PaidAmount: decimal.Zero,
		DueDate:    time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:     domain.StatusPending,
	}

	before := domain.DefaultSettings()
	after := domain.DefaultSettings()
	after.DailyLateFee = decimal.NewFromInt(2)

	provider := new(mocks.MockConfigProvider)
	provider.On("Settings", mock.Anything).Return(before, nil).Once()
	provider.On("Settings", mock.Anything).Return(after, nil).Once()

	calc := penalty.NewCalculator(provider, calendar.FixedClock(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)), logger)

	q := calc.InstallmentQuote(context.Background(), inst)
	assert.True(t, q.Owed.Equal(decimal.NewFromInt(50)), "owed %s", q.Owed)

	q = calc.InstallmentQuote(context.Background(), inst)
	assert.Equal(t, 5, q.DaysLate)
	assert.True(t, q.Owed.Equal(decimal.NewFromInt(60)), "owed %s", q.Owed)

	provider.AssertExpectations(t)
}
