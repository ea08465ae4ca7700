package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveFeeStatus(t *testing.T) {
	dueDate := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		amountPaid decimal.Decimal
		amountDue  decimal.Decimal
		now        time.Time
		want       string
	}{
		{
			name:       "partially paid before due date is pending",
			amountPaid: decimal.NewFromInt(20000),
			amountDue:  decimal.NewFromInt(50000),
			now:        time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
			want:       FeeStatusPending,
		},
		{
			name:       "partially paid after due date is overdue",
			amountPaid: decimal.NewFromInt(20000),
			amountDue:  decimal.NewFromInt(50000),
			now:        time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC),
			want:       FeeStatusOverdue,
		},
		{
			name:       "exactly paid is paid regardless of date",
			amountPaid: decimal.NewFromInt(50000),
			amountDue:  decimal.NewFromInt(50000),
			now:        time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC),
			want:       FeeStatusPaid,
		},
		{
			name:       "overpaid is paid",
			amountPaid: decimal.NewFromInt(60000),
			amountDue:  decimal.NewFromInt(50000),
			now:        time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
			want:       FeeStatusPaid,
		},
		{
			name:       "nothing paid before due date is pending",
			amountPaid: decimal.Zero,
			amountDue:  decimal.NewFromInt(50000),
			now:        time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
			want:       FeeStatusPending,
		},
		{
			name:       "zero due is paid immediately",
			amountPaid: decimal.Zero,
			amountDue:  decimal.Zero,
			now:        time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			want:       FeeStatusPaid,
		},
		{
			name:       "due date itself is not overdue",
			amountPaid: decimal.Zero,
			amountDue:  decimal.NewFromInt(50000),
			now:        dueDate,
			want:       FeeStatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveFeeStatus(tt.amountPaid, tt.amountDue, dueDate, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveFeeStatus_InstallmentScenario(t *testing.T) {
	// Fee of 50000 due 2025-07-01; two installments of 10000 leave it
	// pending before the deadline and overdue after.
	dueDate := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	amountDue := decimal.NewFromInt(50000)

	paid := decimal.Zero
	for _, amount := range []int64{10000, 10000} {
		paid = paid.Add(decimal.NewFromInt(amount))
	}

	assert.True(t, paid.Equal(decimal.NewFromInt(20000)))

	beforeDeadline := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, FeeStatusPending, DeriveFeeStatus(paid, amountDue, dueDate, beforeDeadline))

	afterDeadline := time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, FeeStatusOverdue, DeriveFeeStatus(paid, amountDue, dueDate, afterDeadline))
}
