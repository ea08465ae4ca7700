package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fee statuses. Status is derived, never set by callers.
const (
	FeeStatusPaid    = "Paid"
	FeeStatusPending = "Pending"
	FeeStatusOverdue = "Overdue"
)

// Fee is a billing obligation for one student, scoped to a term and
// session. AmountPaid always equals the sum of the installment amounts.
type Fee struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	StudentID  string          `json:"student_id" db:"student_id"`
	AmountDue  decimal.Decimal `json:"amount_due" db:"amount_due"`
	AmountPaid decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	DueDate    time.Time       `json:"due_date" db:"due_date"`
	Session    string          `json:"session" db:"session"`
	Term       string          `json:"term" db:"term"`
	Status     string          `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`

	Installments []*Installment `json:"installments,omitempty" db:"-"`
}

// Installment is a single partial payment recorded against a fee.
// The installment sequence is append-only.
type Installment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	FeeID     uuid.UUID       `json:"fee_id" db:"fee_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	DatePaid  time.Time       `json:"date_paid" db:"date_paid"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// DeriveFeeStatus computes the status from the paid/due amounts and the
// due date. It runs before every persistence of a fee record so that a
// record past its due date reads Overdue even with no new payment.
func DeriveFeeStatus(amountPaid, amountDue decimal.Decimal, dueDate, now time.Time) string {
	if amountPaid.GreaterThanOrEqual(amountDue) {
		return FeeStatusPaid
	}
	if now.After(dueDate) {
		return FeeStatusOverdue
	}
	return FeeStatusPending
}

// DTOs

type CreateFeeRequest struct {
	StudentID string          `json:"student_id" validate:"required"`
	AmountDue decimal.Decimal `json:"amount_due" validate:"required"`
	DueDate   time.Time       `json:"due_date" validate:"required"`
}

type RecordInstallmentRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	DatePaid time.Time       `json:"date_paid" validate:"required"`
}

// UpdateFeeRequest carries administrative corrections. Nil fields are
// left unchanged.
type UpdateFeeRequest struct {
	AmountDue *decimal.Decimal `json:"amount_due,omitempty"`
	DueDate   *time.Time       `json:"due_date,omitempty"`
	Session   *string          `json:"session,omitempty"`
	Term      *string          `json:"term,omitempty"`
}

// FeeFilter narrows fee listings.
type FeeFilter struct {
	StudentID string
	Session   string
	Term      string
	Status    string
}
