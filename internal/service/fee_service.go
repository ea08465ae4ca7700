package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeyemio/schoolbase/internal/academic"
	"github.com/adeyemio/schoolbase/internal/domain"
	"github.com/adeyemio/schoolbase/internal/repository"
	"github.com/adeyemio/schoolbase/pkg/apperrors"
)

// FeeService owns the fee-record lifecycle: due amount, cumulative
// payments via installments, and the derived status.
type FeeService struct {
	feeRepo  repository.FeeRepository
	calendar academic.Calendar
}

func NewFeeService(feeRepo repository.FeeRepository, calendar academic.Calendar) *FeeService {
	return &FeeService{
		feeRepo:  feeRepo,
		calendar: calendar,
	}
}

// Create issues a billing obligation for a student. Session and term are
// stamped from the term resolver at creation time and not re-derived later.
func (s *FeeService) Create(ctx context.Context, request *domain.CreateFeeRequest) (*domain.Fee, error) {
	if request.AmountDue.IsNegative() {
		return nil, apperrors.Validation("amount_due must not be negative")
	}
	if request.DueDate.IsZero() {
		return nil, apperrors.Validation("due_date is required")
	}

	now := time.Now()

	termCtx, err := academic.Resolve(now, s.calendar)
	if err != nil {
		if errors.Is(err, academic.ErrOutOfRange) {
			return nil, apperrors.Validation("current date is outside the configured school calendar")
		}
		return nil, apperrors.Internal(err)
	}

	fee := &domain.Fee{
		ID:         uuid.New(),
		StudentID:  request.StudentID,
		AmountDue:  request.AmountDue,
		AmountPaid: decimal.Zero,
		DueDate:    request.DueDate,
		Session:    termCtx.Session,
		Term:       termCtx.Term,
		Status:     domain.DeriveFeeStatus(decimal.Zero, request.AmountDue, request.DueDate, now),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.feeRepo.Create(ctx, fee); err != nil {
		return nil, apperrors.Internal(err)
	}

	fee.Installments = []*domain.Installment{}
	return fee, nil
}

// Get retrieves a fee record together with its installment ledger.
func (s *FeeService) Get(ctx context.Context, feeID string) (*domain.Fee, error) {
	id, err := parseID(feeID)
	if err != nil {
		return nil, err
	}

	fee, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapFeeNotFound(feeID)
		}
		return nil, apperrors.Internal(err)
	}

	installments, err := s.feeRepo.GetInstallments(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	fee.Installments = installments

	return fee, nil
}

// List retrieves fee records matching the filter.
func (s *FeeService) List(ctx context.Context, filter domain.FeeFilter) ([]*domain.Fee, error) {
	fees, err := s.feeRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return fees, nil
}

// RecordInstallment appends a payment to the fee's ledger. The amount
// lands on amount_paid through the repository's atomic increment, never
// a read-modify-write here, so concurrent captures cannot lose payments.
func (s *FeeService) RecordInstallment(ctx context.Context, feeID string, request *domain.RecordInstallmentRequest) (*domain.Fee, error) {
	id, err := parseID(feeID)
	if err != nil {
		return nil, err
	}

	if !request.Amount.IsPositive() {
		return nil, apperrors.Validation("installment amount must be greater than zero")
	}
	if request.DatePaid.IsZero() {
		return nil, apperrors.Validation("date_paid is required")
	}

	installment := &domain.Installment{
		ID:        uuid.New(),
		FeeID:     id,
		Amount:    request.Amount,
		DatePaid:  request.DatePaid,
		CreatedAt: time.Now(),
	}

	fee, err := s.feeRepo.AddInstallment(ctx, installment, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapFeeNotFound(feeID)
		}
		return nil, apperrors.Internal(err)
	}

	installments, err := s.feeRepo.GetInstallments(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	fee.Installments = installments

	return fee, nil
}

// Update applies administrative corrections, then re-derives the status
// from the current amount paid against the possibly changed terms.
func (s *FeeService) Update(ctx context.Context, feeID string, request *domain.UpdateFeeRequest) (*domain.Fee, error) {
	id, err := parseID(feeID)
	if err != nil {
		return nil, err
	}

	fee, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapFeeNotFound(feeID)
		}
		return nil, apperrors.Internal(err)
	}

	if request.AmountDue != nil {
		if request.AmountDue.IsNegative() {
			return nil, apperrors.Validation("amount_due must not be negative")
		}
		fee.AmountDue = *request.AmountDue
	}
	if request.DueDate != nil {
		if request.DueDate.IsZero() {
			return nil, apperrors.Validation("due_date must be a valid date")
		}
		fee.DueDate = *request.DueDate
	}
	if request.Session != nil {
		fee.Session = *request.Session
	}
	if request.Term != nil {
		fee.Term = *request.Term
	}

	fee.Status = domain.DeriveFeeStatus(fee.AmountPaid, fee.AmountDue, fee.DueDate, time.Now())

	if err := s.feeRepo.Update(ctx, fee); err != nil {
		return nil, apperrors.Internal(err)
	}

	installments, err := s.feeRepo.GetInstallments(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	fee.Installments = installments

	return fee, nil
}

// Delete removes the fee record and its installment ledger. Irreversible.
func (s *FeeService) Delete(ctx context.Context, feeID string) error {
	id, err := parseID(feeID)
	if err != nil {
		return err
	}

	if _, err := s.feeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.WrapFeeNotFound(feeID)
		}
		return apperrors.Internal(err)
	}

	if err := s.feeRepo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}

	return nil
}

// SweepOverdue flips pending fees past their due date to overdue.
func (s *FeeService) SweepOverdue(ctx context.Context) (int64, error) {
	updated, err := s.feeRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return updated, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Validationf("invalid record id %q", raw)
	}
	return id, nil
}
