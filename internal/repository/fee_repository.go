package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adeyemio/schoolbase/internal/domain"
)

type feeRepository struct {
	db *sqlx.DB
}

func NewFeeRepository(db *sqlx.DB) FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) Create(ctx context.Context, fee *domain.Fee) error {
	query := `
		INSERT INTO fees (id, student_id, amount_due, amount_paid, due_date, session, term, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		fee.ID,
		fee.StudentID,
		fee.AmountDue,
		fee.AmountPaid,
		fee.DueDate,
		fee.Session,
		fee.Term,
		fee.Status,
		fee.CreatedAt,
		fee.UpdatedAt,
	)

	return err
}

func (r *feeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fee, error) {
	query := `
		SELECT id, student_id, amount_due, amount_paid, due_date, session, term, status, created_at, updated_at
		FROM fees
		WHERE id = $1
	`

	var fee domain.Fee
	if err := r.db.GetContext(ctx, &fee, query, id); err != nil {
		return nil, err
	}

	return &fee, nil
}

func (r *feeRepository) List(ctx context.Context, filter domain.FeeFilter) ([]*domain.Fee, error) {
	query := `
		SELECT id, student_id, amount_due, amount_paid, due_date, session, term, status, created_at, updated_at
		FROM fees
		WHERE ($1 = '' OR student_id = $1)
		  AND ($2 = '' OR session = $2)
		  AND ($3 = '' OR term = $3)
		  AND ($4 = '' OR status = $4)
		ORDER BY created_at DESC
	`

	fees := []*domain.Fee{}
	err := r.db.SelectContext(ctx, &fees, query, filter.StudentID, filter.Session, filter.Term, filter.Status)
	if err != nil {
		return nil, err
	}

	return fees, nil
}

func (r *feeRepository) GetInstallments(ctx context.Context, feeID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT id, fee_id, amount, date_paid, created_at
		FROM fee_installments
		WHERE fee_id = $1
		ORDER BY created_at, id
	`

	installments := []*domain.Installment{}
	if err := r.db.SelectContext(ctx, &installments, query, feeID); err != nil {
		return nil, err
	}

	return installments, nil
}

// AddInstallment appends the installment and bumps amount_paid in a single
// transaction. The increment happens at the store, not in memory, so two
// concurrent captures against the same fee both land: the row lock
// serializes the UPDATEs and each one adds onto the other's total.
func (r *feeRepository) AddInstallment(ctx context.Context, installment *domain.Installment, now time.Time) (*domain.Fee, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Increment first: an unknown fee id surfaces as sql.ErrNoRows here
	// rather than a foreign-key violation on the insert.
	increment := `
		UPDATE fees
		SET amount_paid = amount_paid + $2, updated_at = $3
		WHERE id = $1
		RETURNING id, student_id, amount_due, amount_paid, due_date, session, term, status, created_at, updated_at
	`
	var fee domain.Fee
	if err = tx.GetContext(ctx, &fee, increment, installment.FeeID, installment.Amount, now); err != nil {
		return nil, err
	}

	insert := `
		INSERT INTO fee_installments (id, fee_id, amount, date_paid, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, insert,
		installment.ID,
		installment.FeeID,
		installment.Amount,
		installment.DatePaid,
		installment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	fee.Status = domain.DeriveFeeStatus(fee.AmountPaid, fee.AmountDue, fee.DueDate, now)
	if _, err = tx.ExecContext(ctx, `UPDATE fees SET status = $2 WHERE id = $1`, fee.ID, fee.Status); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &fee, nil
}

func (r *feeRepository) Update(ctx context.Context, fee *domain.Fee) error {
	query := `
		UPDATE fees
		SET amount_due = $2, due_date = $3, session = $4, term = $5, status = $6, updated_at = $7
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		fee.ID,
		fee.AmountDue,
		fee.DueDate,
		fee.Session,
		fee.Term,
		fee.Status,
		time.Now(),
	)

	return err
}

func (r *feeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM fee_installments WHERE fee_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM fees WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *feeRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE fees
		SET status = $1, updated_at = $2
		WHERE status = $3 AND due_date < $2 AND amount_paid < amount_due
	`

	res, err := r.db.ExecContext(ctx, query, domain.FeeStatusOverdue, now, domain.FeeStatusPending)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
