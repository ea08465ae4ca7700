package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adeyemio/schoolbase/internal/domain"
)

// FeeRepository defines the interface for fee ledger data operations
type FeeRepository interface {
	// Create persists a new fee record
	Create(ctx context.Context, fee *domain.Fee) error

	// GetByID retrieves a fee record by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Fee, error)

	// List retrieves fee records matching the filter
	List(ctx context.Context, filter domain.FeeFilter) ([]*domain.Fee, error)

	// GetInstallments retrieves the installment ledger for a fee, oldest first
	GetInstallments(ctx context.Context, feeID uuid.UUID) ([]*domain.Installment, error)

	// AddInstallment appends an installment and increments amount_paid
	// atomically at the store, then re-derives the persisted status from
	// the incremented total. Returns the updated fee.
	AddInstallment(ctx context.Context, installment *domain.Installment, now time.Time) (*domain.Fee, error)

	// Update persists administrative field changes and the re-derived status
	Update(ctx context.Context, fee *domain.Fee) error

	// Delete removes a fee record and its installment ledger atomically
	Delete(ctx context.Context, id uuid.UUID) error

	// MarkOverdue flips pending fees past their due date to overdue,
	// returning the number of records updated
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// BookRepository defines the interface for library catalog data operations
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TimetableRepository defines the interface for week-timetable data operations
type TimetableRepository interface {
	Create(ctx context.Context, timetable *domain.WeekTimetable) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WeekTimetable, error)

	// GetByClassTermSession looks up the single document for a
	// (class_id, term, session) triple
	GetByClassTermSession(ctx context.Context, classID, term, session string) (*domain.WeekTimetable, error)

	List(ctx context.Context, term, session string) ([]*domain.WeekTimetable, error)
	Update(ctx context.Context, timetable *domain.WeekTimetable) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository resolves caller accounts for the route guards
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// APIKeyRepository resolves internal-service credentials
type APIKeyRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.APIKey, error)
}
