package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/adeyemio/schoolbase/internal/domain"
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type bookRepository struct {
	db *sqlx.DB
}

func NewBookRepository(db *sqlx.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	query := `
		INSERT INTO library_books (id, title, author, isbn, category, available_copies, session, term, borrowed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.Category,
		book.AvailableCopies,
		book.Session,
		book.Term,
		book.BorrowedBy,
		book.CreatedAt,
		book.UpdatedAt,
	)

	return err
}

func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	query := `
		SELECT id, title, author, isbn, category, available_copies, session, term, borrowed_by, created_at, updated_at
		FROM library_books
		WHERE id = $1
	`

	var book domain.Book
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		return nil, err
	}

	return &book, nil
}

func (r *bookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	query := `
		SELECT id, title, author, isbn, category, available_copies, session, term, borrowed_by, created_at, updated_at
		FROM library_books
		ORDER BY title
	`

	books := []*domain.Book{}
	if err := r.db.SelectContext(ctx, &books, query); err != nil {
		return nil, err
	}

	return books, nil
}

func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	query := `
		UPDATE library_books
		SET title = $2, author = $3, isbn = $4, category = $5, available_copies = $6, borrowed_by = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.Category,
		book.AvailableCopies,
		book.BorrowedBy,
		time.Now(),
	)

	return err
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM library_books WHERE id = $1`, id)
	return err
}
