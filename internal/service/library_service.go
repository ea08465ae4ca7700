package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/adeyemio/schoolbase/internal/academic"
	"github.com/adeyemio/schoolbase/internal/domain"
	"github.com/adeyemio/schoolbase/internal/repository"
	"github.com/adeyemio/schoolbase/pkg/apperrors"
)

// LibraryService is plain CRUD over the catalog. There is no
// borrow/return state machine; borrowed_by is replaced wholesale on
// update and is not reconciled against available_copies.
type LibraryService struct {
	bookRepo repository.BookRepository
	calendar academic.Calendar
}

func NewLibraryService(bookRepo repository.BookRepository, calendar academic.Calendar) *LibraryService {
	return &LibraryService{
		bookRepo: bookRepo,
		calendar: calendar,
	}
}

func (s *LibraryService) Create(ctx context.Context, request *domain.CreateBookRequest) (*domain.Book, error) {
	if request.AvailableCopies < 0 {
		return nil, apperrors.Validation("available_copies must not be negative")
	}

	now := time.Now()

	termCtx, err := academic.Resolve(now, s.calendar)
	if err != nil {
		if errors.Is(err, academic.ErrOutOfRange) {
			return nil, apperrors.Validation("current date is outside the configured school calendar")
		}
		return nil, apperrors.Internal(err)
	}

	book := &domain.Book{
		ID:              uuid.New(),
		Title:           request.Title,
		Author:          request.Author,
		ISBN:            request.ISBN,
		Category:        request.Category,
		AvailableCopies: request.AvailableCopies,
		Session:         termCtx.Session,
		Term:            termCtx.Term,
		BorrowedBy:      []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("a book with this isbn already exists", apperrors.ErrDuplicateISBN)
		}
		return nil, apperrors.Internal(err)
	}

	return book, nil
}

func (s *LibraryService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	id, err := parseID(bookID)
	if err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapBookNotFound(bookID)
		}
		return nil, apperrors.Internal(err)
	}

	return book, nil
}

func (s *LibraryService) List(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return books, nil
}

func (s *LibraryService) Update(ctx context.Context, bookID string, request *domain.UpdateBookRequest) (*domain.Book, error) {
	id, err := parseID(bookID)
	if err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapBookNotFound(bookID)
		}
		return nil, apperrors.Internal(err)
	}

	if request.Title != nil {
		book.Title = *request.Title
	}
	if request.Author != nil {
		book.Author = *request.Author
	}
	if request.ISBN != nil {
		book.ISBN = *request.ISBN
	}
	if request.Category != nil {
		book.Category = *request.Category
	}
	if request.AvailableCopies != nil {
		if *request.AvailableCopies < 0 {
			return nil, apperrors.Validation("available_copies must not be negative")
		}
		book.AvailableCopies = *request.AvailableCopies
	}
	if request.BorrowedBy != nil {
		book.BorrowedBy = request.BorrowedBy
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("a book with this isbn already exists", apperrors.ErrDuplicateISBN)
		}
		return nil, apperrors.Internal(err)
	}

	return book, nil
}

func (s *LibraryService) Delete(ctx context.Context, bookID string) error {
	id, err := parseID(bookID)
	if err != nil {
		return err
	}

	if _, err := s.bookRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.WrapBookNotFound(bookID)
		}
		return apperrors.Internal(err)
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}

	return nil
}
