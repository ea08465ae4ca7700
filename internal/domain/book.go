package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Book is a library catalog entry. BorrowedBy is a flat attribute list;
// there is no borrow/return transition, updates replace fields wholesale.
type Book struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Author          string         `json:"author" db:"author"`
	ISBN            string         `json:"isbn" db:"isbn"`
	Category        string         `json:"category" db:"category"`
	AvailableCopies int            `json:"available_copies" db:"available_copies"`
	Session         string         `json:"session" db:"session"`
	Term            string         `json:"term" db:"term"`
	BorrowedBy      pq.StringArray `json:"borrowed_by" db:"borrowed_by"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

type CreateBookRequest struct {
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author" validate:"required"`
	ISBN            string `json:"isbn" validate:"required"`
	Category        string `json:"category"`
	AvailableCopies int    `json:"available_copies" validate:"gte=0"`
}

type UpdateBookRequest struct {
	Title           *string  `json:"title,omitempty"`
	Author          *string  `json:"author,omitempty"`
	ISBN            *string  `json:"isbn,omitempty"`
	Category        *string  `json:"category,omitempty"`
	AvailableCopies *int     `json:"available_copies,omitempty"`
	BorrowedBy      []string `json:"borrowed_by,omitempty"`
}
