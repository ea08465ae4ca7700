package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/adeyemio/schoolbase/internal/domain"
)

type MockFeeRepository struct {
	mock.Mock
}

func (m *MockFeeRepository) Create(ctx context.Context, fee *domain.Fee) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}

func (m *MockFeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) List(ctx context.Context, filter domain.FeeFilter) ([]*domain.Fee, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) GetInstallments(ctx context.Context, feeID uuid.UUID) ([]*domain.Installment, error) {
	args := m.Called(ctx, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockFeeRepository) AddInstallment(ctx context.Context, installment *domain.Installment, now time.Time) (*domain.Fee, error) {
	args := m.Called(ctx, installment, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) Update(ctx context.Context, fee *domain.Fee) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}

func (m *MockFeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeeRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Book), args.Error(1)
}

func (m *MockBookRepository) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTimetableRepository struct {
	mock.Mock
}

func (m *MockTimetableRepository) Create(ctx context.Context, timetable *domain.WeekTimetable) error {
	args := m.Called(ctx, timetable)
	return args.Error(0)
}

func (m *MockTimetableRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WeekTimetable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeekTimetable), args.Error(1)
}

func (m *MockTimetableRepository) GetByClassTermSession(ctx context.Context, classID, term, session string) (*domain.WeekTimetable, error) {
	args := m.Called(ctx, classID, term, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeekTimetable), args.Error(1)
}

func (m *MockTimetableRepository) List(ctx context.Context, term, session string) ([]*domain.WeekTimetable, error) {
	args := m.Called(ctx, term, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeekTimetable), args.Error(1)
}

func (m *MockTimetableRepository) Update(ctx context.Context, timetable *domain.WeekTimetable) error {
	args := m.Called(ctx, timetable)
	return args.Error(0)
}

func (m *MockTimetableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockAPIKeyRepository struct {
	mock.Mock
}

func (m *MockAPIKeyRepository) GetByKey(ctx context.Context, key string) (*domain.APIKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIKey), args.Error(1)
}
