package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/adeyemio/schoolbase/internal/academic"
	"github.com/adeyemio/schoolbase/internal/domain"
	"github.com/adeyemio/schoolbase/internal/repository"
	"github.com/adeyemio/schoolbase/pkg/apperrors"
)

// TimetableService manages week-schedule documents keyed by
// (class_id, term, session). Term and session are resolved once at
// creation and trusted for lookups by id; the search path re-derives
// them from the request date.
type TimetableService struct {
	timetableRepo repository.TimetableRepository
	calendar      academic.Calendar
}

func NewTimetableService(timetableRepo repository.TimetableRepository, calendar academic.Calendar) *TimetableService {
	return &TimetableService{
		timetableRepo: timetableRepo,
		calendar:      calendar,
	}
}

func (s *TimetableService) Create(ctx context.Context, request *domain.CreateWeekTimetableRequest) (*domain.WeekTimetable, error) {
	if len(request.Schedule) == 0 {
		return nil, apperrors.Validation("schedule must contain at least one day")
	}

	now := time.Now()

	termCtx, err := academic.Resolve(now, s.calendar)
	if err != nil {
		if errors.Is(err, academic.ErrOutOfRange) {
			return nil, apperrors.Validation("current date is outside the configured school calendar")
		}
		return nil, apperrors.Internal(err)
	}

	raw, err := json.Marshal(request.Schedule)
	if err != nil {
		return nil, apperrors.Validation("schedule is not encodable")
	}

	timetable := &domain.WeekTimetable{
		ID:        uuid.New(),
		ClassID:   request.ClassID,
		Term:      termCtx.Term,
		Session:   termCtx.Session,
		Schedule:  raw,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.timetableRepo.Create(ctx, timetable); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("a timetable for this class, term and session already exists", apperrors.ErrTimetableExists)
		}
		return nil, apperrors.Internal(err)
	}

	return timetable, nil
}

func (s *TimetableService) Get(ctx context.Context, timetableID string) (*domain.WeekTimetable, error) {
	id, err := parseID(timetableID)
	if err != nil {
		return nil, err
	}

	timetable, err := s.timetableRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapTimetableNotFound(timetableID)
		}
		return nil, apperrors.Internal(err)
	}

	return timetable, nil
}

// Find resolves the current term/session from the request date and looks
// up the document for the class. Callers may override the resolver's
// reference date to target a different term.
func (s *TimetableService) Find(ctx context.Context, classID string, ref time.Time) (*domain.WeekTimetable, error) {
	if classID == "" {
		return nil, apperrors.Validation("class_id is required")
	}
	if ref.IsZero() {
		ref = time.Now()
	}

	termCtx, err := academic.Resolve(ref, s.calendar)
	if err != nil {
		if errors.Is(err, academic.ErrOutOfRange) {
			return nil, apperrors.Validation("reference date is outside the configured school calendar")
		}
		return nil, apperrors.Internal(err)
	}

	timetable, err := s.timetableRepo.GetByClassTermSession(ctx, classID, termCtx.Term, termCtx.Session)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("no timetable for this class in the current term", apperrors.ErrTimetableNotFound)
		}
		return nil, apperrors.Internal(err)
	}

	return timetable, nil
}

func (s *TimetableService) List(ctx context.Context, term, session string) ([]*domain.WeekTimetable, error) {
	timetables, err := s.timetableRepo.List(ctx, term, session)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return timetables, nil
}

func (s *TimetableService) Update(ctx context.Context, timetableID string, request *domain.UpdateWeekTimetableRequest) (*domain.WeekTimetable, error) {
	id, err := parseID(timetableID)
	if err != nil {
		return nil, err
	}

	if len(request.Schedule) == 0 {
		return nil, apperrors.Validation("schedule must contain at least one day")
	}

	timetable, err := s.timetableRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapTimetableNotFound(timetableID)
		}
		return nil, apperrors.Internal(err)
	}

	raw, err := json.Marshal(request.Schedule)
	if err != nil {
		return nil, apperrors.Validation("schedule is not encodable")
	}
	timetable.Schedule = raw
	timetable.UpdatedAt = time.Now()

	if err := s.timetableRepo.Update(ctx, timetable); err != nil {
		return nil, apperrors.Internal(err)
	}

	return timetable, nil
}

func (s *TimetableService) Delete(ctx context.Context, timetableID string) error {
	id, err := parseID(timetableID)
	if err != nil {
		return err
	}

	if _, err := s.timetableRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.WrapTimetableNotFound(timetableID)
		}
		return apperrors.Internal(err)
	}

	if err := s.timetableRepo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}

	return nil
}
