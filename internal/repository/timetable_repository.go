package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adeyemio/schoolbase/internal/domain"
)

type timetableRepository struct {
	db *sqlx.DB
}

func NewTimetableRepository(db *sqlx.DB) TimetableRepository {
	return &timetableRepository{db: db}
}

func (r *timetableRepository) Create(ctx context.Context, timetable *domain.WeekTimetable) error {
	query := `
		INSERT INTO week_timetables (id, class_id, term, session, schedule, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		timetable.ID,
		timetable.ClassID,
		timetable.Term,
		timetable.Session,
		timetable.Schedule,
		timetable.CreatedAt,
		timetable.UpdatedAt,
	)

	return err
}

func (r *timetableRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WeekTimetable, error) {
	query := `
		SELECT id, class_id, term, session, schedule, created_at, updated_at
		FROM week_timetables
		WHERE id = $1
	`

	var timetable domain.WeekTimetable
	if err := r.db.GetContext(ctx, &timetable, query, id); err != nil {
		return nil, err
	}

	return &timetable, nil
}

func (r *timetableRepository) GetByClassTermSession(ctx context.Context, classID, term, session string) (*domain.WeekTimetable, error) {
	query := `
		SELECT id, class_id, term, session, schedule, created_at, updated_at
		FROM week_timetables
		WHERE class_id = $1 AND term = $2 AND session = $3
	`

	var timetable domain.WeekTimetable
	if err := r.db.GetContext(ctx, &timetable, query, classID, term, session); err != nil {
		return nil, err
	}

	return &timetable, nil
}

func (r *timetableRepository) List(ctx context.Context, term, session string) ([]*domain.WeekTimetable, error) {
	query := `
		SELECT id, class_id, term, session, schedule, created_at, updated_at
		FROM week_timetables
		WHERE ($1 = '' OR term = $1)
		  AND ($2 = '' OR session = $2)
		ORDER BY class_id
	`

	timetables := []*domain.WeekTimetable{}
	if err := r.db.SelectContext(ctx, &timetables, query, term, session); err != nil {
		return nil, err
	}

	return timetables, nil
}

func (r *timetableRepository) Update(ctx context.Context, timetable *domain.WeekTimetable) error {
	query := `
		UPDATE week_timetables
		SET schedule = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, timetable.ID, timetable.Schedule, time.Now())
	return err
}

func (r *timetableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM week_timetables WHERE id = $1`, id)
	return err
}
