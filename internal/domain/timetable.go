package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Period is one teaching slot in a weekly grid.
type Period struct {
	Subject   string `json:"subject" validate:"required"`
	Teacher   string `json:"teacher" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// WeekSchedule maps a weekday name to its ordered periods.
type WeekSchedule map[string][]Period

// WeekTimetable is the aggregate schedule for one class across a full
// week, scoped to one term/session. At most one document exists per
// (class_id, term, session).
type WeekTimetable struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	ClassID   string         `json:"class_id" db:"class_id"`
	Term      string         `json:"term" db:"term"`
	Session   string         `json:"session" db:"session"`
	Schedule  types.JSONText `json:"schedule" db:"schedule"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// DecodeSchedule unpacks the stored weekly grid.
func (t *WeekTimetable) DecodeSchedule() (WeekSchedule, error) {
	var s WeekSchedule
	if err := json.Unmarshal(t.Schedule, &s); err != nil {
		return nil, err
	}
	return s, nil
}

type CreateWeekTimetableRequest struct {
	ClassID  string       `json:"class_id" validate:"required"`
	Schedule WeekSchedule `json:"schedule" validate:"required"`
}

type UpdateWeekTimetableRequest struct {
	Schedule WeekSchedule `json:"schedule" validate:"required"`
}
