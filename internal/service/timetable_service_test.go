package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adeyemio/schoolbase/internal/domain"
	"github.com/adeyemio/schoolbase/pkg/apperrors"
	"github.com/adeyemio/schoolbase/tests/mocks"
)

func sampleSchedule() domain.WeekSchedule {
	return domain.WeekSchedule{
		"Monday": {
			{Subject: "Mathematics", Teacher: "Mr. Okoro", StartTime: "08:00", EndTime: "08:40"},
			{Subject: "English", Teacher: "Mrs. Bello", StartTime: "08:40", EndTime: "09:20"},
		},
		"Tuesday": {
			{Subject: "Basic Science", Teacher: "Ms. Adamu", StartTime: "08:00", EndTime: "08:40"},
		},
	}
}

func TestTimetableService_Create_StampsTermAndSession(t *testing.T) {
	repo := &mocks.MockTimetableRepository{}
	svc := NewTimetableService(repo, testCalendar())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(tt *domain.WeekTimetable) bool {
		return tt.ClassID == "JSS1A" && tt.Term != "" && tt.Session != ""
	})).Return(nil)

	timetable, err := svc.Create(context.Background(), &domain.CreateWeekTimetableRequest{
		ClassID:  "JSS1A",
		Schedule: sampleSchedule(),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, timetable.Term)
	assert.Regexp(t, `^\d{4}/\d{4}$`, timetable.Session)

	decoded, err := timetable.DecodeSchedule()
	require.NoError(t, err)
	assert.Len(t, decoded["Monday"], 2)

	repo.AssertExpectations(t)
}

func TestTimetableService_Create_DuplicateTriple(t *testing.T) {
	repo := &mocks.MockTimetableRepository{}
	svc := NewTimetableService(repo, testCalendar())

	repo.On("Create", mock.Anything, mock.Anything).Return(&pq.Error{Code: "23505"})

	_, err := svc.Create(context.Background(), &domain.CreateWeekTimetableRequest{
		ClassID:  "JSS1A",
		Schedule: sampleSchedule(),
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestTimetableService_Create_EmptySchedule(t *testing.T) {
	repo := &mocks.MockTimetableRepository{}
	svc := NewTimetableService(repo, testCalendar())

	_, err := svc.Create(context.Background(), &domain.CreateWeekTimetableRequest{
		ClassID:  "JSS1A",
		Schedule: domain.WeekSchedule{},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	repo.AssertNotCalled(t, "Create")
}

func TestTimetableService_Find_ResolvesTripleFromDate(t *testing.T) {
	repo := &mocks.MockTimetableRepository{}
	svc := NewTimetableService(repo, testCalendar())

	// 2020-10-01 falls in the First term of 2020/2021 for the test calendar.
	ref := time.Date(2020, time.October, 1, 0, 0, 0, 0, time.UTC)
	want := &domain.WeekTimetable{ID: uuid.New(), ClassID: "JSS1A", Term: "First", Session: "2020/2021"}

	repo.On("GetByClassTermSession", mock.Anything, "JSS1A", "First", "2020/2021").Return(want, nil)

	got, err := svc.Find(context.Background(), "JSS1A", ref)

	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestTimetableService_Find_MissingClassID(t *testing.T) {
	repo := &mocks.MockTimetableRepository{}
	svc := NewTimetableService(repo, testCalendar())

	_, err := svc.Find(context.Background(), "", time.Now())

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestTimetableService_Find_NoDocument(t *testing.T) {
	repo := &mocks.MockTimetableRepository{}
	svc := NewTimetableService(repo, testCalendar())

	repo.On("GetByClassTermSession", mock.Anything, "JSS9Z", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

	_, err := svc.Find(context.Background(), "JSS9Z", time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestTimetableService_Update_ReplacesSchedule(t *testing.T) {
	repo := &mocks.MockTimetableRepository{}
	svc := NewTimetableService(repo, testCalendar())

	id := uuid.New()
	existing := &domain.WeekTimetable{ID: id, ClassID: "JSS1A", Term: "First", Session: "2020/2021", Schedule: []byte(`{}`)}

	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(tt *domain.WeekTimetable) bool {
		// term/session stamped at creation stay untouched on update
		return tt.Term == "First" && tt.Session == "2020/2021"
	})).Return(nil)

	_, err := svc.Update(context.Background(), id.String(), &domain.UpdateWeekTimetableRequest{
		Schedule: sampleSchedule(),
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTimetableService_Delete_NotFound(t *testing.T) {
	repo := &mocks.MockTimetableRepository{}
	svc := NewTimetableService(repo, testCalendar())

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	err := svc.Delete(context.Background(), id.String())

	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	repo.AssertNotCalled(t, "Delete")
}
