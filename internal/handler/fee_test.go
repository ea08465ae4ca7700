package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adeyemio/schoolbase/internal/academic"
	"github.com/adeyemio/schoolbase/internal/domain"
	"github.com/adeyemio/schoolbase/internal/service"
	"github.com/adeyemio/schoolbase/tests/mocks"
)

func newFeeHandler(feeRepo *mocks.MockFeeRepository) *FeeHandler {
	calendar := academic.Calendar{
		ScheduleStart: time.Date(2020, time.September, 7, 0, 0, 0, 0, time.UTC),
		TermWeeks:     13,
		HolidayWeeks:  [3]int{2, 2, 6},
	}
	return NewFeeHandler(service.NewFeeService(feeRepo, calendar))
}

func feeRouter(h *FeeHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/fees", h.Create).Methods("POST")
	router.HandleFunc("/fees/{id}", h.Get).Methods("GET")
	router.HandleFunc("/fees/{id}/installment", h.RecordInstallment).Methods("PATCH")
	return router
}

func TestFeeHandler_Create(t *testing.T) {
	feeRepo := &mocks.MockFeeRepository{}
	feeRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{
		"student_id": "STU-001",
		"amount_due": "50000",
		"due_date":   time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
	})

	rec := httptest.NewRecorder()
	feeRouter(newFeeHandler(feeRepo)).ServeHTTP(rec, httptest.NewRequest("POST", "/fees", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var fee domain.Fee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fee))
	assert.Equal(t, "STU-001", fee.StudentID)
	assert.Equal(t, domain.FeeStatusPending, fee.Status)
}

func TestFeeHandler_Create_MalformedBody(t *testing.T) {
	feeRepo := &mocks.MockFeeRepository{}

	rec := httptest.NewRecorder()
	feeRouter(newFeeHandler(feeRepo)).ServeHTTP(rec, httptest.NewRequest("POST", "/fees", bytes.NewReader([]byte("{not json"))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// error responses are normalized to a single {"error": ...} shape
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
}

func TestFeeHandler_Get_NotFound(t *testing.T) {
	feeRepo := &mocks.MockFeeRepository{}
	id := uuid.New()
	feeRepo.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	rec := httptest.NewRecorder()
	feeRouter(newFeeHandler(feeRepo)).ServeHTTP(rec, httptest.NewRequest("GET", "/fees/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], id.String())
}

func TestFeeHandler_RecordInstallment(t *testing.T) {
	feeRepo := &mocks.MockFeeRepository{}
	id := uuid.New()

	updated := &domain.Fee{
		ID:         id,
		StudentID:  "STU-001",
		AmountDue:  decimal.NewFromInt(50000),
		AmountPaid: decimal.NewFromInt(10000),
		DueDate:    time.Now().AddDate(0, 1, 0),
		Status:     domain.FeeStatusPending,
	}
	feeRepo.On("AddInstallment", mock.Anything, mock.Anything, mock.Anything).Return(updated, nil)
	feeRepo.On("GetInstallments", mock.Anything, id).Return([]*domain.Installment{
		{FeeID: id, Amount: decimal.NewFromInt(10000)},
	}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"amount":    "10000",
		"date_paid": time.Now().Format(time.RFC3339),
	})

	rec := httptest.NewRecorder()
	feeRouter(newFeeHandler(feeRepo)).ServeHTTP(rec, httptest.NewRequest("PATCH", "/fees/"+id.String()+"/installment", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var fee domain.Fee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fee))
	assert.Len(t, fee.Installments, 1)
	assert.True(t, fee.AmountPaid.Equal(decimal.NewFromInt(10000)))
}

func TestFeeHandler_RecordInstallment_ZeroAmount(t *testing.T) {
	feeRepo := &mocks.MockFeeRepository{}
	id := uuid.New()

	body, _ := json.Marshal(map[string]interface{}{
		"amount":    "0",
		"date_paid": time.Now().Format(time.RFC3339),
	})

	rec := httptest.NewRecorder()
	feeRouter(newFeeHandler(feeRepo)).ServeHTTP(rec, httptest.NewRequest("PATCH", "/fees/"+id.String()+"/installment", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	feeRepo.AssertNotCalled(t, "AddInstallment")
}
