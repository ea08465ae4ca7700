package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/adeyemio/schoolbase/internal/domain"
	"github.com/adeyemio/schoolbase/tests/mocks"
)

// The guard works without redis; the cache is an optimization, not a
// dependency, so these tests exercise the store path directly.

func TestAPIKeyGuard_MissingHeader(t *testing.T) {
	keys := &mocks.MockAPIKeyRepository{}
	guard := NewAPIKeyGuard(keys, nil, time.Minute)

	rec := httptest.NewRecorder()
	guard.Require(okHandler()).ServeHTTP(rec, httptest.NewRequest("POST", "/internal/fees/sweep", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	keys.AssertNotCalled(t, "GetByKey")
}

func TestAPIKeyGuard_UnknownKey(t *testing.T) {
	keys := &mocks.MockAPIKeyRepository{}
	keys.On("GetByKey", mock.Anything, "bogus").Return(nil, sql.ErrNoRows)
	guard := NewAPIKeyGuard(keys, nil, time.Minute)

	req := httptest.NewRequest("POST", "/internal/fees/sweep", nil)
	req.Header.Set("x-api-key", "bogus")

	rec := httptest.NewRecorder()
	guard.Require(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPIKeyGuard_InactiveKey(t *testing.T) {
	keys := &mocks.MockAPIKeyRepository{}
	keys.On("GetByKey", mock.Anything, "revoked").Return(&domain.APIKey{Key: "revoked", Active: false}, nil)
	guard := NewAPIKeyGuard(keys, nil, time.Minute)

	req := httptest.NewRequest("POST", "/internal/fees/sweep", nil)
	req.Header.Set("x-api-key", "revoked")

	rec := httptest.NewRecorder()
	guard.Require(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPIKeyGuard_StoreFailure(t *testing.T) {
	keys := &mocks.MockAPIKeyRepository{}
	keys.On("GetByKey", mock.Anything, "any").Return(nil, errors.New("connection refused"))
	guard := NewAPIKeyGuard(keys, nil, time.Minute)

	req := httptest.NewRequest("POST", "/internal/fees/sweep", nil)
	req.Header.Set("x-api-key", "any")

	rec := httptest.NewRecorder()
	guard.Require(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPIKeyGuard_ActiveKey(t *testing.T) {
	keys := &mocks.MockAPIKeyRepository{}
	keys.On("GetByKey", mock.Anything, "svc-key").Return(&domain.APIKey{Key: "svc-key", Active: true}, nil)
	guard := NewAPIKeyGuard(keys, nil, time.Minute)

	req := httptest.NewRequest("POST", "/internal/fees/sweep", nil)
	req.Header.Set("x-api-key", "svc-key")

	rec := httptest.NewRecorder()
	guard.Require(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
