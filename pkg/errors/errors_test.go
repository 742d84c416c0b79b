package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWrap_KeepsAppErrorType(t *testing.T) {
	base := NewDatabaseError("findNodesByLabelAnyOrg", stderrors.New("connection reset"))

	err := Wrap(base, "platforms")

	require.Error(t, err)
	assert.True(t, IsDatabase(err))
	assert.Contains(t, err.Error(), "platforms: database operation 'findNodesByLabelAnyOrg' failed")
	assert.Contains(t, base.Message, "database operation")
	assert.NotContains(t, base.Message, "platforms")
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	cause := stderrors.New("boom")

	err := Wrap(cause, "resolve")

	assert.True(t, IsType(err, ErrorTypeInternal))
	assert.True(t, stderrors.Is(err, cause))
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestGetAppError_ThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewNotFoundError("tag"))

	appErr := GetAppError(err)

	require.NotNil(t, appErr)
	assert.Equal(t, "tag not found", appErr.Message)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestAppError_Extensions(t *testing.T) {
	err := NewValidationError("platform is required").
		WithCode("MISSING_ARGUMENT").
		WithDetails(map[string]interface{}{"field": "platform"})

	ext := err.Extensions()

	assert.Equal(t, "VALIDATION", ext["type"])
	assert.Equal(t, "MISSING_ARGUMENT", ext["code"])
	assert.Equal(t, "platform", ext["field"])
}

func TestErrorHandler_Handle(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	t.Run("app error uses its status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		req.Header.Set("X-Request-ID", "req-1")

		h.Handle(rec, req, NewUnavailableError("neo4j"))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "UNAVAILABLE", body.Type)
		assert.Equal(t, "req-1", body.RequestID)
	})

	t.Run("plain error hides message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ready", nil)

		h.Handle(rec, req, stderrors.New("secret detail"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret detail")
	})
}

func TestErrorHandler_MiddlewareRecoversPanic(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("resolver exploded")
	})

	rec := httptest.NewRecorder()
	h.Middleware(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL")
}

func TestErrorHandler_GraphQLShape(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("resolver exploded")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("X-Request-ID", "req-2")
	h.Middleware(panicky).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body GraphQLErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Data)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "INTERNAL", body.Errors[0].Extensions["type"])
	assert.Equal(t, "req-2", body.Errors[0].Extensions["request_id"])
}

func TestErrorHandler_HandleStatus(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	rec := httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodDelete, "/health", nil), http.StatusMethodNotAllowed, "method not allowed")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION", body.Type)
	assert.Equal(t, "method not allowed", body.Message)
}

func TestErrorHandler_DebugShowsMessage(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), true)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/ready", nil), stderrors.New("dial tcp: refused"))

	assert.Contains(t, rec.Body.String(), "dial tcp: refused")
}
