package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/welldanyogia/webrana-posts-backend/internal/errors"
)

func setupTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestOK_ReturnsBareResource(t *testing.T) {
	c, rec := setupTestContext()

	err := OK(c, map[string]interface{}{"id": 1, "title": "hola"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"hola"}`, rec.Body.String())
}

func TestCreated_Returns201WithResource(t *testing.T) {
	c, rec := setupTestContext()

	err := Created(c, map[string]int{"id": 1})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestNoContent_Returns204(t *testing.T) {
	c, rec := setupTestContext()

	err := NoContent(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCollection_WrapsDataAndMeta(t *testing.T) {
	c, rec := setupTestContext()

	err := Collection(c, []int{1, 2}, NewPageMeta(1, 15, 2))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"data":[1,2],"meta":{"current_page":1,"per_page":15,"total":2,"last_page":1}}`,
		rec.Body.String())
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		perPage  int
		total    int64
		lastPage int
	}{
		{"empty", 1, 15, 0, 1},
		{"exact", 1, 5, 10, 2},
		{"remainder", 1, 5, 11, 3},
		{"single", 1, 15, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewPageMeta(tt.page, tt.perPage, tt.total)
			assert.Equal(t, tt.lastPage, meta.LastPage)
			assert.Equal(t, tt.total, meta.Total)
		})
	}
}

func TestValidationFailed_Returns422WithFieldErrors(t *testing.T) {
	c, rec := setupTestContext()
	vErr := apperrors.NewValidationError()
	vErr.Add("title", "title is required")

	err := ValidationFailed(c, vErr)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, apperrors.CodeValidationFailed, resp.Code)
	assert.Equal(t, []string{"title is required"}, resp.Errors["title"])
}

func TestErrorHelpers_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c echo.Context) error
		status int
		code   string
	}{
		{"BadRequest", func(c echo.Context) error { return BadRequest(c, "bad") }, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"Unauthorized", func(c echo.Context) error { return Unauthorized(c, "unauthenticated") }, http.StatusUnauthorized, apperrors.CodeUnauthorized},
		{"NotFound", func(c echo.Context) error { return NotFound(c, "post not found") }, http.StatusNotFound, apperrors.CodeNotFound},
		{"InternalError", func(c echo.Context) error { return InternalError(c, "boom") }, http.StatusInternalServerError, apperrors.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupTestContext()
			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Code)
			assert.Empty(t, resp.Errors)
		})
	}
}

func TestError_MapsSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.ErrPostNotFound, http.StatusNotFound},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"duplicate", apperrors.ErrDuplicateEntry, http.StatusConflict},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupTestContext()
			require.NoError(t, Error(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestError_HidesInternalDetails(t *testing.T) {
	c, rec := setupTestContext()

	require.NoError(t, Error(c, errors.New("pq: password authentication failed")))

	assert.NotContains(t, rec.Body.String(), "password authentication")
	assert.Equal(t, apperrors.ErrInternal.Error(), decodeError(t, rec).Error)
}

func TestError_ValidationErrorRendersFields(t *testing.T) {
	c, rec := setupTestContext()
	vErr := apperrors.NewValidationError()
	vErr.Add("title", "title is required")

	require.NoError(t, Error(c, apperrors.Wrap(vErr, "create")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Errors, "title")
}

func TestHTTPErrorHandler_RendersEchoErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"route not found", echo.ErrNotFound, http.StatusNotFound, apperrors.CodeNotFound},
		{"method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, apperrors.CodeMethodNotAllowed},
		{"unauthorized", echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated"), http.StatusUnauthorized, apperrors.CodeUnauthorized},
		{"rate limited", echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"), http.StatusTooManyRequests, apperrors.CodeRateLimited},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternalError},
		{"app sentinel", apperrors.ErrPostNotFound, http.StatusNotFound, apperrors.CodeNotFound},
	}

	handler := NewHTTPErrorHandler(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupTestContext()
			handler(tt.err, c)
			assert.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestHTTPErrorHandler_UnauthorizedMessage(t *testing.T) {
	c, rec := setupTestContext()

	NewHTTPErrorHandler(nil)(echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated"), c)

	assert.Equal(t, "unauthenticated", decodeError(t, rec).Error)
}
