package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/welldanyogia/webrana-posts-backend/internal/errors"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error"`
	Code    string                `json:"code,omitempty"`
	Errors  apperrors.FieldErrors `json:"errors,omitempty"`
}

// CollectionResponse wraps a list of resources in the data envelope
type CollectionResponse struct {
	Data interface{} `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// PageMeta contains pagination metadata
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// NewPageMeta computes pagination metadata; LastPage is at least 1
func NewPageMeta(page, perPage int, total int64) PageMeta {
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return PageMeta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
}

// OK returns a 200 response with the resource as the body
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// Created returns a 201 Created response with the resource as the body
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// NoContent returns a 204 No Content response
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Collection returns a 200 response with data wrapped in the envelope
func Collection(c echo.Context, data interface{}, meta PageMeta) error {
	return c.JSON(http.StatusOK, CollectionResponse{
		Data: data,
		Meta: meta,
	})
}

// Error returns an error response with appropriate status code
func Error(c echo.Context, err error) error {
	if vErr := apperrors.GetValidationError(err); vErr != nil {
		return ValidationFailed(c, vErr)
	}

	code := apperrors.GetErrorCode(err)
	status := HTTPStatus(code)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = apperrors.ErrInternal.Error()
	}

	return c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    apperrors.CodeInvalidInput,
	})
}

// Unauthorized returns a 401 Unauthorized response
func Unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    apperrors.CodeUnauthorized,
	})
}

// NotFound returns a 404 Not Found response
func NotFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    apperrors.CodeNotFound,
	})
}


// ValidationFailed returns a 422 response listing the failing fields
func ValidationFailed(c echo.Context, vErr *apperrors.ValidationError) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Success: false,
		Error:   apperrors.ErrValidation.Error(),
		Code:    apperrors.CodeValidationFailed,
		Errors:  vErr.Fields,
	})
}

// InternalError returns a 500 Internal Server Error response
func InternalError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    apperrors.CodeInternalError,
	})
}

// HTTPStatus maps error codes to HTTP status codes
func HTTPStatus(code string) int {
	switch code {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeDuplicateEntry:
		return http.StatusConflict
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeValidationFailed:
		return http.StatusUnprocessableEntity
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeForbidden:
		return http.StatusForbidden
	case apperrors.CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case apperrors.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// codeForStatus maps an HTTP status back to an error code
func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return apperrors.CodeNotFound
	case http.StatusConflict:
		return apperrors.CodeDuplicateEntry
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return apperrors.CodeInvalidInput
	case http.StatusUnprocessableEntity:
		return apperrors.CodeValidationFailed
	case http.StatusUnauthorized:
		return apperrors.CodeUnauthorized
	case http.StatusForbidden:
		return apperrors.CodeForbidden
	case http.StatusMethodNotAllowed:
		return apperrors.CodeMethodNotAllowed
	case http.StatusTooManyRequests:
		return apperrors.CodeRateLimited
	default:
		return apperrors.CodeInternalError
	}
}

// NewHTTPErrorHandler renders errors that escape handlers and middleware
// (routing misses, middleware rejections, panics) in the ErrorResponse shape.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := apperrors.ErrInternal.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if status < http.StatusInternalServerError {
				message = httpErrorMessage(he)
			}
		} else {
			var vErr *apperrors.ValidationError
			if errors.As(err, &vErr) {
				_ = ValidationFailed(c, vErr)
				return
			}
			code := apperrors.GetErrorCode(err)
			status = HTTPStatus(code)
			if status < http.StatusInternalServerError {
				message = err.Error()
			}
		}

		if status >= http.StatusInternalServerError && logger != nil {
			logger.Error("unhandled error",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Any("error", err))
		}

		body := ErrorResponse{
			Success: false,
			Error:   message,
			Code:    codeForStatus(status),
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil && logger != nil {
			logger.Error("failed to write error response", slog.Any("error", writeErr))
		}
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprint(m)
	}
}
