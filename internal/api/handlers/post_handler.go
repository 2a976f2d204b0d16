package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-posts-backend/internal/api/response"
	apperrors "github.com/welldanyogia/webrana-posts-backend/internal/errors"
	"github.com/welldanyogia/webrana-posts-backend/internal/metrics"
	"github.com/welldanyogia/webrana-posts-backend/internal/models"
	"github.com/welldanyogia/webrana-posts-backend/internal/repository"
	"github.com/welldanyogia/webrana-posts-backend/internal/validator"
)

const postNotFound = "post not found"

var errMalformedBody = errors.New("invalid request body")

// PostEventPublisher is notified after each successful post mutation
type PostEventPublisher interface {
	PostCreated(post *models.Post)
	PostUpdated(post *models.Post)
	PostDeleted(id uint)
}

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	repo           repository.PostRepository
	validator      *validator.Validator
	events         PostEventPublisher
	logger         *slog.Logger
	defaultPerPage int
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(repo repository.PostRepository, v *validator.Validator, defaultPerPage int) *PostHandler {
	if v == nil {
		v = validator.New()
	}
	return &PostHandler{
		repo:           repo,
		validator:      v,
		defaultPerPage: defaultPerPage,
	}
}

// WithEvents sets the publisher notified of post mutations
func (h *PostHandler) WithEvents(events PostEventPublisher) *PostHandler {
	h.events = events
	return h
}

// WithLogger sets the logger used for unexpected failures
func (h *PostHandler) WithLogger(logger *slog.Logger) *PostHandler {
	h.logger = logger
	return h
}

// PostRequest represents the request body for creating or updating a post
type PostRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

// rawPostRequest keeps title untyped so a non-string title is reported
// as a field error instead of a malformed body.
type rawPostRequest struct {
	Title interface{} `json:"title"`
}

// List handles GET /api/posts
func (h *PostHandler) List(c echo.Context) error {
	page, perPage := validator.ValidatePagination(
		queryInt(c, "page", 1),
		queryInt(c, "per_page", h.defaultPerPage),
		h.defaultPerPage,
	)

	posts, total, err := h.repo.List(c.Request().Context(), perPage, (page-1)*perPage)
	if err != nil {
		return h.storeError(c, "failed to list posts", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return response.Collection(c, posts, response.NewPageMeta(page, perPage, total))
}

// Show handles GET /api/posts/:id
func (h *PostHandler) Show(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return response.NotFound(c, postNotFound)
	}

	post, err := h.repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.storeError(c, "failed to get post", err)
	}

	return response.OK(c, post)
}

// Create handles POST /api/posts
func (h *PostHandler) Create(c echo.Context) error {
	req, err := h.bindAndValidate(c)
	if err != nil {
		return h.requestError(c, err)
	}

	post := &models.Post{Title: req.Title}
	if err := h.repo.Create(c.Request().Context(), post); err != nil {
		return h.storeError(c, "failed to create post", err)
	}

	metrics.RecordPostMutation(metrics.OperationCreate)
	if h.events != nil {
		h.events.PostCreated(post)
	}

	return response.Created(c, post)
}

// Update handles PUT /api/posts/:id
// A missing post is reported before the body is validated.
func (h *PostHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return response.NotFound(c, postNotFound)
	}

	ctx := c.Request().Context()
	post, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return h.storeError(c, "failed to get post", err)
	}

	req, err := h.bindAndValidate(c)
	if err != nil {
		return h.requestError(c, err)
	}

	post.Title = req.Title
	if err := h.repo.Update(ctx, post); err != nil {
		return h.storeError(c, "failed to update post", err)
	}

	metrics.RecordPostMutation(metrics.OperationUpdate)
	if h.events != nil {
		h.events.PostUpdated(post)
	}

	return response.OK(c, post)
}

// Destroy handles DELETE /api/posts/:id
func (h *PostHandler) Destroy(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return response.NotFound(c, postNotFound)
	}

	if err := h.repo.Delete(c.Request().Context(), id); err != nil {
		return h.storeError(c, "failed to delete post", err)
	}

	metrics.RecordPostMutation(metrics.OperationDelete)
	if h.events != nil {
		h.events.PostDeleted(id)
	}

	return response.NoContent(c)
}

func (h *PostHandler) bindAndValidate(c echo.Context) (*PostRequest, error) {
	var raw rawPostRequest
	if err := c.Bind(&raw); err != nil {
		return nil, errMalformedBody
	}

	req := &PostRequest{}
	switch title := raw.Title.(type) {
	case nil:
	case string:
		req.Title = validator.SanitizeString(title)
	default:
		vErr := apperrors.NewValidationError()
		vErr.Add("title", "title must be a string")
		return nil, vErr
	}

	if err := h.validator.Validate(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (h *PostHandler) requestError(c echo.Context, err error) error {
	if vErr := apperrors.GetValidationError(err); vErr != nil {
		return response.ValidationFailed(c, vErr)
	}
	if errors.Is(err, errMalformedBody) {
		return response.BadRequest(c, errMalformedBody.Error())
	}
	return h.storeError(c, "failed to read request", err)
}

// storeError translates repository failures into API errors. Anything
// unexpected is logged and answered with a generic 500.
func (h *PostHandler) storeError(c echo.Context, message string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		err = apperrors.NewAppError(apperrors.ErrPostNotFound, postNotFound, apperrors.CodeNotFound)
	case errors.Is(err, repository.ErrInvalidInput):
		err = apperrors.NewAppError(apperrors.ErrInvalidInput, err.Error(), apperrors.CodeInvalidInput)
	default:
		if h.logger != nil {
			h.logger.Error(message,
				slog.String("path", c.Request().URL.Path),
				slog.Any("error", err))
		}
	}
	return response.Error(c, err)
}

// parseID reads the :id path parameter; zero and non-numeric ids are invalid
func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or not an integer
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
