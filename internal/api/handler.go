package api

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"content_fetcher/internal/domain"
	"content_fetcher/internal/platform"
)

// FetchOrchestrator is the service surface the HTTP layer drives.
type FetchOrchestrator interface {
	StartFetch(ctx context.Context, userID uuid.UUID, taskType domain.TaskType, start, end *time.Time) (*domain.FetchTask, error)
	Task(ctx context.Context, id uuid.UUID) (*domain.FetchTask, error)
	TaskHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.FetchTask, error)
	QueuedTasks(ctx context.Context) ([]domain.FetchTask, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
	SupportedPlatforms() []string
	ValidateUserID(ctx context.Context, platformType, externalUserID string) (bool, error)
	TestConnection(ctx context.Context, platformType string) error
}

type Handler struct {
	fetcher FetchOrchestrator
	logger  *slog.Logger
}

func NewHandler(fetcher FetchOrchestrator, logger *slog.Logger) *Handler {
	return &Handler{
		fetcher: fetcher,
		logger:  logger.With("component", "api"),
	}
}

// Register mounts all routes on the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/users/:id/fetch", h.StartFetch)
	v1.GET("/users/:id/fetch/history", h.TaskHistory)
	v1.GET("/fetch/tasks/:id", h.GetTask)
	v1.POST("/fetch/tasks/:id/cancel", h.CancelTask)
	v1.GET("/fetch/queue", h.Queue)
	v1.GET("/platforms", h.Platforms)
	v1.POST("/platforms/:type/validate", h.ValidateUserID)
	v1.POST("/platforms/:type/test-connection", h.TestConnection)
}

type startFetchRequest struct {
	TaskType  string     `json:"taskType"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) StartFetch(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req startFetchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	taskType := domain.TaskTypeManual
	if req.TaskType != "" {
		switch domain.TaskType(req.TaskType) {
		case domain.TaskTypeManual, domain.TaskTypeScheduled:
			taskType = domain.TaskType(req.TaskType)
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "invalid task type")
		}
	}

	task, err := h.fetcher.StartFetch(c.Request().Context(), userID, taskType, req.StartTime, req.EndTime)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusAccepted, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	task, err := h.fetcher.Task(c.Request().Context(), taskID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) CancelTask(c echo.Context) error {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	cancelled, err := h.fetcher.Cancel(c.Request().Context(), taskID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func (h *Handler) Queue(c echo.Context) error {
	tasks, err := h.fetcher.QueuedTasks(c.Request().Context())
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) TaskHistory(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	tasks, err := h.fetcher.TaskHistory(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) Platforms(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"platforms": h.fetcher.SupportedPlatforms()})
}

type validateUserRequest struct {
	ExternalUserID string `json:"externalUserId"`
}

func (h *Handler) ValidateUserID(c echo.Context) error {
	var req validateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ExternalUserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "externalUserId is required")
	}

	valid, err := h.fetcher.ValidateUserID(c.Request().Context(), c.Param("type"), req.ExternalUserID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": valid})
}

func (h *Handler) TestConnection(c echo.Context) error {
	if err := h.fetcher.TestConnection(c.Request().Context(), c.Param("type")); err != nil {
		return h.mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrTrackedUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, platform.ErrUnknownPlatform),
		errors.Is(err, platform.ErrConfig):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, platform.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, platform.ErrConnection):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		h.logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
