package http

import (
	"log"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	apperrors "task-market.com/task-market/internal/errors"
	middleware "task-market.com/task-market/internal/http/middlewares"
	"task-market.com/task-market/internal/queue"
	"task-market.com/task-market/internal/services"
	"task-market.com/task-market/internal/workflow"
)

type Handler struct {
	tasks         *services.TaskService
	applications  *services.ApplicationService
	notifications *services.NotificationService
	intake        *services.IntakeService
	sessions      *services.SessionRegistry
	streams       queue.SlotLimiter

	done      chan struct{}
	closeOnce sync.Once
}

func NewHandler(
	tasks *services.TaskService,
	applications *services.ApplicationService,
	notifications *services.NotificationService,
	intake *services.IntakeService,
	sessions *services.SessionRegistry,
	streams queue.SlotLimiter,
) *Handler {
	return &Handler{
		tasks:         tasks,
		applications:  applications,
		notifications: notifications,
		intake:        intake,
		sessions:      sessions,
		streams:       streams,
		done:          make(chan struct{}),
	}
}

// CloseStreams ends every open notification stream and refuses new ones.
// Server shutdown waits for open connections, so it runs first.
func (h *Handler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func actor(c echo.Context) (workflow.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return workflow.Actor{}, fail(c, apperrors.ErrUnauthenticated)
	}
	return a, nil
}

// fail turns a service error into the HTTP error echo renders. The prior
// state is never echoed back on failure.
func fail(c echo.Context, err error) error {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Printf("http: %s %s: %v", c.Request().Method, c.Path(), err)
	}
	return echo.NewHTTPError(status, apperrors.Message(err))
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	return nil
}
