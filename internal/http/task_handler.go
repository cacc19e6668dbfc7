package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"task-market.com/task-market/internal/constants"
	dto "task-market.com/task-market/internal/data_models"
	"task-market.com/task-market/internal/http/validators"
	repository "task-market.com/task-market/internal/repositories"
	"task-market.com/task-market/internal/services"
)

func (h *Handler) CreateTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	var req dto.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.Request().Context(), a, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		CategoryID:  req.CategoryID,
		IsUrgent:    req.IsUrgent,
		Publish:     req.Publish,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.tasks.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	var filter repository.TaskFilter
	if s := c.QueryParam("status"); s != "" {
		status := constants.TaskStatus(s)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status "+s)
		}
		filter.Status = &status
	}
	switch c.QueryParam("mine") {
	case "":
	case "customer":
		filter.CustomerID = a.ProfileID
	case "tasker":
		filter.TaskerID = a.ProfileID
	default:
		return echo.NewHTTPError(http.StatusBadRequest, `mine must be "customer" or "tasker"`)
	}
	if l := c.QueryParam("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 || n > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 100")
		}
		filter.Limit = n
	}

	tasks, err := h.tasks.ListTasks(c.Request().Context(), filter)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) DeleteTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.tasks.DeleteTask(c.Request().Context(), c.Param("id"), a); err != nil {
		return fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) TransitionTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	var req dto.TransitionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	target, err := validators.ValidateTransitionRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.tasks.RequestTransition(c.Request().Context(), c.Param("id"), target, a, services.TransitionOptions{
		Reason: req.Reason,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) PaymentEvent(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	var req dto.PaymentEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidatePaymentEventRequest(&req); err != nil {
		return err
	}

	err = h.intake.Payment(c.Request().Context(), a, c.Param("id"), services.PaymentEventKind(req.Kind), req.Amount)
	if err != nil {
		return fail(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}
