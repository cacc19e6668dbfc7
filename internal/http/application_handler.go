package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-market.com/task-market/internal/data_models"
	"task-market.com/task-market/internal/http/validators"
	model "task-market.com/task-market/internal/models"
	"task-market.com/task-market/internal/services"
	"task-market.com/task-market/internal/workflow"
)

func (h *Handler) Apply(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	var req dto.ApplyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateApplyRequest(&req); err != nil {
		return err
	}

	app, err := h.applications.Apply(c.Request().Context(), c.Param("id"), a, services.ApplyInput{
		ProposedPrice: req.ProposedPrice,
		Message:       req.Message,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, app)
}

func (h *Handler) ListTaskApplications(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	apps, err := h.applications.ListForTask(c.Request().Context(), c.Param("id"), a)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":        len(apps),
		"applications": apps,
	})
}

func (h *Handler) ListMyApplications(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	apps, err := h.applications.ListForTasker(c.Request().Context(), a)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":        len(apps),
		"applications": apps,
	})
}

func (h *Handler) AcceptApplication(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	result, err := h.applications.Accept(c.Request().Context(), c.Param("id"), a)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"task":        result.Task,
		"application": result.Application,
		"rejected":    len(result.Rejected),
	})
}

func (h *Handler) RejectApplication(c echo.Context) error {
	return h.closeApplication(c, h.applications.Reject)
}

func (h *Handler) WithdrawApplication(c echo.Context) error {
	return h.closeApplication(c, h.applications.Withdraw)
}

type closeFunc func(ctx context.Context, applicationID string, actor workflow.Actor) (*model.TaskApplication, error)

func (h *Handler) closeApplication(c echo.Context, closeApp closeFunc) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	app, err := closeApp(c.Request().Context(), c.Param("id"), a)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, app)
}
