package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "task-market.com/task-market/internal/data_models"
	"task-market.com/task-market/internal/http/validators"
)

const defaultNotificationLimit = 20

func (h *Handler) ListNotifications(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	limit := defaultNotificationLimit
	if l := c.QueryParam("limit"); l != "" {
		if limit, err = strconv.Atoi(l); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a number")
		}
	}
	unreadOnly := c.QueryParam("unread") == "true"

	list, err := h.notifications.List(c.Request().Context(), a.AccountID, unreadOnly, limit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":         len(list),
		"notifications": list,
	})
}

func (h *Handler) UnreadCount(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	count, err := h.notifications.UnreadCount(c.Request().Context(), a.AccountID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"unread": count})
}

func (h *Handler) MarkNotificationRead(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.notifications.MarkRead(c.Request().Context(), a.AccountID, c.Param("id")); err != nil {
		return fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MarkAllNotificationsRead(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	n, err := h.notifications.MarkAllRead(c.Request().Context(), a.AccountID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

func (h *Handler) DeleteNotification(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.notifications.Delete(c.Request().Context(), a.AccountID, c.Param("id")); err != nil {
		return fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteAllNotifications(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	n, err := h.notifications.DeleteAll(c.Request().Context(), a.AccountID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}

func (h *Handler) MessageSent(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	var req dto.MessageSentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateMessageSentRequest(&req); err != nil {
		return err
	}

	err = h.intake.MessageSent(c.Request().Context(), a, c.Param("id"), req.RecipientProfileID, req.Body)
	if err != nil {
		return fail(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}
