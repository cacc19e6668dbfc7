package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "task-market.com/task-market/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, session echo.MiddlewareFunc, rateLimitPerMinute int) {
	e.GET("/healthz", h.Health)

	api := e.Group("", session, middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	api.POST("/tasks", h.CreateTask)
	api.GET("/tasks", h.ListTasks)
	api.GET("/tasks/:id", h.GetTask)
	api.DELETE("/tasks/:id", h.DeleteTask)
	api.POST("/tasks/:id/transitions", h.TransitionTask)
	api.POST("/tasks/:id/payment-events", h.PaymentEvent)

	api.POST("/tasks/:id/applications", h.Apply)
	api.GET("/tasks/:id/applications", h.ListTaskApplications)
	api.GET("/applications", h.ListMyApplications)
	api.POST("/applications/:id/accept", h.AcceptApplication)
	api.POST("/applications/:id/reject", h.RejectApplication)
	api.POST("/applications/:id/withdraw", h.WithdrawApplication)

	api.POST("/chats/:id/messages", h.MessageSent)

	api.GET("/notifications", h.ListNotifications)
	api.GET("/notifications/unread-count", h.UnreadCount)
	api.GET("/notifications/stream", h.StreamNotifications)
	api.POST("/notifications/read-all", h.MarkAllNotificationsRead)
	api.POST("/notifications/:id/read", h.MarkNotificationRead)
	api.DELETE("/notifications/:id", h.DeleteNotification)
	api.DELETE("/notifications", h.DeleteAllNotifications)
}
