package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "task-market.com/task-market/internal/errors"
	"task-market.com/task-market/internal/queue"
	"task-market.com/task-market/internal/realtime"
)

const (
	streamBuffer    = 32
	streamKeepAlive = 25 * time.Second
)

// StreamNotifications holds a server-sent events stream open for the
// caller's account. The session for the account starts with the first
// stream and ends when the last one disconnects.
func (h *Handler) StreamNotifications(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	select {
	case <-h.done:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server is shutting down")
	default:
	}

	if h.streams != nil {
		if err := h.streams.Acquire(c.Request().Context()); err != nil {
			if errors.Is(err, queue.ErrNoSlotAvailable) {
				return fail(c, apperrors.ErrTooManyStreams)
			}
			return fail(c, apperrors.StorageError(err))
		}
		defer func() {
			if err := h.streams.Release(context.WithoutCancel(c.Request().Context())); err != nil {
				log.Printf("stream: release slot: %v", err)
			}
		}()
	}

	events := make(chan realtime.Event, streamBuffer)
	subID, err := h.sessions.Attach(c.Request().Context(), a.AccountID, func(ev realtime.Event) {
		select {
		case events <- ev:
		default:
			log.Printf("stream: account %s is slow, dropping %s", a.AccountID, ev.Kind)
		}
	})
	if err != nil {
		return fail(c, apperrors.ErrUnauthenticated)
	}
	defer h.sessions.Release(a.AccountID, subID)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.done:
			return nil
		case <-keepAlive.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case ev := <-events:
			b, err := json.Marshal(ev)
			if err != nil {
				log.Printf("stream: encode %s: %v", ev.Kind, err)
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev.Kind, b); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
