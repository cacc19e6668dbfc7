package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
	repository "task-market.com/task-market/internal/repositories"
	"task-market.com/task-market/internal/services"
	"task-market.com/task-market/internal/workflow"
)

const actorContextKey = "actor"

type TokenVerifier interface {
	AccountID(token string) (string, error)
}

type ProfileFinder interface {
	FindByAccountID(ctx context.Context, accountID string) (*model.Profile, error)
}

// Session authenticates the bearer token and stores the acting profile on
// the echo context. EventSource clients cannot set headers, so the token
// may also arrive as the access_token query parameter.
func Session(tokens TokenVerifier, profiles ProfileFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required. Use: Bearer <token>")
			}

			accountID, err := tokens.AccountID(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			ctx := c.Request().Context()
			profile, err := profiles.FindByAccountID(ctx, accountID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "no profile is linked to this account")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrStorage.Message)
			}

			c.Set(actorContextKey, workflow.ActorFromProfile(profile))
			c.SetRequest(c.Request().WithContext(services.WithOrigin(ctx, accountID)))
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (workflow.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(workflow.Actor)
	return actor, ok
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if header == "" {
		return c.QueryParam("access_token")
	}
	return ""
}
