package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/oashtari/question-and-answer/internal/api/middleware"
	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// AccountIDFrom returns the caller identity stored by the Auth middleware.
// A route mounted without the middleware fails closed with KindUnauthorized.
func AccountIDFrom(c echo.Context) (domain.AccountID, error) {
	id, ok := c.Get(middleware.AccountIDKey).(domain.AccountID)
	if !ok {
		return 0, domain.Invalid(domain.KindUnauthorized, "handler.AccountIDFrom", "no session on request")
	}
	return id, nil
}
