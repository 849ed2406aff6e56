package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/infrastructure/metrics"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

type reply struct {
	status  int
	message string
	level   zerolog.Level
	// detail appends the error's Detail to the message.
	detail bool
}

const unauthorizedMessage = "No permission to change underlying resource"

// replies holds exactly one entry per domain.Kind.
var replies = map[domain.Kind]reply{
	domain.KindInvalidParam:        {http.StatusUnprocessableEntity, "Cannot parse parameter", zerolog.WarnLevel, true},
	domain.KindMissingParams:       {http.StatusUnprocessableEntity, "Missing parameter", zerolog.WarnLevel, false},
	domain.KindWrongPassword:       {http.StatusUnauthorized, "Wrong email/password combination", zerolog.WarnLevel, false},
	domain.KindHashing:             {http.StatusUnprocessableEntity, "Cannot verify password", zerolog.ErrorLevel, false},
	domain.KindConflict:            {http.StatusUnprocessableEntity, "Account already exists", zerolog.WarnLevel, false},
	domain.KindQuery:               {http.StatusUnprocessableEntity, "Cannot update data", zerolog.ErrorLevel, false},
	domain.KindUnauthorized:        {http.StatusUnauthorized, unauthorizedMessage, zerolog.WarnLevel, false},
	domain.KindCannotDecryptToken:  {http.StatusUnauthorized, unauthorizedMessage, zerolog.WarnLevel, false},
	domain.KindModerationTransport: {http.StatusInternalServerError, "Internal server error", zerolog.ErrorLevel, false},
	domain.KindModerationClient:    {http.StatusInternalServerError, "Internal server error", zerolog.ErrorLevel, false},
	domain.KindModerationServer:    {http.StatusInternalServerError, "Internal server error", zerolog.ErrorLevel, false},
	domain.KindCORSForbidden:       {http.StatusForbidden, "CORS request forbidden", zerolog.WarnLevel, false},
	domain.KindInvalidBody:         {http.StatusUnprocessableEntity, "Cannot deserialize request body", zerolog.WarnLevel, true},
	domain.KindRouteNotFound:       {http.StatusNotFound, "Route not found", zerolog.WarnLevel, false},
}

var internalError = reply{http.StatusInternalServerError, "Internal server error", zerolog.ErrorLevel, false}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders every
// failure once as {"error": "<message>"}. Domain errors are looked up by
// Kind; echo's own errors are folded into the taxonomy first. Anything else
// is a 500 whose cause is only logged.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		derr := normalise(err)
		r, msg := resolve(derr)

		event := log.WithLevel(r.level).
			Err(err).
			Int("status", r.status).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		if derr != nil {
			event = event.Stringer("kind", derr.Kind)
			if derr.Provider != nil {
				event = event.Int("provider_status", derr.Provider.Status).
					Str("provider_message", derr.Provider.Message)
			}
			metrics.ErrorsTotal.WithLabelValues(derr.Kind.String()).Inc()
		} else {
			metrics.ErrorsTotal.WithLabelValues("internal").Inc()
		}
		event.Msg("request failed")

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(r.status)
			return
		}
		_ = c.JSON(r.status, errorResponse{Error: msg})
	}
}

// normalise returns the *domain.Error carried by err, translating echo's
// router and binder errors. It returns nil for anything unclassified.
func normalise(err error) *domain.Error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return nil
	}
	switch he.Code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return domain.E(domain.KindRouteNotFound, "router", err)
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return domain.E(domain.KindInvalidBody, "binder", err)
	case http.StatusUnauthorized:
		return domain.E(domain.KindUnauthorized, "middleware", err)
	case http.StatusForbidden:
		return domain.E(domain.KindCORSForbidden, "middleware", err)
	}
	return nil
}

func resolve(derr *domain.Error) (reply, string) {
	if derr == nil {
		return internalError, internalError.message
	}
	r, ok := replies[derr.Kind]
	if !ok {
		return internalError, internalError.message
	}
	if r.detail && derr.Detail != "" {
		return r, r.message + ": " + derr.Detail
	}
	return r, r.message
}
