package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oashtari/question-and-answer/internal/infrastructure/http/handlers"
)

// RegisterProbes mounts the liveness and readiness probes on e. They sit
// outside the session guard.
func RegisterProbes(e *echo.Echo, timeout time.Duration, checks ...handlers.Check) {
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(timeout, checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
}
