package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/oashtari/question-and-answer/docs"
	"github.com/oashtari/question-and-answer/internal/api/handler"
	"github.com/oashtari/question-and-answer/internal/api/middleware"
	"github.com/oashtari/question-and-answer/internal/core/ports"
	infrahttp "github.com/oashtari/question-and-answer/internal/infrastructure/http"
	"github.com/oashtari/question-and-answer/internal/infrastructure/http/handlers"
)

const bodyLimit = "1M"

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Auth      ports.AuthService
	Questions ports.QuestionService
	Answers   ports.AnswerService
	Tokens    ports.TokenVerifier

	Log              zerolog.Logger
	CORSAllowOrigins []string
	// Checks are pinged by /health/ready.
	Checks []handlers.Check
	// Now overrides the session clock; nil uses time.Now.
	Now func() time.Time
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// HTTP metrics live in a per-router registry so several routers (tests)
	// can coexist; /metrics serves it together with the default registry.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "qa",
		Registerer: reg,
	}))
	e.Use(middleware.CORS(d.CORSAllowOrigins))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	guard := middleware.Auth(d.Tokens, d.Now)

	authHandler := handler.NewAuthHandler(d.Auth)
	questionHandler := handler.NewQuestionHandler(d.Questions)
	answerHandler := handler.NewAnswerHandler(d.Answers)

	// --- Account routes ---
	e.POST("/registration", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Questions ---
	e.GET("/questions", questionHandler.List)
	e.POST("/questions", questionHandler.Create, guard)
	e.PUT("/questions/:id", questionHandler.Update, guard)
	e.DELETE("/questions/:id", questionHandler.Delete, guard)

	// --- Answers ---
	e.POST("/answers", answerHandler.Create, guard)

	// --- Operations (no auth required) ---
	infrahttp.RegisterProbes(e, 0, d.Checks...)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		prometheus.Gatherers{prometheus.DefaultGatherer, reg},
		promhttp.HandlerOpts{},
	)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one access log line per request through zerolog.
// Errors are rendered first so the logged status is the one sent.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
