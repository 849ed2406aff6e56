package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/core/ports"
	"github.com/oashtari/question-and-answer/internal/infrastructure/metrics"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Account credentials"
// @Success      201   {string}  string              "Account added"
// @Failure      422   {object}  errorResponse
// @Router       /registration [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	_, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	recordAttempt("register", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, "Account added")
}

// Login exchanges credentials for a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Account credentials"
// @Success      200   {string}  string              "Session token"
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	recordAttempt("login", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, token)
}

func recordAttempt(op string, err error) {
	result := "ok"
	if err != nil {
		kind, _ := domain.KindOf(err)
		result = kind.String()
	}
	metrics.AuthAttemptsTotal.WithLabelValues(op, result).Inc()
}
