package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	corsHeaders = []string{echo.HeaderContentType, echo.HeaderAuthorization}
)

// CORS answers cross-origin requests for allowOrigins ("*" allows any).
// Preflights asking for an origin, method or header outside the policy are
// rejected with KindCORSForbidden instead of being answered without CORS
// headers.
func CORS(allowOrigins []string) echo.MiddlewareFunc {
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}

	cors := echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: corsMethods,
		AllowHeaders: corsHeaders,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		handle := cors(next)
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method == http.MethodOptions && req.Header.Get(echo.HeaderAccessControlRequestMethod) != "" {
				if detail := preflightViolation(req, allowOrigins); detail != "" {
					return domain.Invalid(domain.KindCORSForbidden, "cors.Preflight", detail)
				}
			}
			return handle(c)
		}
	}
}

func preflightViolation(req *http.Request, allowOrigins []string) string {
	origin := req.Header.Get(echo.HeaderOrigin)
	if !slices.Contains(allowOrigins, "*") && !slices.Contains(allowOrigins, origin) {
		return "origin not allowed"
	}

	if !slices.Contains(corsMethods, strings.ToUpper(req.Header.Get(echo.HeaderAccessControlRequestMethod))) {
		return "method not allowed"
	}

	for _, h := range strings.Split(req.Header.Get(echo.HeaderAccessControlRequestHeaders), ",") {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !slices.ContainsFunc(corsHeaders, func(allowed string) bool { return strings.EqualFold(allowed, h) }) {
			return "header not allowed: " + h
		}
	}
	return ""
}
