package middleware

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/core/ports"
)

// AccountIDKey is the echo context key holding the caller's domain.AccountID.
const AccountIDKey = "account_id"

// sessionClaims lets the jwt validator check the time bounds of a session.
// Dates keep their full precision; jwt.NewNumericDate would truncate them to
// jwt.TimePrecision and end a session up to a second early.
type sessionClaims struct {
	domain.Session
}

func (s sessionClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	if s.Expires.IsZero() {
		return nil, nil
	}
	return &jwt.NumericDate{Time: s.Expires}, nil
}

func (s sessionClaims) GetNotBefore() (*jwt.NumericDate, error) {
	if s.NotBefore.IsZero() {
		return nil, nil
	}
	return &jwt.NumericDate{Time: s.NotBefore}, nil
}

func (s sessionClaims) GetIssuedAt() (*jwt.NumericDate, error) { return nil, nil }
func (s sessionClaims) GetIssuer() (string, error)             { return "", nil }
func (s sessionClaims) GetSubject() (string, error)            { return "", nil }
func (s sessionClaims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// Auth verifies the session token in the Authorization header and stores the
// caller's account id under AccountIDKey. The header carries the raw token; a
// "Bearer " prefix is accepted. Decode failures are KindCannotDecryptToken,
// everything else is KindUnauthorized. A nil now selects time.Now.
func Auth(tokens ports.TokenVerifier, now func() time.Time) echo.MiddlewareFunc {
	if now == nil {
		now = time.Now
	}
	validator := jwt.NewValidator(jwt.WithExpirationRequired(), jwt.WithTimeFunc(now))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return domain.Invalid(domain.KindUnauthorized, "auth.Guard", "missing authorization header")
			}

			session, err := tokens.Verify(token)
			if err != nil {
				return err
			}

			if err := validator.Validate(sessionClaims{session}); err != nil {
				return domain.E(domain.KindUnauthorized, "auth.Guard", err)
			}

			c.Set(AccountIDKey, session.AccountID)
			return next(c)
		}
	}
}

func bearer(header string) string {
	header = strings.TrimSpace(header)
	scheme, rest, found := strings.Cut(header, " ")
	if strings.EqualFold(scheme, "bearer") {
		if !found {
			return ""
		}
		return strings.TrimSpace(rest)
	}
	return header
}
