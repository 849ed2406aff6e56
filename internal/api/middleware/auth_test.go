package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/infrastructure/paseto"
)

var testKey = []byte("RANDOM WORDS WINTER MACINTOSH PC")

func newCodec(t *testing.T) *paseto.Codec {
	t.Helper()
	c, err := paseto.NewCodec(testKey)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return c
}

// run invokes the guard for a request carrying header and returns the error
// and the account id seen by the next handler, if it ran.
func run(t *testing.T, codec *paseto.Codec, now func() time.Time, header string) (*domain.AccountID, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/questions", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *domain.AccountID
	err := Auth(codec, now)(func(c echo.Context) error {
		id, ok := c.Get(AccountIDKey).(domain.AccountID)
		if !ok {
			t.Fatalf("account id not set")
		}
		seen = &id
		return nil
	})(c)
	return seen, err
}

func TestAuth_ValidToken(t *testing.T) {
	codec := newCodec(t)
	token, err := codec.Issue(42, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, header := range []string{token, "Bearer " + token, "bearer " + token} {
		seen, err := run(t, codec, nil, header)
		if err != nil {
			t.Fatalf("header %q: unexpected error %v", header, err)
		}
		if seen == nil || *seen != 42 {
			t.Fatalf("header %q: expected account 42, got %v", header, seen)
		}
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	for _, header := range []string{"", "   ", "Bearer "} {
		seen, err := run(t, newCodec(t), nil, header)
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("header %q: expected ErrUnauthorized, got %v", header, err)
		}
		if seen != nil {
			t.Fatalf("next must not run")
		}
	}
}

func TestAuth_TamperedToken(t *testing.T) {
	codec := newCodec(t)
	token, _ := codec.Issue(42, time.Hour)

	i := len(token) - 5
	flipped := byte('A')
	if token[i] == 'A' {
		flipped = 'B'
	}
	seen, err := run(t, codec, nil, token[:i]+string(flipped)+token[i+1:])
	if !errors.Is(err, domain.ErrCannotDecryptToken) {
		t.Fatalf("expected ErrCannotDecryptToken, got %v", err)
	}
	if seen != nil {
		t.Fatalf("next must not run")
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	codec := newCodec(t)
	token, _ := codec.Issue(42, time.Minute)

	later := func() time.Time { return time.Now().Add(2 * time.Minute) }
	seen, err := run(t, codec, later, token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if seen != nil {
		t.Fatalf("next must not run")
	}
}

func TestAuth_NotYetValidToken(t *testing.T) {
	codec := newCodec(t)
	token, _ := codec.Issue(42, time.Hour)

	earlier := func() time.Time { return time.Now().Add(-10 * time.Minute) }
	if _, err := run(t, codec, earlier, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

type sessionVerifier domain.Session

func (s sessionVerifier) Verify(string) (domain.Session, error) { return domain.Session(s), nil }

func TestAuth_SessionWithoutExpiryIsRejected(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "anything")
	c := e.NewContext(req, httptest.NewRecorder())

	err := Auth(sessionVerifier{AccountID: 1}, nil)(func(echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuth_ExpiryHasSubSecondPrecision(t *testing.T) {
	issued := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	session := sessionVerifier{AccountID: 9, NotBefore: issued, Expires: issued.Add(1500 * time.Millisecond)}

	guard := func(at time.Time) error {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "anything")
		c := e.NewContext(req, httptest.NewRecorder())
		return Auth(session, func() time.Time { return at })(func(echo.Context) error { return nil })(c)
	}

	if err := guard(issued.Add(1200 * time.Millisecond)); err != nil {
		t.Fatalf("session rejected before expiry: %v", err)
	}
	if err := guard(issued.Add(1499 * time.Millisecond)); err != nil {
		t.Fatalf("session rejected just before expiry: %v", err)
	}
	if err := guard(issued.Add(1500 * time.Millisecond)); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized at expiry, got %v", err)
	}
	if err := guard(issued.Add(-time.Millisecond)); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized before not-before, got %v", err)
	}
}
