package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/core/service"
	"github.com/oashtari/question-and-answer/internal/infrastructure/db/memory"
	"github.com/oashtari/question-and-answer/internal/infrastructure/moderation"
	"github.com/oashtari/question-and-answer/internal/infrastructure/paseto"
	"github.com/oashtari/question-and-answer/internal/infrastructure/password"
)

// echoProvider answers like the bad-words API with the input unchanged.
func echoProvider(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"censored_content": string(body)})
	}))
	t.Cleanup(srv.Close)
	return srv
}

type app struct {
	e     *echo.Echo
	store *memory.Store
}

func newApp(t *testing.T) *app {
	t.Helper()
	codec, err := paseto.NewCodec([]byte("RANDOM WORDS WINTER MACINTOSH PC"))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	store := memory.New()
	hasher := password.NewHasher(password.Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32})
	moderator := moderation.NewClient(echoProvider(t).URL, "key", time.Second, zerolog.Nop())

	e := NewRouter(Deps{
		Auth:      service.NewAuthService(store.Accounts(), hasher, codec, time.Hour, zerolog.Nop()),
		Questions: service.NewQuestionService(store.Questions(), moderator, zerolog.Nop()),
		Answers:   service.NewAnswerService(store.Answers(), moderator, zerolog.Nop()),
		Tokens:    codec,
		Log:       zerolog.Nop(),
	})
	return &app{e: e, store: store}
}

func (a *app) do(t *testing.T, method, target, body, token string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec, strings.TrimSpace(rec.Body.String())
}

func (a *app) login(t *testing.T, email string) string {
	t.Helper()
	creds := `{"email":"` + email + `","password":"secret"}`
	if rec, body := a.do(t, http.MethodPost, "/registration", creds, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, rec.Code, body)
	}
	rec, body := a.do(t, http.MethodPost, "/login", creds, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, body)
	}
	var token string
	if err := json.Unmarshal([]byte(body), &token); err != nil {
		t.Fatalf("login body %q: %v", body, err)
	}
	return token
}

func flip(token string) string {
	i := len("v2.local.") + 5
	c := byte('A')
	if token[i] == 'A' {
		c = 'B'
	}
	return token[:i] + string(c) + token[i+1:]
}

func errorMessage(t *testing.T, body string) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("error body %q: %v", body, err)
	}
	return resp.Error
}

func TestEndToEnd_CreateQuestionWithSession(t *testing.T) {
	a := newApp(t)
	token := a.login(t, "alice@example.com")

	rec, body := a.do(t, http.MethodPost, "/questions", `{"title":"Hi","content":"World"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, body)
	}
	var q domain.Question
	if err := json.Unmarshal([]byte(body), &q); err != nil {
		t.Fatalf("question body: %v", err)
	}
	if q.Title != "Hi" || q.Content != "World" {
		t.Fatalf("unexpected question %+v", q)
	}

	for _, bad := range []string{flip(token), token + "."} {
		rec, body = a.do(t, http.MethodPost, "/questions", `{"title":"Hi","content":"World"}`, bad)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: %d %s", bad, rec.Code, body)
		}
	}

	_, body = a.do(t, http.MethodGet, "/questions", "", "")
	var list []domain.Question
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatalf("list body: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("tampered request created a resource: %+v", list)
	}
}

func TestEndToEnd_BearerPrefixAccepted(t *testing.T) {
	a := newApp(t)
	token := a.login(t, "alice@example.com")

	rec, body := a.do(t, http.MethodPost, "/questions", `{"title":"Hi","content":"World"}`, "Bearer "+token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, body)
	}
}

func TestEndToEnd_OnlyOwnerMutates(t *testing.T) {
	a := newApp(t)
	alice := a.login(t, "alice@example.com")
	bob := a.login(t, "bob@example.com")

	_, body := a.do(t, http.MethodPost, "/questions", `{"title":"Hi","content":"World"}`, alice)
	var q domain.Question
	_ = json.Unmarshal([]byte(body), &q)
	target := "/questions/" + itoa(int64(q.ID))

	rec, body := a.do(t, http.MethodPut, target, `{"title":"Owned","content":"by bob"}`, bob)
	if rec.Code != http.StatusUnauthorized || errorMessage(t, body) != unauthorizedMessage {
		t.Fatalf("foreign update: %d %s", rec.Code, body)
	}
	rec, _ = a.do(t, http.MethodDelete, target, "", bob)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("foreign delete: %d", rec.Code)
	}

	_, body = a.do(t, http.MethodGet, "/questions", "", "")
	if !strings.Contains(body, `"title":"Hi"`) {
		t.Fatalf("question was mutated: %s", body)
	}

	rec, body = a.do(t, http.MethodPut, target, `{"title":"Hello","content":"World"}`, alice)
	if rec.Code != http.StatusOK || !strings.Contains(body, `"title":"Hello"`) {
		t.Fatalf("owner update: %d %s", rec.Code, body)
	}
	rec, body = a.do(t, http.MethodDelete, target, "", alice)
	if rec.Code != http.StatusOK || body != `"Question `+itoa(int64(q.ID))+` deleted"` {
		t.Fatalf("owner delete: %d %s", rec.Code, body)
	}

	rec, _ = a.do(t, http.MethodDelete, target, "", alice)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("delete of missing question: %d", rec.Code)
	}
}

func TestEndToEnd_DuplicateRegistration(t *testing.T) {
	a := newApp(t)
	creds := `{"email":"alice@example.com","password":"secret"}`
	a.do(t, http.MethodPost, "/registration", creds, "")

	rec, body := a.do(t, http.MethodPost, "/registration", creds, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate: %d %s", rec.Code, body)
	}
	if msg := errorMessage(t, body); msg != "Account already exists" || msg == replies[domain.KindQuery].message {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestEndToEnd_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	a := newApp(t)
	a.login(t, "alice@example.com")

	rec1, body1 := a.do(t, http.MethodPost, "/login", `{"email":"alice@example.com","password":"nope"}`, "")
	rec2, body2 := a.do(t, http.MethodPost, "/login", `{"email":"nobody@example.com","password":"secret"}`, "")
	if rec1.Code != http.StatusUnauthorized || rec2.Code != http.StatusUnauthorized || body1 != body2 {
		t.Fatalf("login failures differ: %d %s / %d %s", rec1.Code, body1, rec2.Code, body2)
	}
}

func TestEndToEnd_AnswerForm(t *testing.T) {
	a := newApp(t)
	token := a.login(t, "alice@example.com")
	_, body := a.do(t, http.MethodPost, "/questions", `{"title":"Hi","content":"World"}`, token)
	var q domain.Question
	_ = json.Unmarshal([]byte(body), &q)

	req := httptest.NewRequest(http.MethodPost, "/answers", strings.NewReader("content=Hello&question_id="+itoa(int64(q.ID))))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderAuthorization, token)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated || strings.TrimSpace(rec.Body.String()) != `"Answer added"` {
		t.Fatalf("answer: %d %s", rec.Code, rec.Body.String())
	}
	if answers := a.store.AnswersFor(q.ID); len(answers) != 1 || answers[0].Content != "Hello" {
		t.Fatalf("unexpected answers %+v", answers)
	}
}

func TestRouter_ErrorsAndOperations(t *testing.T) {
	a := newApp(t)

	cases := []struct {
		method, target, body string
		status               int
	}{
		{http.MethodGet, "/nowhere", "", http.StatusNotFound},
		{http.MethodPost, "/questions", `{"title":"Hi","content":"World"}`, http.StatusUnauthorized},
		{http.MethodGet, "/questions?limit=1", "", http.StatusUnprocessableEntity},
		{http.MethodGet, "/questions?limit=x&offset=0", "", http.StatusUnprocessableEntity},
		{http.MethodGet, "/questions?limit=9223372036854775807&offset=1", "", http.StatusOK},
		{http.MethodPost, "/registration", `{"email":`, http.StatusUnprocessableEntity},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/health/ready", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec, body := a.do(t, tc.method, tc.target, tc.body, "")
			if rec.Code != tc.status {
				t.Fatalf("got %d, want %d: %s", rec.Code, tc.status, body)
			}
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	a := newApp(t)

	preflight := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/questions", nil)
		req.Header.Set(echo.HeaderOrigin, "https://example.com")
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
		req.Header.Set(echo.HeaderAccessControlRequestHeaders, header)
		rec := httptest.NewRecorder()
		a.e.ServeHTTP(rec, req)
		return rec
	}

	if rec := preflight("content-type"); rec.Code != http.StatusNoContent {
		t.Fatalf("allowed preflight: %d %s", rec.Code, rec.Body.String())
	}
	rec := preflight("x-forbidden")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("forbidden preflight: %d %s", rec.Code, rec.Body.String())
	}
}

func itoa(i int64) string {
	b, _ := json.Marshal(i)
	return string(b)
}
