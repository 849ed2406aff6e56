package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies every failure the service can report. The set is closed:
// the HTTP responder holds exactly one mapping per Kind.
type Kind uint8

const (
	kindUnknown Kind = iota

	KindInvalidParam
	KindMissingParams
	KindWrongPassword
	KindHashing
	KindConflict
	KindQuery
	KindUnauthorized
	KindCannotDecryptToken
	KindModerationTransport
	KindModerationClient
	KindModerationServer
	KindCORSForbidden
	KindInvalidBody
	KindRouteNotFound

	kindSentinel
)

var kindNames = [...]string{
	kindUnknown:             "unknown",
	KindInvalidParam:        "invalid_param",
	KindMissingParams:       "missing_params",
	KindWrongPassword:       "wrong_password",
	KindHashing:             "hashing",
	KindConflict:            "conflict",
	KindQuery:               "query",
	KindUnauthorized:        "unauthorized",
	KindCannotDecryptToken:  "cannot_decrypt_token",
	KindModerationTransport: "moderation_transport",
	KindModerationClient:    "moderation_client",
	KindModerationServer:    "moderation_server",
	KindCORSForbidden:       "cors_forbidden",
	KindInvalidBody:         "invalid_body",
	KindRouteNotFound:       "route_not_found",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Kinds lists every valid failure kind.
func Kinds() []Kind {
	out := make([]Kind, 0, int(kindSentinel)-1)
	for k := kindUnknown + 1; k < kindSentinel; k++ {
		out = append(out, k)
	}
	return out
}

// ProviderError carries what an upstream dependency answered. It is logged
// for operators and never rendered to clients.
type ProviderError struct {
	Status  int
	Message string
}

func (p ProviderError) String() string {
	return fmt.Sprintf("status: %d, message: %s", p.Status, p.Message)
}

// Error is the single failure type produced by every component.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "postgres.CreateAccount".
	Op string
	// Detail is caller-facing context for caller-side kinds (bad parameter,
	// bad body). It must never contain internal state.
	Detail   string
	Provider *ProviderError
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Provider != nil {
		b.WriteString(" (")
		b.WriteString(e.Provider.String())
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of Op or wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// E builds an *Error of the given kind.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Invalid builds a caller-side failure carrying a client-safe detail.
func Invalid(kind Kind, op, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// Upstream builds a moderation failure that records the provider's answer.
func Upstream(kind Kind, op string, status int, message string) *Error {
	return &Error{Kind: kind, Op: op, Provider: &ProviderError{Status: status, Message: message}}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return kindUnknown, false
}

var (
	ErrInvalidParam        = &Error{Kind: KindInvalidParam}
	ErrMissingParams       = &Error{Kind: KindMissingParams}
	ErrWrongPassword       = &Error{Kind: KindWrongPassword}
	ErrHashing             = &Error{Kind: KindHashing}
	ErrConflict            = &Error{Kind: KindConflict}
	ErrQuery               = &Error{Kind: KindQuery}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized}
	ErrCannotDecryptToken  = &Error{Kind: KindCannotDecryptToken}
	ErrModerationTransport = &Error{Kind: KindModerationTransport}
	ErrModerationClient    = &Error{Kind: KindModerationClient}
	ErrModerationServer    = &Error{Kind: KindModerationServer}
	ErrCORSForbidden       = &Error{Kind: KindCORSForbidden}
	ErrInvalidBody         = &Error{Kind: KindInvalidBody}
	ErrRouteNotFound       = &Error{Kind: KindRouteNotFound}
)

// ErrNotFound is wrapped inside a KindQuery error by repositories when a row
// does not exist. Services that need the distinction test for it with errors.Is.
var ErrNotFound = errors.New("not found")
