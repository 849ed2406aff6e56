// Package paseto issues and verifies PASETO v2.local session tokens.
//
// Sealing and opening are delegated to github.com/o1egl/paseto. The codec
// adds a canonical-form check in front of it so that one session has exactly
// one valid token string.
//
// Verify only proves the token was minted with this key. Expiry is checked by
// the caller.
package paseto

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	pasetolib "github.com/o1egl/paseto"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

const header = "v2.local."

// b64 rejects non-zero trailing bits so that every distinct token string
// decodes to distinct bytes.
var b64 = base64.RawURLEncoding.Strict()

// KeySize is the required length of the symmetric key.
const KeySize = chacha20poly1305.KeySize

var (
	errKeySize     = fmt.Errorf("paseto: key must be %d bytes", KeySize)
	errHeader      = errors.New("unexpected header")
	errEmptyFooter = errors.New("empty footer")
)

type claims struct {
	AccountID domain.AccountID `json:"account_id"`
	Exp       time.Time        `json:"exp"`
	Nbf       time.Time        `json:"nbf"`
}

// Codec implements ports.TokenIssuer and ports.TokenVerifier. It is safe for
// concurrent use; the key is fixed at construction.
type Codec struct {
	key []byte
	v2  *pasetolib.V2
	now func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock replaces time.Now for issuance.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec copies key, which must be exactly KeySize bytes.
func NewCodec(key []byte, opts ...Option) (*Codec, error) {
	if len(key) != KeySize {
		return nil, errKeySize
	}
	c := &Codec{
		key: append([]byte(nil), key...),
		v2:  pasetolib.NewV2(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue mints a token for id that expires ttl from now.
func (c *Codec) Issue(id domain.AccountID, ttl time.Duration) (string, error) {
	now := c.now().UTC()
	token, err := c.encrypt(claims{AccountID: id, Exp: now.Add(ttl), Nbf: now}, nil)
	if err != nil {
		return "", fmt.Errorf("paseto: issue: %w", err)
	}
	return token, nil
}

// Verify decrypts token. Every failure, whatever its cause, is reported as
// domain.KindCannotDecryptToken.
func (c *Codec) Verify(token string) (domain.Session, error) {
	if err := canonical(token); err != nil {
		return domain.Session{}, domain.E(domain.KindCannotDecryptToken, "paseto.Verify", err)
	}

	var (
		cl     claims
		footer []byte
	)
	if err := c.v2.Decrypt(token, c.key, &cl, &footer); err != nil {
		return domain.Session{}, domain.E(domain.KindCannotDecryptToken, "paseto.Verify", err)
	}

	return domain.Session{AccountID: cl.AccountID, Expires: cl.Exp, NotBefore: cl.Nbf}, nil
}

func (c *Codec) encrypt(payload any, footer []byte) (string, error) {
	return c.v2.Encrypt(c.key, payload, footer)
}

// canonical accepts only the form Issue produces: the v2.local header, a
// strict base64url body and, if a dot follows, a non-empty strict footer.
func canonical(token string) error {
	rest, ok := strings.CutPrefix(token, header)
	if !ok {
		return errHeader
	}

	body, footer, found := strings.Cut(rest, ".")
	if _, err := b64.DecodeString(body); err != nil {
		return err
	}
	if !found {
		return nil
	}
	if footer == "" {
		return errEmptyFooter
	}
	_, err := b64.DecodeString(footer)
	return err
}
