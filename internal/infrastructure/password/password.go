// Package password hashes and verifies account credentials.
//
// New digests use argon2id encoded as a PHC string, so every digest carries
// its own salt and cost parameters:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//
// Verify also accepts $argon2i$ digests and bcrypt digests ($2a$, $2b$, $2y$)
// written by earlier deployments.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

const (
	variantID = "argon2id"
	variantI  = "argon2i"
)

// Params are the argon2 cost parameters used for new digests.
type Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams follows the RFC 9106 second recommended option, scaled down
// to 64 MiB so a login stays well under a second on small instances.
var DefaultParams = Params{
	Memory:  64 * 1024,
	Time:    3,
	Threads: 2,
	SaltLen: 16,
	KeyLen:  32,
}

var errMalformed = errors.New("malformed password digest")

// Hasher implements ports.PasswordHasher.
type Hasher struct {
	params Params
}

func NewHasher(p Params) *Hasher {
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		p = DefaultParams
	}
	if p.SaltLen == 0 {
		p.SaltLen = DefaultParams.SaltLen
	}
	if p.KeyLen == 0 {
		p.KeyLen = DefaultParams.KeyLen
	}
	return &Hasher{params: p}
}

// Hash returns an argon2id PHC digest of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", domain.E(domain.KindHashing, "password.Hash", err)
	}

	key := argon2.IDKey([]byte(plain), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)
	return encode(variantID, h.params, salt, key), nil
}

// Verify reports whether plain matches digest. A mismatch is (false, nil);
// an unreadable digest is a domain.KindHashing error.
func (h *Hasher) Verify(plain, digest string) (bool, error) {
	if isBcrypt(digest) {
		err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, domain.E(domain.KindHashing, "password.Verify", err)
		}
	}

	variant, p, salt, want, err := decode(digest)
	if err != nil {
		return false, domain.E(domain.KindHashing, "password.Verify", err)
	}

	var got []byte
	switch variant {
	case variantID:
		got = argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Threads, uint32(len(want)))
	case variantI:
		got = argon2.Key([]byte(plain), salt, p.Time, p.Memory, p.Threads, uint32(len(want)))
	}

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

func encode(variant string, p Params, salt, key []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		variant, argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// decode parses a PHC argon2 digest. The leading "$" yields an empty first field.
func decode(digest string) (variant string, p Params, salt, key []byte, err error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" {
		return "", p, nil, nil, errMalformed
	}

	variant = parts[1]
	if variant != variantID && variant != variantI {
		return "", p, nil, nil, fmt.Errorf("%w: unsupported variant %q", errMalformed, variant)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return "", p, nil, nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if version != argon2.Version {
		return "", p, nil, nil, fmt.Errorf("%w: unsupported version %d", errMalformed, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return "", p, nil, nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return "", p, nil, nil, fmt.Errorf("%w: zero cost parameter", errMalformed)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return "", p, nil, nil, fmt.Errorf("%w: salt: %v", errMalformed, err)
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return "", p, nil, nil, fmt.Errorf("%w: key: %v", errMalformed, err)
	}
	if len(key) == 0 {
		return "", p, nil, nil, fmt.Errorf("%w: empty key", errMalformed)
	}

	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return variant, p, salt, key, nil
}
