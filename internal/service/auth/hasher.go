package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
)

const argon2Algorithm = "argon2id"

// Argon2id cost parameters
type Argon2Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Time:        3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2id password hasher
// Hashes are stored in PHC format so verification does not depend on current params
type Argon2Hasher struct {
	params Argon2Params
}

func NewArgon2Hasher(params Argon2Params) Argon2Hasher {
	return Argon2Hasher{params: params}
}

func (h Argon2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", apperrors.ErrInvalidPassword
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("error while generating salt. Err: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Algorithm,
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Compare password with the stored hash in constant time
// Malformed or foreign hashes never match
func (h Argon2Hasher) Verify(password string, hash string) bool {
	parsed, ok := parsePHC(hash)
	if !ok {
		return false
	}

	key := argon2.IDKey([]byte(password), parsed.salt, parsed.time, parsed.memory, parsed.parallelism, uint32(len(parsed.key)))

	return subtle.ConstantTimeCompare(key, parsed.key) == 1
}

type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
func parsePHC(hash string) (phc, bool) {
	var p phc

	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2Algorithm {
		return p, false
	}

	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return p, false
	}

	var seen int
	for _, pair := range strings.Split(parts[3], ",") {
		k, v, found := strings.Cut(pair, "=")
		if !found {
			return p, false
		}

		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n == 0 {
				return p, false
			}
			p.memory = uint32(n)
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n == 0 {
				return p, false
			}
			p.time = uint32(n)
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || n == 0 {
				return p, false
			}
			p.parallelism = uint8(n)
		default:
			return p, false
		}
		seen++
	}
	if seen != 3 {
		return p, false
	}

	var err error
	if p.salt, err = decodePHCField(parts[4]); err != nil || len(p.salt) == 0 {
		return p, false
	}
	if p.key, err = decodePHCField(parts[5]); err != nil || len(p.key) == 0 {
		return p, false
	}

	return p, true
}

// PHC strings omit padding, but padded values are accepted too
func decodePHCField(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
