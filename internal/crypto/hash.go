package crypto

import (
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"
)

// HashParams configures the Argon2id digest parameters.
type HashParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
}

// DefaultHashParams returns recommended Argon2id parameters for password hashing.
func DefaultHashParams() HashParams {
	return HashParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		KeyLength:   32,
	}
}

// HashPassword derives the stored digest for password under the account's salt.
// The result is deterministic for a given (password, salt) pair so it can be recomputed on login.
func HashPassword(password, salt string) string {
	return hashWithParams(password, salt, DefaultHashParams())
}

// VerifyPassword reports whether password under salt produces the expected digest.
// Uses constant-time comparison to prevent timing attacks.
func VerifyPassword(password, salt, expected string) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(expected)) == 1
}

func hashWithParams(password, salt string, params HashParams) string {
	key := argon2.IDKey([]byte(password), []byte(salt), params.Iterations, params.Memory, params.Parallelism, params.KeyLength)
	return base64.StdEncoding.EncodeToString(key)
}
