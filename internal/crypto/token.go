package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	alphanumericChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// TokenLength is the length of bearer tokens and password salts.
	TokenLength = 64
)

var ErrInvalidLength = errors.New("random string length must be positive")

// RandomString returns n characters drawn uniformly from charset using crypto/rand.
func RandomString(n int, charset string) (string, error) {
	if n <= 0 || charset == "" {
		return "", ErrInvalidLength
	}

	result := make([]byte, n)
	for i := range result {
		ch, err := randChar(charset)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	return string(result), nil
}

// NewCredentialMaterial generates a bearer token and a password salt for a new account.
// The two values are drawn independently.
func NewCredentialMaterial() (token, salt string, err error) {
	token, err = RandomString(TokenLength, alphanumericChars)
	if err != nil {
		return "", "", err
	}
	salt, err = RandomString(TokenLength, alphanumericChars)
	if err != nil {
		return "", "", err
	}
	return token, salt, nil
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
