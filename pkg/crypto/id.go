package crypto

import (
	"crypto/rand"
	"errors"
)

// idAlphabet is URL safe and exactly 64 symbols, so a 6-bit mask never
// rejects a byte.
const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

const DefaultIDLength = 22 // 132 bits of entropy

var ErrInvalidIDLength = errors.New("id length must be positive")

// NewID returns a random URL-safe identifier of n characters
func NewID(n int) (string, error) {
	if n <= 0 {
		return "", ErrInvalidIDLength
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = idAlphabet[b&63]
	}
	return string(buf), nil
}

// MustID is NewID(DefaultIDLength) for callers that cannot handle an error,
// such as middleware generators. crypto/rand does not fail on supported
// platforms.
func MustID() string {
	id, err := NewID(DefaultIDLength)
	if err != nil {
		panic(err)
	}
	return id
}
