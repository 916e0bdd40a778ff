// Package token generates the random codes used across the system:
// redemption tokens, payment references and one-time codes.
package token

import (
	"crypto/rand"
)

const (
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digits       = "0123456789"
)

// Alphanumeric returns n random uppercase-alphanumeric characters.
func Alphanumeric(n int) (string, error) {
	return fromAlphabet(alphanumeric, n)
}

// Digits returns n random decimal digits.
func Digits(n int) (string, error) {
	return fromAlphabet(digits, n)
}

func fromAlphabet(alphabet string, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf), nil
}
