package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	// MinPasswordLen mirrors the service's registration rule; checked before
	// the register call is made.
	MinPasswordLen = 6

	suggestedLen = MinPasswordLen + 4

	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	digits       = "0123456789"
	symbols      = "!@#$%&*"
)

// SuggestPassword returns a generated password offered during registration.
// It samples uniformly from the full charset and resamples until every
// character class is present, so the suggestion always clears the service's
// minimum rule with room to spare. Uses crypto/rand. Do not log the result.
func SuggestPassword() (string, error) {
	const alphabet = upperLetters + lowerLetters + digits + symbols

	buf := make([]byte, suggestedLen)
	for attempt := 0; attempt < 100; attempt++ {
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
			if err != nil {
				return "", fmt.Errorf("random index: %w", err)
			}
			buf[i] = alphabet[n.Int64()]
		}
		pw := string(buf)
		if strings.ContainsAny(pw, upperLetters) &&
			strings.ContainsAny(pw, lowerLetters) &&
			strings.ContainsAny(pw, digits) &&
			strings.ContainsAny(pw, symbols) {
			return pw, nil
		}
	}
	return "", errors.New("could not generate a password")
}

// ValidatePassword applies the service's minimum length locally so a too-short
// password never produces a doomed register call.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	return nil
}
