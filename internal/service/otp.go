package service

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const otpDigits = 4

// CodeVerifier compares a supplied verification code against the expected
// one. Isolated behind an interface so the comparison strategy can be
// swapped (e.g. hashed codes) without touching the state machine.
type CodeVerifier interface {
	Verify(expected, supplied string) bool
}

// ConstantTimeVerifier compares codes in constant time.
type ConstantTimeVerifier struct{}

// Verify reports whether supplied matches expected.
func (ConstantTimeVerifier) Verify(expected, supplied string) bool {
	if len(expected) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}

// Ensure the default verifier implements the interface.
var _ CodeVerifier = ConstantTimeVerifier{}

// generateCode returns a random numeric code of otpDigits digits.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// GenerateCodePair returns a start and end verification code for a ride.
// The two codes are guaranteed distinct within the pair; uniqueness across
// rides is not required.
func GenerateCodePair() (startCode, endCode string, err error) {
	startCode, err = generateCode()
	if err != nil {
		return "", "", err
	}

	for {
		endCode, err = generateCode()
		if err != nil {
			return "", "", err
		}
		if endCode != startCode {
			return startCode, endCode, nil
		}
	}
}
