package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// symbolSet is the fixed set of symbols accepted by the strength rules.
const symbolSet = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

// HashPassword generates a bcrypt hash from a plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// ComparePassword compares a bcrypt hashed password with plain text password
func ComparePassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidatePasswordStrength returns the list of unmet strength rules for a
// candidate password. An empty slice means the password is acceptable.
func ValidatePasswordStrength(password string) []string {
	var reasons []string

	if len(password) < 8 {
		reasons = append(reasons, "must be at least 8 characters long")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(symbolSet, r):
			hasSymbol = true
		}
	}

	if !hasLower {
		reasons = append(reasons, "must contain at least one lowercase letter")
	}
	if !hasUpper {
		reasons = append(reasons, "must contain at least one uppercase letter")
	}
	if !hasDigit {
		reasons = append(reasons, "must contain at least one number")
	}
	if !hasSymbol {
		reasons = append(reasons, "must contain at least one special character")
	}

	return reasons
}

// GeneratePassword produces a random password of the given length that
// always satisfies the strength rules. Lengths below 8 are raised to 8.
func GeneratePassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	const (
		lower  = "abcdefghijklmnopqrstuvwxyz"
		upper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		digits = "0123456789"
	)
	all := lower + upper + digits + symbolSet

	// One guaranteed character per class, the rest drawn from the full set.
	chars := make([]byte, 0, length)
	for _, set := range []string{lower, upper, digits, symbolSet} {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < length {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// Shuffle so the guaranteed characters are not always at the front.
	for i := len(chars) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := n.Int64()
		chars[i], chars[j] = chars[j], chars[i]
	}

	return string(chars), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
