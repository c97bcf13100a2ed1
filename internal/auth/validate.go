// Package auth holds the client's session handling and the pure checks the
// login and register forms run before anything is sent.
package auth

import (
	"regexp"
	"strings"

	"github.com/Makepad-fr/tada/internal/apperr"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail accepts the local@domain.tld shape.
func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// PasswordChecks is the result of each strength criterion.
type PasswordChecks struct {
	Length, Lower, Upper, Digit, Special bool
}

// Score counts the criteria met (0..5).
func (c PasswordChecks) Score() int {
	n := 0
	for _, ok := range []bool{c.Length, c.Lower, c.Upper, c.Digit, c.Special} {
		if ok {
			n++
		}
	}
	return n
}

// CheckPassword evaluates the five criteria.
func CheckPassword(pw string) PasswordChecks {
	var c PasswordChecks
	c.Length = len([]rune(pw)) >= 8
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			c.Lower = true
		case r >= 'A' && r <= 'Z':
			c.Upper = true
		case r >= '0' && r <= '9':
			c.Digit = true
		default:
			c.Special = true
		}
	}
	return c
}

// Strength is the advisory tier shown next to the register password.
type Strength int

const (
	StrengthNone Strength = iota
	StrengthWeak
	StrengthMedium
	StrengthStrong
)

func (s Strength) String() string {
	switch s {
	case StrengthWeak:
		return "weak"
	case StrengthMedium:
		return "medium"
	case StrengthStrong:
		return "strong"
	default:
		return ""
	}
}

// StrengthForScore maps a criteria count to a tier: ≤2 weak, 3 medium,
// 4 or 5 strong.
func StrengthForScore(score int) Strength {
	switch {
	case score <= 2:
		return StrengthWeak
	case score == 3:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}

// PasswordStrength is StrengthNone for an empty password.
func PasswordStrength(pw string) Strength {
	if pw == "" {
		return StrengthNone
	}
	return StrengthForScore(CheckPassword(pw).Score())
}

// IsPasswordStrong is the minimum accepted at registration: length,
// lowercase, uppercase and digit. Special characters are optional.
func IsPasswordStrong(pw string) bool {
	c := CheckPassword(pw)
	return c.Length && c.Lower && c.Upper && c.Digit
}

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return apperr.Validation("Please fill in all fields")
	}
	if !ValidateEmail(strings.TrimSpace(email)) {
		return apperr.Validation("Please enter a valid email address")
	}
	return nil
}

// ValidateRegistration checks the register form.
func ValidateRegistration(name, email, password, confirm string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" || confirm == "" {
		return apperr.Validation("Please fill in all fields")
	}
	if !ValidateEmail(strings.TrimSpace(email)) {
		return apperr.Validation("Please enter a valid email address")
	}
	if password != confirm {
		return apperr.Validation("Passwords do not match")
	}
	if !IsPasswordStrong(password) {
		return apperr.Validation("Password needs 8+ characters with lowercase, uppercase and a digit")
	}
	return nil
}
