package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/tada/internal/apperr"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"ada@example.com",
		"a.b+c@sub.domain.org",
		"x@y.z",
		"weird!#$@host.co.uk",
	}
	invalid := []string{
		"",
		"ada",
		"ada@",
		"@example.com",
		"ada@example",
		"ada example@x.com",
		"ada@exa mple.com",
		"ada@@example.com",
		"ada@example.",
		"ada@.com",
	}
	for _, e := range valid {
		assert.True(t, ValidateEmail(e), "expected %q to be accepted", e)
	}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), "expected %q to be rejected", e)
	}
}

func TestStrengthForScore(t *testing.T) {
	want := map[int]Strength{
		0: StrengthWeak,
		1: StrengthWeak,
		2: StrengthWeak,
		3: StrengthMedium,
		4: StrengthStrong,
		5: StrengthStrong,
	}
	for score, s := range want {
		assert.Equal(t, s, StrengthForScore(score), "score %d", score)
	}
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		pw    string
		score int
		want  Strength
	}{
		{"", 0, StrengthNone},
		{"abc", 1, StrengthWeak},
		{"abcdefgh", 2, StrengthWeak},
		{"abcdefgH", 3, StrengthMedium},
		{"abcdefH1", 4, StrengthStrong},
		{"abcdeH1!", 5, StrengthStrong},
		{"aB1!", 4, StrengthStrong},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			assert.Equal(t, tt.score, CheckPassword(tt.pw).Score())
			assert.Equal(t, tt.want, PasswordStrength(tt.pw))
		})
	}
}

func TestIsPasswordStrong(t *testing.T) {
	assert.True(t, IsPasswordStrong("Passw0rd"))
	assert.False(t, IsPasswordStrong("Pass0rd"), "too short")
	assert.False(t, IsPasswordStrong("password1"), "no upper")
	assert.False(t, IsPasswordStrong("PASSWORD1"), "no lower")
	assert.False(t, IsPasswordStrong("Password!"), "no digit")
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name, email, pw, confirm string
		wantMsg                  string
	}{
		{"Ada", "ada@example.com", "Passw0rd", "Passw0rd", ""},
		{"", "ada@example.com", "Passw0rd", "Passw0rd", "Please fill in all fields"},
		{"Ada", "ada.example.com", "Passw0rd", "Passw0rd", "Please enter a valid email address"},
		{"Ada", "ada@example.com", "Passw0rd", "Passw0rD", "Passwords do not match"},
		{"Ada", "ada@example.com", "password", "password", "Password needs 8+ characters with lowercase, uppercase and a digit"},
	}
	for _, tt := range tests {
		err := ValidateRegistration(tt.name, tt.email, tt.pw, tt.confirm)
		if tt.wantMsg == "" {
			assert.NoError(t, err)
			continue
		}
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Equal(t, tt.wantMsg, apperr.UserMessage(err))
	}
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin(" ada@example.com ", "x"))
	assert.Error(t, ValidateLogin("ada@example.com", ""))
	assert.Error(t, ValidateLogin("nope", "secret"))
}
