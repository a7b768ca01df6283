package valueobject

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("email is required")
	ErrEmailTooLong = errors.New("email must be at most 255 characters long")
	ErrEmailFormat  = errors.New("email must be a valid address like local@domain.tld")

	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// Email is a normalized, validated email address. The stored value is always
// trimmed and lowercased, so two spellings of the same address compare equal.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Email{}, ErrEmailEmpty
	}
	if len(v) > 255 {
		return Email{}, ErrEmailTooLong
	}
	if !emailPattern.MatchString(v) {
		return Email{}, ErrEmailFormat
	}
	return Email{value: v}, nil
}

func (e Email) String() string { return e.value }

func (e Email) IsZero() bool { return e.value == "" }

func (e Email) Equals(other Email) bool { return e.value == other.value }

// LocalPart returns everything before the last "@".
func (e Email) LocalPart() string {
	at := strings.LastIndex(e.value, "@")
	if at < 0 {
		return e.value
	}
	return e.value[:at]
}

// Domain returns everything after the last "@".
func (e Email) Domain() string {
	at := strings.LastIndex(e.value, "@")
	if at < 0 {
		return ""
	}
	return e.value[at+1:]
}
