package valueobject

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrUsernameEmpty    = errors.New("username is required")
	ErrUsernameLength   = errors.New("username must be between 3 and 50 characters long")
	ErrUsernameCharset  = errors.New("username may only contain letters, digits, dots, underscores and hyphens")
	ErrUsernameReserved = errors.New("username is reserved")
	ErrUsernameDots     = errors.New("username must not start or end with a dot, or contain consecutive dots")

	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._\-]+$`)

	reservedUsernames = map[string]struct{}{
		"admin":         {},
		"administrator": {},
		"root":          {},
		"system":        {},
		"superuser":     {},
		"support":       {},
		"guest":         {},
		"api":           {},
		"null":          {},
		"undefined":     {},
	}
)

// Username is a validated login name. Case is preserved; reservation checks
// are case-insensitive.
type Username struct {
	value string
}

func NewUsername(raw string) (Username, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Username{}, ErrUsernameEmpty
	}
	if len(v) < 3 || len(v) > 50 {
		return Username{}, ErrUsernameLength
	}
	if !usernamePattern.MatchString(v) {
		return Username{}, ErrUsernameCharset
	}
	if strings.HasPrefix(v, ".") || strings.HasSuffix(v, ".") || strings.Contains(v, "..") {
		return Username{}, ErrUsernameDots
	}
	if _, ok := reservedUsernames[strings.ToLower(v)]; ok {
		return Username{}, ErrUsernameReserved
	}
	return Username{value: v}, nil
}

func (u Username) String() string { return u.value }

func (u Username) IsZero() bool { return u.value == "" }

func (u Username) Equals(other Username) bool { return u.value == other.value }
