package valueobject

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordEmpty   = errors.New("password is required")
	ErrPasswordLength  = errors.New("password must be at least 8 characters long")
	ErrPasswordUpper   = errors.New("password must contain an uppercase letter")
	ErrPasswordLower   = errors.New("password must contain a lowercase letter")
	ErrPasswordDigit   = errors.New("password must contain a digit")
	ErrPasswordSpecial = errors.New("password must contain a special character")
	ErrPasswordCommon  = errors.New("password is too common")
	ErrPasswordHash    = errors.New("password hash is required")

	commonPasswords = map[string]struct{}{
		"password":    {},
		"password1":   {},
		"password123": {},
		"12345678":    {},
		"123456789":   {},
		"qwerty123":   {},
		"letmein123":  {},
		"welcome123":  {},
		"admin123":    {},
		"iloveyou1":   {},
	}
)

// Password never holds plaintext. NewPassword enforces the strength policy
// and stores only the bcrypt hash; PasswordFromHash rehydrates a persisted
// hash without re-running the policy, since the value was valid when stored.
type Password struct {
	hash string
}

func NewPassword(plain string) (Password, error) {
	if plain == "" {
		return Password{}, ErrPasswordEmpty
	}
	if err := checkStrength(plain); err != nil {
		return Password{}, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return Password{}, err
	}
	return Password{hash: string(h)}, nil
}

func PasswordFromHash(hash string) (Password, error) {
	if strings.TrimSpace(hash) == "" {
		return Password{}, ErrPasswordHash
	}
	return Password{hash: hash}, nil
}

func (p Password) Hash() string { return p.hash }

func (p Password) IsZero() bool { return p.hash == "" }

// Compare reports whether plain matches the stored hash.
func (p Password) Compare(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plain)) == nil
}

func checkStrength(plain string) error {
	if len(plain) < 8 {
		return ErrPasswordLength
	}
	if _, ok := commonPasswords[strings.ToLower(plain)]; ok {
		return ErrPasswordCommon
	}
	var upper, lower, digit, special bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	switch {
	case !upper:
		return ErrPasswordUpper
	case !lower:
		return ErrPasswordLower
	case !digit:
		return ErrPasswordDigit
	case !special:
		return ErrPasswordSpecial
	}
	return nil
}

// CalculateStrength scores a candidate password from 0 to 100. The heuristic
// rewards length and character variety and penalizes known-common passwords.
func CalculateStrength(plain string) int {
	if plain == "" {
		return 0
	}
	if _, ok := commonPasswords[strings.ToLower(plain)]; ok {
		return 5
	}
	score := 0
	switch {
	case len(plain) >= 16:
		score += 40
	case len(plain) >= 12:
		score += 30
	case len(plain) >= 8:
		score += 20
	default:
		score += 5
	}
	var upper, lower, digit, special bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	for _, ok := range []bool{upper, lower, digit, special} {
		if ok {
			score += 15
		}
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
