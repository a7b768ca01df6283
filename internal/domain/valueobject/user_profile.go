package valueobject

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrProfileFirstName = errors.New("first name must be between 1 and 50 characters long")
	ErrProfileLastName  = errors.New("last name must be between 1 and 50 characters long")
	ErrProfilePhone     = errors.New("phone must be a valid international number")
	ErrProfileGender    = errors.New("gender must be one of: male, female, other, unspecified")
	ErrProfileLanguage  = errors.New("language is not supported")
	ErrProfileBirthDate = errors.New("birth date must not be in the future or more than 120 years ago")

	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{6,19}$`)

	supportedLanguages = map[string]struct{}{
		"en": {}, "ar": {}, "de": {}, "es": {}, "fr": {},
	}
	validGenders = map[string]struct{}{
		"male": {}, "female": {}, "other": {}, "unspecified": {},
	}
)

// ProfileChanges carries the optional fields of a profile update. Nil means
// "leave unchanged".
type ProfileChanges struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	BirthDate *time.Time
	Gender    *string
	AvatarURL *string
	Language  *string
	TimeZone  *string
}

// UserProfile is an immutable bundle of personal details. Update returns a
// fresh instance; a reference handed out earlier never changes underfoot.
type UserProfile struct {
	firstName string
	lastName  string
	phone     string
	address   string
	birthDate *time.Time
	gender    string
	avatarURL string
	language  string
	timeZone  string
}

func NewUserProfile(firstName, lastName string, changes ProfileChanges) (UserProfile, error) {
	p := UserProfile{
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
		gender:    "unspecified",
		language:  "en",
	}
	return p.Update(changes)
}

// Update applies changes on a copy and re-validates the result.
func (p UserProfile) Update(changes ProfileChanges) (UserProfile, error) {
	next := p
	if changes.FirstName != nil {
		next.firstName = strings.TrimSpace(*changes.FirstName)
	}
	if changes.LastName != nil {
		next.lastName = strings.TrimSpace(*changes.LastName)
	}
	if changes.Phone != nil {
		next.phone = strings.TrimSpace(*changes.Phone)
	}
	if changes.Address != nil {
		next.address = strings.TrimSpace(*changes.Address)
	}
	if changes.BirthDate != nil {
		d := *changes.BirthDate
		next.birthDate = &d
	}
	if changes.Gender != nil {
		next.gender = strings.ToLower(strings.TrimSpace(*changes.Gender))
	}
	if changes.AvatarURL != nil {
		next.avatarURL = strings.TrimSpace(*changes.AvatarURL)
	}
	if changes.Language != nil {
		next.language = strings.ToLower(strings.TrimSpace(*changes.Language))
	}
	if changes.TimeZone != nil {
		next.timeZone = strings.TrimSpace(*changes.TimeZone)
	}
	if err := next.validate(); err != nil {
		return UserProfile{}, err
	}
	return next, nil
}

func (p UserProfile) validate() error {
	if l := len(p.firstName); l < 1 || l > 50 {
		return ErrProfileFirstName
	}
	if l := len(p.lastName); l < 1 || l > 50 {
		return ErrProfileLastName
	}
	if p.phone != "" && !phonePattern.MatchString(p.phone) {
		return ErrProfilePhone
	}
	if _, ok := validGenders[p.gender]; !ok {
		return ErrProfileGender
	}
	if _, ok := supportedLanguages[p.language]; !ok {
		return ErrProfileLanguage
	}
	if p.birthDate != nil {
		now := time.Now().UTC()
		if p.birthDate.After(now) || p.birthDate.Before(now.AddDate(-120, 0, 0)) {
			return ErrProfileBirthDate
		}
	}
	return nil
}

func (p UserProfile) FirstName() string { return p.firstName }
func (p UserProfile) LastName() string  { return p.lastName }
func (p UserProfile) Phone() string     { return p.phone }
func (p UserProfile) Address() string   { return p.address }
func (p UserProfile) Gender() string    { return p.gender }
func (p UserProfile) AvatarURL() string { return p.avatarURL }
func (p UserProfile) Language() string  { return p.language }
func (p UserProfile) TimeZone() string  { return p.timeZone }

func (p UserProfile) FullName() string { return p.firstName + " " + p.lastName }

// BirthDate returns a copy so callers cannot mutate the stored value.
func (p UserProfile) BirthDate() *time.Time {
	if p.birthDate == nil {
		return nil
	}
	d := *p.birthDate
	return &d
}
