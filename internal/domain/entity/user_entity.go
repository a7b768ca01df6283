package entity

import (
	"errors"
	"time"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

var (
	ErrUserUsernameRequired = errors.New("username is required")
	ErrUserEmailRequired    = errors.New("email is required")
	ErrUserPasswordRequired = errors.New("password is required")
	ErrResetTokenRequired   = errors.New("reset token is required")
	ErrResetTokenExpiry     = errors.New("reset token expiry must be in the future")
)

// User is the aggregate root for the user domain. Username and email are set
// once at construction and have no setters; changing either means creating a
// new user.
type User struct {
	AuditableEntity

	username valueobject.Username
	email    valueobject.Email
	profile  valueobject.UserProfile
	password valueobject.Password

	isActive        bool
	isEmailVerified bool
	emailVerifiedAt *time.Time
	lastLoginAt     *time.Time

	resetToken          string
	resetTokenExpiresAt *time.Time
}

// NewUser creates an active, unverified user and queues a user.created event.
func NewUser(username valueobject.Username, email valueobject.Email, profile valueobject.UserProfile, password valueobject.Password, createdBy *valueobject.EntityID) (*User, error) {
	if username.IsZero() {
		return nil, ErrUserUsernameRequired
	}
	if email.IsZero() {
		return nil, ErrUserEmailRequired
	}
	if password.IsZero() {
		return nil, ErrUserPasswordRequired
	}
	u := &User{
		AuditableEntity: newAuditableEntity(valueobject.NewEntityID(), createdBy),
		username:        username,
		email:           email,
		profile:         profile,
		password:        password,
		isActive:        true,
	}
	u.recordEvent(event.NewUserCreated(u.ID().String(), username.String(), email.String(), profile.FullName()))
	return u, nil
}

// UserRecord is the flat form a repository loads from storage.
type UserRecord struct {
	Audit               AuditRecord
	Username            valueobject.Username
	Email               valueobject.Email
	Profile             valueobject.UserProfile
	Password            valueobject.Password
	IsActive            bool
	IsEmailVerified     bool
	EmailVerifiedAt     *time.Time
	LastLoginAt         *time.Time
	ResetToken          string
	ResetTokenExpiresAt *time.Time
}

// ReconstituteUser rebuilds a user from persistence. No events are queued;
// rehydration is not a business transition.
func ReconstituteUser(rec UserRecord) *User {
	return &User{
		AuditableEntity:     reconstituteAuditable(rec.Audit),
		username:            rec.Username,
		email:               rec.Email,
		profile:             rec.Profile,
		password:            rec.Password,
		isActive:            rec.IsActive,
		isEmailVerified:     rec.IsEmailVerified,
		emailVerifiedAt:     rec.EmailVerifiedAt,
		lastLoginAt:         rec.LastLoginAt,
		resetToken:          rec.ResetToken,
		resetTokenExpiresAt: rec.ResetTokenExpiresAt,
	}
}

func (u *User) Username() valueobject.Username   { return u.username }
func (u *User) Email() valueobject.Email         { return u.email }
func (u *User) Profile() valueobject.UserProfile { return u.profile }
func (u *User) Password() valueobject.Password   { return u.password }
func (u *User) IsActive() bool                   { return u.isActive }
func (u *User) IsEmailVerified() bool            { return u.isEmailVerified }
func (u *User) ResetToken() string               { return u.resetToken }

func (u *User) EmailVerifiedAt() *time.Time     { return copyTime(u.emailVerifiedAt) }
func (u *User) LastLoginAt() *time.Time         { return copyTime(u.lastLoginAt) }
func (u *User) ResetTokenExpiresAt() *time.Time { return copyTime(u.resetTokenExpiresAt) }

// UpdateProfile swaps the whole immutable profile bundle.
func (u *User) UpdateProfile(profile valueobject.UserProfile, by *valueobject.EntityID) {
	old := u.profile.FullName()
	u.profile = profile
	u.touch(by)
	u.recordEvent(event.NewUserProfileUpdated(u.ID().String(), old, profile.FullName()))
}

// ChangePassword also invalidates any outstanding reset token.
func (u *User) ChangePassword(password valueobject.Password, by *valueobject.EntityID) error {
	if password.IsZero() {
		return ErrUserPasswordRequired
	}
	u.password = password
	u.clearReset()
	u.touch(by)
	u.recordEvent(event.NewUserPasswordChanged(u.ID().String()))
	return nil
}

// Activate is a silent no-op when the user is already active: no event, no
// updatedAt churn.
func (u *User) Activate(by *valueobject.EntityID) {
	if u.isActive {
		return
	}
	u.isActive = true
	u.touch(by)
	u.recordEvent(event.NewUserActivated(u.ID().String()))
}

// Deactivate mirrors Activate's idempotency.
func (u *User) Deactivate(by *valueobject.EntityID) {
	if !u.isActive {
		return
	}
	u.isActive = false
	u.touch(by)
	u.recordEvent(event.NewUserDeactivated(u.ID().String()))
}

func (u *User) VerifyEmail(by *valueobject.EntityID) {
	if u.isEmailVerified {
		return
	}
	now := time.Now().UTC()
	u.isEmailVerified = true
	u.emailVerifiedAt = &now
	u.touch(by)
	u.recordEvent(event.NewUserEmailVerified(u.ID().String(), u.email.String()))
}

func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.lastLoginAt = &now
	u.touch(nil)
	u.recordEvent(event.NewUserLoggedIn(u.ID().String()))
}

func (u *User) SetResetToken(token string, expiresAt time.Time, by *valueobject.EntityID) error {
	if token == "" {
		return ErrResetTokenRequired
	}
	if !expiresAt.After(time.Now().UTC()) {
		return ErrResetTokenExpiry
	}
	u.resetToken = token
	u.resetTokenExpiresAt = &expiresAt
	u.touch(by)
	u.recordEvent(event.NewUserResetRequested(u.ID().String(), u.email.String(), token))
	return nil
}

func (u *User) ClearResetToken(by *valueobject.EntityID) {
	if u.resetToken == "" && u.resetTokenExpiresAt == nil {
		return
	}
	u.clearReset()
	u.touch(by)
}

// HasValidResetToken reports whether token matches and has not expired.
func (u *User) HasValidResetToken(token string) bool {
	if u.resetToken == "" || token == "" || u.resetToken != token {
		return false
	}
	return u.resetTokenExpiresAt != nil && u.resetTokenExpiresAt.After(time.Now().UTC())
}

func (u *User) clearReset() {
	u.resetToken = ""
	u.resetTokenExpiresAt = nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
