package event

const (
	UserCreatedName        = "user.created"
	UserProfileUpdatedName = "user.profile_updated"
	UserPasswordChangedName = "user.password_changed"
	UserActivatedName      = "user.activated"
	UserDeactivatedName    = "user.deactivated"
	UserEmailVerifiedName  = "user.email_verified"
	UserLoggedInName       = "user.logged_in"
	UserResetRequestedName = "user.reset_requested"

	UserVerificationRequestedName = "user.verification_requested"
)

type UserCreated struct {
	base
	Username string
	Email    string
	FullName string
}

func NewUserCreated(userID, username, email, fullName string) UserCreated {
	return UserCreated{base: newBase(UserCreatedName, userID), Username: username, Email: email, FullName: fullName}
}

func (e UserCreated) Payload() map[string]any {
	return map[string]any{"username": e.Username, "email": e.Email, "full_name": e.FullName}
}

// UserProfileUpdated carries the old and new display names so consumers can
// describe the transition without re-reading the aggregate.
type UserProfileUpdated struct {
	base
	OldFullName string
	NewFullName string
}

func NewUserProfileUpdated(userID, oldFullName, newFullName string) UserProfileUpdated {
	return UserProfileUpdated{base: newBase(UserProfileUpdatedName, userID), OldFullName: oldFullName, NewFullName: newFullName}
}

func (e UserProfileUpdated) Payload() map[string]any {
	return map[string]any{"old_full_name": e.OldFullName, "new_full_name": e.NewFullName}
}

type UserPasswordChanged struct{ base }

func NewUserPasswordChanged(userID string) UserPasswordChanged {
	return UserPasswordChanged{base: newBase(UserPasswordChangedName, userID)}
}

func (e UserPasswordChanged) Payload() map[string]any { return map[string]any{} }

type UserActivated struct{ base }

func NewUserActivated(userID string) UserActivated {
	return UserActivated{base: newBase(UserActivatedName, userID)}
}

func (e UserActivated) Payload() map[string]any { return map[string]any{} }

type UserDeactivated struct{ base }

func NewUserDeactivated(userID string) UserDeactivated {
	return UserDeactivated{base: newBase(UserDeactivatedName, userID)}
}

func (e UserDeactivated) Payload() map[string]any { return map[string]any{} }

type UserEmailVerified struct {
	base
	Email string
}

func NewUserEmailVerified(userID, email string) UserEmailVerified {
	return UserEmailVerified{base: newBase(UserEmailVerifiedName, userID), Email: email}
}

func (e UserEmailVerified) Payload() map[string]any { return map[string]any{"email": e.Email} }

type UserLoggedIn struct{ base }

func NewUserLoggedIn(userID string) UserLoggedIn {
	return UserLoggedIn{base: newBase(UserLoggedInName, userID)}
}

func (e UserLoggedIn) Payload() map[string]any { return map[string]any{} }

// UserResetRequested carries the one-time token so the mail consumer can build
// the reset link without a read back to the database.
type UserResetRequested struct {
	base
	Email string
	Token string
}

func NewUserResetRequested(userID, email, token string) UserResetRequested {
	return UserResetRequested{base: newBase(UserResetRequestedName, userID), Email: email, Token: token}
}

func (e UserResetRequested) Payload() map[string]any {
	return map[string]any{"email": e.Email, "token": e.Token}
}

// UserVerificationRequested is raised by the application layer when a user
// asks for an email-verification link; it is not an aggregate state change.
type UserVerificationRequested struct {
	base
	Email string
	Token string
}

func NewUserVerificationRequested(userID, email, token string) UserVerificationRequested {
	return UserVerificationRequested{base: newBase(UserVerificationRequestedName, userID), Email: email, Token: token}
}

func (e UserVerificationRequested) Payload() map[string]any {
	return map[string]any{"email": e.Email, "token": e.Token}
}
