package valueobject

import "time"

// Rehydration constructors wrap values already validated at write time.
// They exist for the persistence layer only; application code goes through
// the validating constructors.

func RehydrateEmail(v string) Email { return Email{value: v} }

func RehydrateUsername(v string) Username { return Username{value: v} }

func RehydrateRoleName(v string) RoleName { return RoleName{value: v} }

func RehydrateRoleSlug(v string) RoleSlug { return RoleSlug{value: v} }

// ProfileRecord is the flat storage form of a UserProfile.
type ProfileRecord struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
	BirthDate *time.Time
	Gender    string
	AvatarURL string
	Language  string
	TimeZone  string
}

func RehydrateUserProfile(rec ProfileRecord) UserProfile {
	return UserProfile{
		firstName: rec.FirstName,
		lastName:  rec.LastName,
		phone:     rec.Phone,
		address:   rec.Address,
		birthDate: rec.BirthDate,
		gender:    rec.Gender,
		avatarURL: rec.AvatarURL,
		language:  rec.Language,
		timeZone:  rec.TimeZone,
	}
}
