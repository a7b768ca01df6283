package valueobject

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrRoleNameEmpty   = errors.New("role name is required")
	ErrRoleNameLength  = errors.New("role name must be between 2 and 100 characters long")
	ErrRoleNameCharset = errors.New("role name may only contain letters, digits, spaces, hyphens and underscores")

	ErrRoleSlugEmpty    = errors.New("role slug is required")
	ErrRoleSlugCharset  = errors.New("role slug may only contain lowercase letters, digits and hyphens")
	ErrRoleSlugHyphens  = errors.New("role slug must not start or end with a hyphen, or contain consecutive hyphens")
	ErrRoleSlugReserved = errors.New("role slug is reserved")

	roleNamePattern = regexp.MustCompile(`^[A-Za-z0-9 _\-]+$`)
	roleSlugPattern = regexp.MustCompile(`^[a-z0-9\-]+$`)

	reservedRoleSlugs = map[string]struct{}{
		"new": {}, "edit": {}, "delete": {}, "all": {}, "none": {}, "default": {},
	}
)

// RoleName is a display name normalized to title case.
type RoleName struct {
	value string
}

func NewRoleName(raw string) (RoleName, error) {
	v := strings.Join(strings.Fields(raw), " ")
	if v == "" {
		return RoleName{}, ErrRoleNameEmpty
	}
	if len(v) < 2 || len(v) > 100 {
		return RoleName{}, ErrRoleNameLength
	}
	if !roleNamePattern.MatchString(v) {
		return RoleName{}, ErrRoleNameCharset
	}
	return RoleName{value: titleCase(v)}, nil
}

func (n RoleName) String() string { return n.value }

func (n RoleName) IsZero() bool { return n.value == "" }

func (n RoleName) Equals(other RoleName) bool { return n.value == other.value }

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// RoleSlug is the machine identifier of a role, stable across renames of the
// display name.
type RoleSlug struct {
	value string
}

func NewRoleSlug(raw string) (RoleSlug, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return RoleSlug{}, ErrRoleSlugEmpty
	}
	if !roleSlugPattern.MatchString(v) {
		return RoleSlug{}, ErrRoleSlugCharset
	}
	if strings.HasPrefix(v, "-") || strings.HasSuffix(v, "-") || strings.Contains(v, "--") {
		return RoleSlug{}, ErrRoleSlugHyphens
	}
	if _, ok := reservedRoleSlugs[v]; ok {
		return RoleSlug{}, ErrRoleSlugReserved
	}
	return RoleSlug{value: v}, nil
}

// SlugFromName derives a slug deterministically from a display name:
// "Team Lead" -> "team-lead".
func SlugFromName(name RoleName) (RoleSlug, error) {
	v := strings.ToLower(name.String())
	v = strings.ReplaceAll(v, "_", "-")
	v = strings.Join(strings.Fields(v), "-")
	for strings.Contains(v, "--") {
		v = strings.ReplaceAll(v, "--", "-")
	}
	return NewRoleSlug(v)
}

func (s RoleSlug) String() string { return s.value }

func (s RoleSlug) IsZero() bool { return s.value == "" }

func (s RoleSlug) Equals(other RoleSlug) bool { return s.value == other.value }
