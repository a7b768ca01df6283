package valueobject

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidEntityID = errors.New("entity id must be a valid UUID")

// EntityID identifies an aggregate. It wraps a canonical UUID string so that
// identity comparison is a plain string comparison.
type EntityID struct {
	value string
}

// NewEntityID generates a fresh random identifier.
func NewEntityID() EntityID {
	return EntityID{value: uuid.NewString()}
}

// ParseEntityID validates and normalizes an identifier coming from input or storage.
func ParseEntityID(s string) (EntityID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EntityID{}, ErrInvalidEntityID
	}
	return EntityID{value: id.String()}, nil
}

func (e EntityID) String() string { return e.value }

func (e EntityID) IsZero() bool { return e.value == "" }

func (e EntityID) Equals(other EntityID) bool { return e.value == other.value }
