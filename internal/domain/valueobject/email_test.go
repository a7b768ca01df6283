package valueobject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		e, err := NewEmail("  John.Doe@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, "john.doe@example.com", e.String())
	})

	t.Run("two spellings compare equal", func(t *testing.T) {
		a, err := NewEmail("USER@wms.local")
		require.NoError(t, err)
		b, err := NewEmail("user@WMS.local")
		require.NoError(t, err)
		assert.True(t, a.Equals(b))
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := map[string]error{
			"":                    ErrEmailEmpty,
			"   ":                 ErrEmailEmpty,
			"no-at-sign":          ErrEmailFormat,
			"a@b":                 ErrEmailFormat,
			"user@domain.":        ErrEmailFormat,
			"@example.com":        ErrEmailFormat,
			"user name@wms.local": ErrEmailFormat,
			strings.Repeat("a", 250) + "@wms.local": ErrEmailTooLong,
		}
		for in, want := range cases {
			_, err := NewEmail(in)
			assert.ErrorIs(t, err, want, "input %q", in)
		}
	})

	t.Run("local part and domain", func(t *testing.T) {
		e, err := NewEmail("picker.7@warehouse.example.com")
		require.NoError(t, err)
		assert.Equal(t, "picker.7", e.LocalPart())
		assert.Equal(t, "warehouse.example.com", e.Domain())
	})

	t.Run("zero value", func(t *testing.T) {
		assert.True(t, Email{}.IsZero())
	})
}
