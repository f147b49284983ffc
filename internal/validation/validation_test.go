package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"meets every rule", "Abc1@x", true},
		{"longer valid password", "Sup3r@Secret", true},
		{"too short", "Ab1@x", false},
		{"missing uppercase", "abc1@xx", false},
		{"missing lowercase", "ABC1@XX", false},
		{"missing digit", "Abcd@xx", false},
		{"missing symbol", "Abc1dxx", false},
		{"symbol outside the allowed set", "Abc1#xx", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPassword(tt.password))
		})
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+1 (555) 123-4567"))
	assert.True(t, ValidPhone("5551234567"))
	assert.True(t, ValidPhone("555.123.4567"))
	assert.False(t, ValidPhone("12345"))
	assert.False(t, ValidPhone("555-123-456x"))
	assert.False(t, ValidPhone(""))
}

func TestStructValidation(t *testing.T) {
	v := New()

	type signup struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,password"`
		Phone    string `json:"phoneNumber" validate:"omitempty,phone"`
	}

	t.Run("valid request passes", func(t *testing.T) {
		err := v.Struct(signup{Email: "a@b.com", Password: "Abc1@x"})
		assert.NoError(t, err)
	})

	t.Run("first error uses json field name", func(t *testing.T) {
		err := v.Struct(signup{Password: "Abc1@x"})
		require.Error(t, err)
		assert.Equal(t, `"email" is required`, FirstError(err))
	})

	t.Run("weak password message", func(t *testing.T) {
		err := v.Struct(signup{Email: "a@b.com", Password: "weak"})
		require.Error(t, err)
		assert.Contains(t, FirstError(err), "at least 6 characters")
	})

	t.Run("bad phone message", func(t *testing.T) {
		err := v.Struct(signup{Email: "a@b.com", Password: "Abc1@x", Phone: "nope"})
		require.Error(t, err)
		assert.Equal(t, "Invalid phone number", FirstError(err))
	})
}

func TestCommentLengthBounds(t *testing.T) {
	v := New()

	type comment struct {
		Text string `json:"text" validate:"required,min=1,max=250"`
	}

	assert.NoError(t, v.Struct(comment{Text: strings.Repeat("a", 250)}))
	assert.Error(t, v.Struct(comment{Text: strings.Repeat("a", 251)}))
	assert.Error(t, v.Struct(comment{Text: ""}))
}
