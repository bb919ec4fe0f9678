package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Email     string `json:"email" validate:"required,email"`
	Password1 string `json:"password1" validate:"required,min=6"`
	Password2 string `json:"password2" validate:"required,eqfield=Password1"`
	Kind      string `json:"kind,omitempty" validate:"omitempty,oneof=a b"`
}

func TestStruct(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		in     form
		fields map[string][]string
	}{
		{
			name: "valid",
			in:   form{Email: "ana@club.test", Password1: "secret1", Password2: "secret1"},
		},
		{
			name: "mismatched passwords",
			in:   form{Email: "ana@club.test", Password1: "secret1", Password2: "secret2"},
			fields: map[string][]string{
				"password2": {"The two password fields didn't match."},
			},
		},
		{
			name: "everything wrong",
			in:   form{Email: "nope", Password1: "abc", Password2: "abc", Kind: "z"},
			fields: map[string][]string{
				"email":     {"Enter a valid email address."},
				"password1": {"Ensure this field has at least 6 characters."},
				"kind":      {`"z" is not a valid choice.`},
			},
		},
		{
			name: "empty",
			in:   form{},
			fields: map[string][]string{
				"email":     {"This field is required."},
				"password1": {"This field is required."},
				"password2": {"This field is required."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))

			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
		})
	}
}
