package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	City     string `json:"delivery_city" validate:"required" label:"delivery city"`
	Payment  string `json:"payment_method" validate:"omitempty,oneof=cash card" label:"payment method"`
}

func TestMessages(t *testing.T) {
	cases := []struct {
		name string
		in   form
		want string
	}{
		{"missing email", form{Password: "secret1", City: "NS"}, "please enter email"},
		{"bad email", form{Email: "nope", Password: "secret1", City: "NS"}, "email must be a valid email"},
		{"short password", form{Email: "a@b.rs", Password: "abc", City: "NS"}, "password must be at least 6 characters"},
		{"label wins", form{Email: "a@b.rs", Password: "secret1"}, "please enter delivery city"},
		{"oneof", form{Email: "a@b.rs", Password: "secret1", City: "NS", Payment: "btc"}, "payment method must be one of: cash, card"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewCustomValidator().Validate(&tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.want, Message(err))
		})
	}

	assert.NoError(t, Struct(&form{Email: "a@b.rs", Password: "secret1", City: "NS"}))
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("ana@example.com", "required,email"))
	assert.Error(t, Var("ana@", "required,email"))
	assert.Error(t, Var("", "required,email"))
}
