package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPin(t *testing.T) {
	for _, ok := range []string{"0", "12", "1234"} {
		assert.True(t, IsPin(ok), ok)
	}
	for _, bad := range []string{"", "12345", "12a", " 12", "-1"} {
		assert.False(t, IsPin(bad), bad)
	}
}

func TestPasswordProblem(t *testing.T) {
	assert.Empty(t, PasswordProblem("Secret@1"))
	assert.Equal(t, PasswordLengthText, PasswordProblem("Ab1@"))
	assert.Equal(t, PasswordRulesText, PasswordProblem("password@1"))
	assert.Equal(t, PasswordRulesText, PasswordProblem("Password11"))
	// characters outside the allowed set
	assert.Equal(t, PasswordRulesText, PasswordProblem("Pass word@1"))
}

type request struct {
	Pin      string `json:"pin" validate:"required,pin"`
	Password string `json:"password" validate:"required,strongpassword"`
}

func TestRegisteredRules(t *testing.T) {
	v := validator.New()
	Register(v)

	require.NoError(t, v.Struct(request{Pin: "42", Password: "Secret@12"}))

	err := v.Struct(request{Pin: "42345", Password: "weak"})
	require.Error(t, err)
	msg := Message(err)
	assert.Contains(t, msg, "pin must be 1 to 4 digits")
	assert.Contains(t, msg, PasswordLengthText)

	err = v.Struct(request{Pin: "1", Password: "password@1"})
	require.Error(t, err)
	assert.Equal(t, PasswordRulesText, Message(err))
}

type flexible string

type flexibleRequest struct {
	Pin flexible `json:"pin" validate:"omitempty,pin"`
}

func TestPinRuleOnStringKinds(t *testing.T) {
	v := validator.New()
	Register(v)

	require.NoError(t, v.Struct(flexibleRequest{}))
	require.NoError(t, v.Struct(flexibleRequest{Pin: "0042"}))
	err := v.Struct(flexibleRequest{Pin: "12a"})
	require.Error(t, err)
	assert.Equal(t, "pin must be 1 to 4 digits", Message(err))
}

func TestMessageNonValidationError(t *testing.T) {
	assert.Equal(t, "invalid request body", Message(errors.New("boom")))
}
