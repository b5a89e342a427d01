package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("Secret#123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret#123", hashed)
	assert.True(t, CheckPassword(hashed, "Secret#123"))
	assert.False(t, CheckPassword(hashed, "secret#123"))
}

func TestSHA256Hex(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256Hex(""))
	assert.Len(t, SHA256Hex("token"), 64)
}
