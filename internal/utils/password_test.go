package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter22"))
}

func TestRandomPassword(t *testing.T) {
	a, err := RandomPassword()
	require.NoError(t, err)
	b, err := RandomPassword()
	require.NoError(t, err)

	assert.Len(t, a, 48)
	assert.NotEqual(t, a, b)
}
