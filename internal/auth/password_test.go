package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	stored, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored)

	assert.True(t, h.Verify(stored, "secret1"))
	assert.False(t, h.Verify(stored, "secret2"))
	assert.False(t, h.Verify("not-a-hash", "secret1"))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).Cost)
	assert.Equal(t, 12, NewBcryptHasher(12).Cost)
}
