package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	require.NotEqual(t, "admin123", hash)

	require.True(t, CheckPasswordHash("admin123", hash))
	require.False(t, CheckPasswordHash("admin124", hash))
}

func TestIsBcryptHash(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	require.True(t, IsBcryptHash(hash))
	require.False(t, IsBcryptHash("secret"))
	require.False(t, IsBcryptHash(""))
}
