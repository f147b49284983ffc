package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r@Secret")
	require.NoError(t, err)

	assert.NotEqual(t, "Sup3r@Secret", hash)
	assert.True(t, CheckPasswordHash("Sup3r@Secret", hash))
	assert.False(t, CheckPasswordHash("Sup3r@Secre", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("Sup3r@Secret")
	require.NoError(t, err)
	second, err := HashPassword("Sup3r@Secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
