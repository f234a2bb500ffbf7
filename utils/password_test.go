package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckSecret(t *testing.T) {
	hash, err := HashSecret("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckSecret(hash, "secret123"))
	assert.False(t, CheckSecret(hash, "secret124"))
	assert.False(t, CheckSecret("not-a-hash", "secret123"))
}

func TestValidPincode(t *testing.T) {
	assert.True(t, ValidPincode("4321"))
	assert.True(t, ValidPincode("0000"))

	for _, bad := range []string{"", "432", "43210", "43a1", "43 1", "-431", "4.21"} {
		assert.False(t, ValidPincode(bad), bad)
	}
}
