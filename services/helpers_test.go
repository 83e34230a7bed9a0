package services

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	token, err := generateSecureToken(16)
	require.NoError(t, err)
	assert.Len(t, token, 32)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err, "tokens are hex encoded")

	other, err := generateSecureToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
