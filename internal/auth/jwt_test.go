package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken("0xadmin")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "0xadmin", claims.WalletAddress)
	assert.True(t, claims.IsAdmin)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	InitJWT("secret-one")
	token, err := GenerateToken("0xadmin")
	require.NoError(t, err)

	InitJWT("secret-two")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	InitJWT("test-secret")
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}
