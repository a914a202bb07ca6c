package authstub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_CheckPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery-staple")
	require.NoError(t, err)
	assert.True(t, CheckPassword("correct-horse-battery-staple", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestGenerateToken_ValidateTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "user@example.com")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestValidateToken_RejectsTamperedSignature(t *testing.T) {
	token, err := GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "zz"
	_, err = ValidateToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-real-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
