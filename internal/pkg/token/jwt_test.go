package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goshop/internal/pkg/token"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	signed, err := svc.GenerateToken("u-1", "ADMIN")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := token.NewService("secret-a", time.Hour)
	verifier := token.NewService("secret-b", time.Hour)

	signed, err := issuer.GenerateToken("u-1", "USER")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidate_ExpiredToken(t *testing.T) {
	svc := token.NewService("test-secret", -time.Minute)

	signed, err := svc.GenerateToken("u-1", "USER")
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
