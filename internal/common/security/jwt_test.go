package security

import (
	"context"
	"gradebook/internal/platform/config"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestJWT(t *testing.T, exp time.Duration) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: exp,
	}
	InitJWT()
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	initTestJWT(t, time.Hour)

	tokenString, err := GenerateToken("user-1", "teacher")
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)

	id, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	role, err := GetUserRoleFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "teacher", role)
}

func TestVerifyExpiredToken(t *testing.T) {
	initTestJWT(t, -time.Minute)

	tokenString, err := GenerateToken("user-1", "student")
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(TokenAuth, tokenString)
	assert.Error(t, err)
}

func TestVerifyTamperedToken(t *testing.T) {
	initTestJWT(t, time.Hour)

	tokenString, err := GenerateToken("user-1", "student")
	require.NoError(t, err)

	// flip a character in the payload segment
	parts := strings.Split(tokenString, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = jwtauth.VerifyToken(TokenAuth, tampered)
	assert.Error(t, err)
}

func TestVerifyWrongKey(t *testing.T) {
	initTestJWT(t, time.Hour)
	tokenString, err := GenerateToken("user-1", "admin")
	require.NoError(t, err)

	other := jwtauth.New("HS256", []byte("another-secret"), nil)
	_, err = jwtauth.VerifyToken(other, tokenString)
	assert.Error(t, err)
}

func TestClaimHelpers(t *testing.T) {
	_, err := GetUserIDFromClaims(map[string]interface{}{})
	assert.Error(t, err)

	_, err = GetUserIDFromClaims(map[string]interface{}{"user_id": 42})
	assert.Error(t, err)

	_, err = GetUserRoleFromClaims(map[string]interface{}{"role": nil})
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
	assert.False(t, CheckPasswordHash("secret123", "not-a-hash"))
}
