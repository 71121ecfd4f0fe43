package util

import (
	"testing"
	"time"

	"educonnect_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func testUser() *model.User {
	u := &model.User{
		Username: "alice",
		Email:    "alice@example.com",
		Role:     model.Student,
	}
	u.ID = 42
	return u
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT(testUser(), testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.Student, claims.Role)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "another-secret")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	token, err := GenerateJWT(testUser(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, testSecret)
	assert.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("not-a-token", testSecret)
	assert.Error(t, err)
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, testSecret, time.Hour)
	require.NoError(t, err)

	userID, err := ParseRefreshToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	a, err := GenerateRefreshToken(42, testSecret, time.Hour)
	require.NoError(t, err)
	b, err := GenerateRefreshToken(42, testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestParseRefreshTokenInvalid(t *testing.T) {
	token, err := GenerateRefreshToken(42, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseRefreshToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = ParseRefreshToken("garbage", testSecret)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestParseRefreshTokenWrongSecret(t *testing.T) {
	token, err := GenerateRefreshToken(42, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseRefreshToken(token, "another-secret")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}
