package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := NewJWTToken(jwt.MapClaims{
		"id":       "player-1",
		"username": "judge",
	}, testSecret)
	require.NoError(t, err)

	payload, err := ParseJWTToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, "player-1", payload.ID)
	require.Equal(t, "judge", payload.Username)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTToken(jwt.MapClaims{
		"id":       "player-1",
		"username": "judge",
	}, testSecret)
	require.NoError(t, err)

	_, err = ParseJWTToken(token, []byte("other-secret"))
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       "player-1",
		"username": "judge",
		"iat":      time.Now().Add(-2 * time.Hour).Unix(),
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	token, err := expired.SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseJWTToken(token, testSecret)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsMissingIdentity(t *testing.T) {
	token, err := NewJWTToken(jwt.MapClaims{
		"username": "judge",
	}, testSecret)
	require.NoError(t, err)

	_, err = ParseJWTToken(token, testSecret)
	require.Error(t, err)
}
