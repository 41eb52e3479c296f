package client

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedToken builds a real HS256 token for decode tests. The decoder
// never verifies signatures, so the key is arbitrary.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func tokenExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	return signedToken(t, jwt.MapClaims{
		"sub":       "user-1",
		"user_name": "alice",
		"exp":       time.Now().Add(d).Unix(),
	})
}

func TestDecodeToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	token := signedToken(t, jwt.MapClaims{
		"sub":       "user-1",
		"user_name": "alice",
		"exp":       exp,
	})

	claims, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, exp, claims.ExpiresAt.Unix())
}

func TestDecodeToken_Garbage(t *testing.T) {
	_, err := DecodeToken("not.a.jwt")
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeToken_Empty(t *testing.T) {
	_, err := DecodeToken("")
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeToken_MissingExp(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-1"})
	_, err := DecodeToken(token)
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeToken_NoSignatureCheck(t *testing.T) {
	// A token signed by anyone decodes fine; verification is the
	// server's job.
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := other.SignedString([]byte("some-other-key"))
	require.NoError(t, err)

	claims, err := DecodeToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestClaims_ExpiresSoon(t *testing.T) {
	claims := &Claims{ExpiresAt: time.Now().Add(10 * time.Minute)}
	assert.False(t, claims.ExpiresSoon(5*time.Minute))
	assert.True(t, claims.ExpiresSoon(15*time.Minute))

	// already expired
	claims = &Claims{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, claims.ExpiresSoon(5*time.Minute))
}

func TestClaims_ExpiresSoon_BoundaryInclusive(t *testing.T) {
	// A token expiring exactly at now+buffer counts as expiring. Place
	// the expiry just inside the boundary so clock movement between the
	// two time.Now() calls cannot flip the result.
	claims := &Claims{ExpiresAt: time.Now().Add(5*time.Minute - time.Second)}
	assert.True(t, claims.ExpiresSoon(5*time.Minute))
}
