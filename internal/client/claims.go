package client

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of an access token
type Claims struct {
	Subject   string
	Username  string
	ExpiresAt time.Time
}

// DecodeToken decodes the claims of a JWT without verifying its signature.
// The server is the only party that verifies signatures; the client only
// needs the payload to know who it is and when the token expires.
func DecodeToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, &DecodeError{Err: errors.New("empty token")}
	}

	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &DecodeError{Err: errors.New("unexpected claims type")}
	}

	claims := &Claims{}

	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if username, ok := mapClaims["user_name"].(string); ok {
		claims.Username = username
	}

	// exp is a NumericDate (Unix timestamp)
	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		return nil, &DecodeError{Err: errors.New("token missing exp claim")}
	}
	claims.ExpiresAt = time.Unix(int64(exp), 0)

	return claims, nil
}

// ExpiresSoon reports whether the token expires within buffer from now.
// A token expiring exactly at the buffer boundary counts as expiring.
func (c *Claims) ExpiresSoon(buffer time.Duration) bool {
	return !c.ExpiresAt.After(time.Now().Add(buffer))
}
