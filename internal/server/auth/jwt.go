// Package auth holds the password hashing and session-token signing
// primitives used by the credential store and the session manager.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// SignSessionID wraps a server-side session id in an HS256 JWT so the cookie
// value is tamper-evident. The id travels as the jti claim. Expiry is owned
// by the session store, so no exp claim is set.
func SignSessionID(sessionID string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:       sessionID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})

	return token.SignedString(secretKey)
}

// ParseSessionID verifies tokenString and returns the session id it carries.
// Any malformed, forged or otherwise unusable token yields common.ErrInvalidToken.
func ParseSessionID(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Join(common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.ID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.ID, nil
}
