package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 30 * 24 * time.Hour

// Payload is the authenticated identity carried by a token: the id is the
// stable player id, the username the display name the client picked.
type Payload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func NewJWTToken(claims jwt.MapClaims, secret []byte) (string, error) {
	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(tokenLifetime).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

// ParseJWTToken verifies the signature and expiry and extracts the
// identity claims. Only HMAC-signed tokens are accepted.
func ParseJWTToken(tokenString string, secret []byte) (*Payload, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid jwt token")
	}

	username, _ := claims["username"].(string)
	id, _ := claims["id"].(string)
	if username == "" || id == "" {
		return nil, errors.New("invalid token")
	}

	return &Payload{
		ID:       id,
		Username: username,
	}, nil
}
