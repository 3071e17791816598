package appMiddleware

import "github.com/golang-jwt/jwt/v5"

type contextKey string

const UsernameKey contextKey = "username"

// Claims are the custom claims carried by an access token.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"usr"`
	jwt.RegisteredClaims
}
