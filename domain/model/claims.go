package model

import "github.com/golang-jwt/jwt"

// UserClaims is the JWT payload carried by API callers
type UserClaims struct {
	UserName string `json:"user_name"`
	jwt.StandardClaims
}
