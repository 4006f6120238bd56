package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/dokanapp/storefront-go/pkg/enums"
)

// AccessTokenClaims is the claim set carried by every bearer token.
type AccessTokenClaims struct {
	UserID int64      `json:"user_id"`
	Name   string     `json:"name"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// AccessTokenPayload is the input to MintAccessToken.
type AccessTokenPayload struct {
	UserID int64
	Name   string
	Role   enums.Role
}
