package auth

import (
	"errors"
	"fmt"
	"time"

	"erp-portal/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the access-token claims the portal reads. Roles are role names
// as issued by the identity backend.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Roles  []string  `json:"roles"`
	jwt.RegisteredClaims
}

// SessionRoles converts the claimed role names
func (c *Claims) SessionRoles() []session.Role {
	roles := make([]session.Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		if r != "" {
			roles = append(roles, session.Role(r))
		}
	}
	return roles
}

// TokenVerifier checks HS256 access tokens
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Issue signs a token for userID with roles, valid for ttl. The portal never
// issues tokens to browsers; this serves local tooling and tests.
func (v *TokenVerifier) Issue(userID uuid.UUID, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf(msgTokenParseFailed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New(msgInvalidTokenClaims)
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New(msgTokenMissingUser)
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New(msgTokenMissingExpiry)
	}

	return claims, nil
}
