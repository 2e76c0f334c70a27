// Package auth holds the security core of the server: password hashing,
// session token issuance and verification, the request-scoped identity and
// the owner-or-admin policy.
//
// Session tokens are stateless HS256 JWTs. Verification never consults a
// store, so a token cannot be revoked: a leaked token stays valid until it
// expires. Revocation would need a denylist keyed by the token's jti claim.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/thejerf/abtime"
)

// DefaultTokenValidity is the lifetime of a session token.
const DefaultTokenValidity = 24 * time.Hour

// Identity is the set of user facts embedded in a session token.
type Identity struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// Claims is the token payload: {id, username, isAdmin, iat, exp, jti}.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Identity returns the identity part of the claims.
func (c Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Username: c.Username, IsAdmin: c.IsAdmin}
}

// TokenService issues and verifies session tokens with a shared secret.
type TokenService struct {
	secret   []byte
	validity time.Duration
	clock    abtime.AbstractTime
}

// NewTokenService returns a TokenService. An empty secret is refused;
// a nil clock means the real clock.
func NewTokenService(secret []byte, validity time.Duration, clock abtime.AbstractTime) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty token secret", common.ErrInsecureSecret)
	}
	if validity <= 0 {
		validity = DefaultTokenValidity
	}
	if clock == nil {
		clock = abtime.NewRealTime()
	}
	return &TokenService{secret: secret, validity: validity, clock: clock}, nil
}

// Issue signs a token for id, valid from now for the configured validity.
func (s *TokenService) Issue(id Identity) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		UserID:   id.UserID,
		Username: id.Username,
		IsAdmin:  id.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// Verify checks signature, structure and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired, everything else
// common.ErrInvalidToken. No clock-skew leeway is applied.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.clock.Now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
