package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userhub/user-management-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the wire shape of the identity token payload.
type tokenClaims struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed identity tokens. The signing
// secret and TTL come from process configuration; there is no compiled-in
// default secret.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue produces a signed token bound to the given subject and role.
func (s *TokenService) Issue(userID, role string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UID:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token. Signature, algorithm, structure and
// expiry failures all surface as a plain error; callers map every failure to
// the same unauthenticated outcome.
func (s *TokenService) Verify(tokenStr string) (*ports.TokenClaims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(*tokenClaims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}

	out := &ports.TokenClaims{UserID: claims.UID, Role: claims.Role}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
