package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries exactly one of IsAdmin or Email.
type Claims struct {
	IsAdmin bool   `json:"isAdmin,omitempty"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

func (i *TokenIssuer) IssueAdmin() (string, time.Time, error) {
	return i.issue(Claims{IsAdmin: true})
}

func (i *TokenIssuer) IssueEmail(email string) (string, time.Time, error) {
	return i.issue(Claims{Email: email})
}

func (i *TokenIssuer) issue(claims Claims) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("no signing secret: %w", ErrConfiguration)
	}
	if i.ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("token ttl must be positive: %w", ErrConfiguration)
	}
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

type TokenVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), now: time.Now}
}

// Verify checks signature and expiry. Any failure is ErrUnauthorized.
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("no signing secret: %w", ErrConfiguration)
	}
	if tokenString == "" {
		return nil, ErrUnauthorized
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
