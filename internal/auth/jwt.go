package auth

import (
	"errors"
	"fmt"
	"time"

	"givento/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid. There is no early
// revocation.
const TokenTTL = 24 * time.Hour

var (
	ErrMissingSecret = errors.New("auth: token signing secret is not configured")
	ErrInvalidToken  = errors.New("auth: invalid token")
)

// Identity is what a verified token says about its bearer.
type Identity struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
}

type Claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs an HS256 token carrying the user's id and admin flag.
func (tm *TokenManager) Issue(u *models.User) (string, error) {
	now := tm.now()
	claims := &Claims{
		User: Identity{ID: u.ID.Hex(), IsAdmin: u.IsAdmin},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of signed and returns its claims.
// Every rejection wraps ErrInvalidToken.
func (tm *TokenManager) Parse(signed string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(signed, claims,
		func(*jwt.Token) (any, error) { return tm.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.User.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
