// Package auth mints and verifies the signed session tokens handed to
// clients, and hashes their passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ZinoChan/LangRhythms/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the registered claims plus the account email. Subject is
// set to the email as well.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenManager issues HS256 tokens valid for a fixed period and decides
// when a presented token is close enough to expiry to be replaced.
type TokenManager struct {
	secret        []byte
	validity      time.Duration
	refreshWindow time.Duration
	now           func() time.Time
}

// Option customizes a TokenManager.
type Option func(*TokenManager)

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

func NewTokenManager(secret []byte, validity, refreshWindow time.Duration, opts ...Option) *TokenManager {
	m := &TokenManager{
		secret:        secret,
		validity:      validity,
		refreshWindow: refreshWindow,
		now:           time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Issue mints a token for email expiring validity from now.
func (m *TokenManager) Issue(email string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
			ID:        uuid.NewString(),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Parse verifies signature and expiry. Expired tokens yield
// common.ErrTokenExpired, anything else unusable yields common.ErrInvalidToken.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Email == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// NeedsRefresh reports whether fewer than refreshWindow remain before the
// token expires.
func (m *TokenManager) NeedsRefresh(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	return m.now().Add(m.refreshWindow).After(claims.ExpiresAt.Time)
}

// RefreshIfNearExpiry issues a replacement token for the same email when
// the presented one is inside the refresh window. The old token is left
// as is and stays usable until it expires.
func (m *TokenManager) RefreshIfNearExpiry(claims *Claims) (string, bool, error) {
	if !m.NeedsRefresh(claims) {
		return "", false, nil
	}

	token, err := m.Issue(claims.Email)
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}
