package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/ZinoChan/LangRhythms/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(clock *fakeClock) *TokenManager {
	return NewTokenManager([]byte("super-secret"), time.Hour, 30*time.Minute, WithClock(clock.Now))
}

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(clock)

	tok, err := m.Issue("a@b.com")
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "a@b.com", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, clock.t, claims.IssuedAt.Time.UTC())
	assert.Equal(t, clock.t.Add(time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestIssue_UniqueIDs(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(clock)

	a, err := m.Issue("a@b.com")
	require.NoError(t, err)
	b, err := m.Issue("a@b.com")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "tokens minted in the same second must still differ")
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(clock)

	tok, err := m.Issue("u1@example.com")
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)

	_, err = m.Parse(tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Now()}
	right := newTestManager(clock)
	wrong := NewTokenManager([]byte("wrong-secret"), time.Hour, 30*time.Minute, WithClock(clock.Now))

	tok, err := right.Issue("u2@example.com")
	require.NoError(t, err)

	_, err = wrong.Parse(tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("k"), time.Hour, 30*time.Minute)

	_, err := m.Parse("not.a.jwt")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("k"), time.Hour, 30*time.Minute)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Email:            "x@example.com",
	})
	s, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = m.Parse(s)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_RequiresEmailAndExpiry(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("k"), time.Hour, 30*time.Minute)

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "x@example.com"}).SignedString([]byte("k"))
	require.NoError(t, err)

	for _, s := range []string{noEmail, noExpiry} {
		_, err := m.Parse(s)
		assert.True(t, errors.Is(err, common.ErrInvalidToken), "got %v", err)
	}
}

func TestNeedsRefresh_Boundaries(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		elapsed   time.Duration
		wantFresh bool
	}{
		{name: "just issued", elapsed: 0, wantFresh: true},
		{name: "31 minutes left", elapsed: 29 * time.Minute, wantFresh: true},
		{name: "29 minutes left", elapsed: 31 * time.Minute, wantFresh: false},
		{name: "1 second left", elapsed: time.Hour - time.Second, wantFresh: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: issued}
			m := newTestManager(clock)

			tok, err := m.Issue("a@b.com")
			require.NoError(t, err)

			clock.Advance(tt.elapsed)
			claims, err := m.Parse(tok)
			require.NoError(t, err)

			assert.Equal(t, !tt.wantFresh, m.NeedsRefresh(claims))
		})
	}
}

func TestRefreshIfNearExpiry(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("inside window issues a new token", func(t *testing.T) {
		clock := &fakeClock{t: issued}
		m := newTestManager(clock)

		old, err := m.Issue("a@b.com")
		require.NoError(t, err)

		clock.Advance(31 * time.Minute)
		claims, err := m.Parse(old)
		require.NoError(t, err)

		fresh, refreshed, err := m.RefreshIfNearExpiry(claims)
		require.NoError(t, err)
		require.True(t, refreshed)
		require.NotEqual(t, old, fresh)

		newClaims, err := m.Parse(fresh)
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", newClaims.Email)
		assert.Equal(t, clock.t.Add(time.Hour), newClaims.ExpiresAt.Time.UTC())

		_, err = m.Parse(old)
		assert.NoError(t, err, "old token stays valid until its own expiry")
	})

	t.Run("outside window leaves token alone", func(t *testing.T) {
		clock := &fakeClock{t: issued}
		m := newTestManager(clock)

		old, err := m.Issue("a@b.com")
		require.NoError(t, err)

		clock.Advance(29 * time.Minute)
		claims, err := m.Parse(old)
		require.NoError(t, err)

		fresh, refreshed, err := m.RefreshIfNearExpiry(claims)
		require.NoError(t, err)
		assert.False(t, refreshed)
		assert.Empty(t, fresh)
	})

	t.Run("nil claims", func(t *testing.T) {
		m := NewTokenManager([]byte("k"), time.Hour, 30*time.Minute)
		_, refreshed, err := m.RefreshIfNearExpiry(nil)
		require.NoError(t, err)
		assert.False(t, refreshed)
	})
}
