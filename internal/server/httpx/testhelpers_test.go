package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZinoChan/LangRhythms/internal/common"
	"github.com/ZinoChan/LangRhythms/internal/server/auth"
	"github.com/ZinoChan/LangRhythms/internal/server/content"
	"github.com/ZinoChan/LangRhythms/internal/server/models"
	"github.com/ZinoChan/LangRhythms/internal/server/services"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeUserService is a test double for UserServiceInterface.
type fakeUserService struct {
	loginFunc   func(ctx context.Context, email, password string) (*services.LoginResult, error)
	signupFunc  func(ctx context.Context, email, fullName, password string) (*models.User, error)
	profileFunc func(ctx context.Context, email string) (*models.User, error)
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	if f.loginFunc != nil {
		return f.loginFunc(ctx, email, password)
	}
	return nil, common.ErrorUnauthorized
}

func (f *fakeUserService) Signup(ctx context.Context, email, fullName, password string) (*models.User, error) {
	if f.signupFunc != nil {
		return f.signupFunc(ctx, email, fullName, password)
	}
	return nil, common.ErrorInternal
}

func (f *fakeUserService) Profile(ctx context.Context, email string) (*models.User, error) {
	if f.profileFunc != nil {
		return f.profileFunc(ctx, email)
	}
	return nil, common.ErrorNotFound
}

type testEnv struct {
	clock  *testClock
	tokens *auth.TokenManager
	svc    *fakeUserService
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := auth.NewTokenManager([]byte("test-secret"), time.Hour, 30*time.Minute, auth.WithClock(clock.Now))
	svc := &fakeUserService{}
	router := NewRouter(RouterServices{
		Users:          svc,
		Content:        content.NewEmbeddedStore(),
		Tokens:         tokens,
		Cookies:        CookieConfig{MaxAge: time.Hour},
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return &testEnv{clock: clock, tokens: tokens, svc: svc, router: router}
}

func (e *testEnv) do(method, path, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func tokenCookie(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: token})
	}
}
