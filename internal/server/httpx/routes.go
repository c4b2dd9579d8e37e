// Package httpx exposes the HTTP+JSON API: auth endpoints, lesson content
// and the middleware stack around them.
package httpx

import (
	"net/http"

	"github.com/ZinoChan/LangRhythms/internal/logging"
	"github.com/ZinoChan/LangRhythms/internal/server/auth"
	"github.com/ZinoChan/LangRhythms/internal/server/content"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterServices groups the dependencies of NewRouter.
type RouterServices struct {
	Users          UserServiceInterface
	Content        content.Store
	Tokens         *auth.TokenManager
	Cookies        CookieConfig
	AllowedOrigins []string
	Logger         logging.Logger
}

// lessonRoutes maps public paths to content keys.
var lessonRoutes = map[string]string{
	"/arabic/first-lesson":  content.KeyArabicFirstLesson,
	"/arabic/alphabets":     content.KeyArabicAlphabets,
	"/darija/words/marhban": content.KeyDarijaMarhban,
	"/darija/words/ahlan":   content.KeyDarijaAhlan,
}

// NewRouter builds the full handler, middleware included.
func NewRouter(s RouterServices) http.Handler {
	logger := s.Logger
	if logger == nil {
		logger = logging.Nop{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(ExposeRequestID)
	r.Use(Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(s.AllowedOrigins))
	r.Use(Authenticate(s.Tokens, logger))
	r.Use(RefreshExpiringToken(s.Tokens, s.Cookies, logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	authHandlers := &AuthHandlers{Svc: s.Users, Cookies: s.Cookies, Logger: logger}
	r.Post("/auth/login", authHandlers.Login)
	r.Post("/auth/signup", authHandlers.Signup)
	r.With(RequireAuth()).Get("/auth/me", authHandlers.Me)
	r.Get("/logout", authHandlers.Logout)

	contentHandlers := &ContentHandlers{Store: s.Content, Logger: logger}
	for path, key := range lessonRoutes {
		r.Get(path, contentHandlers.Lesson(key))
	}

	r.Get("/healthz", healthHandler)
	r.Head("/healthz", healthHandler)

	return r
}
