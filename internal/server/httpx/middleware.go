package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ZinoChan/LangRhythms/internal/common"
	"github.com/ZinoChan/LangRhythms/internal/logging"
	"github.com/ZinoChan/LangRhythms/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

// ExposeRequestID echoes the id assigned by middleware.RequestID so clients
// can quote it when reporting a problem.
func ExposeRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(common.RequestIDHeaderName, id)
		}
		next.ServeHTTP(w, r)
	})
}

// Logging returns chi's request logger writing one structured entry per
// request to logger. middleware.Recoverer reports panics through the same
// entry.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&logFormatter{logger: logger})
}

type logFormatter struct {
	logger logging.Logger
}

func (f *logFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &logEntry{logger: f.logger, r: r}
}

type logEntry struct {
	logger logging.Logger
	r      *http.Request
}

func (e *logEntry) Write(status, n int, _ http.Header, elapsed time.Duration, _ any) {
	// Handlers that never write still answer 200.
	if status == 0 {
		status = http.StatusOK
	}
	e.logger.Info(e.r.Context(), "http",
		"method", e.r.Method,
		"path", e.r.URL.Path,
		"status", status,
		"bytes", n,
		"duration", elapsed,
		"request_id", middleware.GetReqID(e.r.Context()),
	)
}

func (e *logEntry) Panic(v any, stack []byte) {
	e.logger.Error(e.r.Context(), "panic",
		"error", v,
		"path", e.r.URL.Path,
		"method", e.r.Method,
		"request_id", middleware.GetReqID(e.r.Context()),
		"stack", string(stack))
}

// CORS allows credentialed cross-origin requests from the listed origins.
// "*" allows any origin; the request's Origin is echoed back since
// credentialed responses cannot use a wildcard.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			allowAll = true
			continue
		}
		if o != "" {
			allowed[o] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				w.Header().Add("Vary", "Origin")
				if _, ok := allowed[origin]; ok || allowAll {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Credentials", "true")
					h.Set("Access-Control-Expose-Headers", common.RequestIDHeaderName)
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+common.RequestIDHeaderName)
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Authenticate attaches an Identity to the request context when it carries
// a valid access token, either as "Authorization: Bearer <jwt>" or in the
// access_token cookie. Missing or bad tokens are not an error here.
func Authenticate(tokens *auth.TokenManager, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := tokenFromRequest(r)
			if token != "" {
				claims, err := tokens.Parse(token)
				if err != nil {
					logger.Debug(r.Context(), "ignoring access token", "error", err)
				} else {
					ctx := WithIdentity(r.Context(), &Identity{Email: claims.Email, Claims: claims, FromCookie: fromCookie})
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if h := r.Header.Get(common.AuthorizationHeaderName); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token), false
		}
	}
	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// RequireAuth returns a middleware that requires authentication.
// If the request has no Identity, it returns a 401 Unauthorized response.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RefreshExpiringToken reissues the caller's token when it is inside the
// refresh window. The response is buffered; a JSON object body gets the new
// token under "access_token", any other body is sent unchanged. Callers
// that authenticated with the cookie also get the cookie replaced.
//
// Responses that already carry a credential are left alone: a handler that
// sets or clears the token cookie, or writes its own access_token, has
// decided the caller's session and the inbound token must not override it.
func RefreshExpiringToken(tokens *auth.TokenManager, cookies CookieConfig, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok || !tokens.NeedsRefresh(id.Claims) {
				next.ServeHTTP(w, r)
				return
			}

			buf := &bufferedWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(buf, r)

			body := buf.body.Bytes()
			obj, isObject := decodeObject(w.Header().Get("Content-Type"), body)
			if setsTokenCookie(w.Header()) || (isObject && hasToken(obj)) {
				w.WriteHeader(buf.status)
				_, _ = w.Write(body)
				return
			}

			token, refreshed, err := tokens.RefreshIfNearExpiry(id.Claims)
			switch {
			case err != nil:
				logger.Warn(r.Context(), "token refresh failed", "error", err)
			case refreshed:
				if isObject {
					if patched, err := encodeWithToken(obj, token); err == nil {
						body = patched
						w.Header().Set("Content-Length", strconv.Itoa(len(body)))
					}
				}
				if id.FromCookie {
					http.SetCookie(w, cookies.tokenCookie(token))
				}
				logger.Debug(r.Context(), "access token refreshed", "request_id", RequestIDFromContext(r.Context()))
			}

			w.WriteHeader(buf.status)
			_, _ = w.Write(body)
		})
	}
}

// bufferedWriter holds the status and body until the wrapping middleware
// decides what to send. Headers go straight to the underlying writer's map,
// which is not flushed before WriteHeader.
type bufferedWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (w *bufferedWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.body.Write(b)
}

// decodeObject parses a JSON object body. It reports false for any other
// content type or body shape.
func decodeObject(contentType string, body []byte) (map[string]any, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return obj, true
}

func hasToken(obj map[string]any) bool {
	_, ok := obj[common.AccessTokenField]
	return ok
}

func encodeWithToken(obj map[string]any, token string) ([]byte, error) {
	obj[common.AccessTokenField] = token
	patched, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return append(patched, '\n'), nil
}

func setsTokenCookie(h http.Header) bool {
	for _, c := range h.Values("Set-Cookie") {
		if strings.HasPrefix(c, common.AccessTokenCookieName+"=") {
			return true
		}
	}
	return false
}
