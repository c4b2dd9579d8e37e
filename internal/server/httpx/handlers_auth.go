package httpx

import (
	"context"
	"net/http"

	"github.com/ZinoChan/LangRhythms/internal/logging"
	"github.com/ZinoChan/LangRhythms/internal/server/models"
	"github.com/ZinoChan/LangRhythms/internal/server/services"
)

// UserServiceInterface is the account API the auth handlers need.
type UserServiceInterface interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Signup(ctx context.Context, email, fullName, password string) (*models.User, error)
	Profile(ctx context.Context, email string) (*models.User, error)
}

// AuthHandlers provides HTTP handlers for signup, login and logout.
type AuthHandlers struct {
	Svc     UserServiceInterface
	Cookies CookieConfig
	Logger  logging.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
	FullName    string `json:"fullname"`
}

type signupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
}

type profileResponse struct {
	Email    string `json:"email"`
	FullName string `json:"fullname"`
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}

	res, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}

	http.SetCookie(w, h.Cookies.tokenCookie(res.AccessToken))
	WriteJSON(w, http.StatusOK, loginResponse{
		Email:       res.Email,
		AccessToken: res.AccessToken,
		FullName:    res.FullName,
	})
}

// Signup handles POST /auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}

	u, err := h.Svc.Signup(r.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, userResponse{ID: u.ID, Email: u.Email, FullName: u.FullName})
}

// Me handles GET /auth/me. Must sit behind RequireAuth.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	u, err := h.Svc.Profile(r.Context(), id.Email)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, profileResponse{Email: u.Email, FullName: u.FullName})
}

// Logout handles GET /logout: it drops the cookie and sends the browser
// home. Issued tokens stay valid until they expire.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.Cookies.clearCookie())
	http.Redirect(w, r, "/", http.StatusFound)
}
