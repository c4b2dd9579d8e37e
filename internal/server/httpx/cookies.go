package httpx

import (
	"net/http"
	"time"

	"github.com/ZinoChan/LangRhythms/internal/common"
)

// CookieConfig controls the access_token cookie handed to browsers.
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

func (c CookieConfig) tokenCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c CookieConfig) clearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
