// Package common contains shared constants and sentinel errors used across
// LangRhythms server components.
package common

import "time"

const (
	// AccessTokenCookieName is the cookie carrying the bearer token for
	// browser clients.
	AccessTokenCookieName = "access_token"

	// AccessTokenField is the JSON key under which a (re)issued token is
	// returned in response bodies.
	AccessTokenField = "access_token"

	// AuthorizationHeaderName carries "Bearer <token>" for API clients.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName echoes the per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"
)

const (
	// DefaultAccessTokenValidity is the fixed validity window of a minted token.
	DefaultAccessTokenValidity = time.Hour

	// DefaultRefreshWindow is the remaining validity below which a token is reissued.
	DefaultRefreshWindow = 30 * time.Minute
)
