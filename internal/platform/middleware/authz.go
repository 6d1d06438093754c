// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/repairment/internal/platform/apperr"
	"github.com/taibuivan/repairment/internal/platform/constants"
	"github.com/taibuivan/repairment/internal/platform/ctxutil"
	"github.com/taibuivan/repairment/internal/platform/respond"
	"github.com/taibuivan/repairment/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify session cookies in middleware.
//
// Defining it here decouples the middleware from [sec.TokenService] and lets
// tests inject a stub.
type TokenVerifier interface {
	Verify(token string) (*sec.Identity, error)
}

// Authenticate reads the session cookie and verifies it.
//
// # Flow
//  1. No cookie: the request proceeds as anonymous.
//  2. Cookie present: verify it via [TokenVerifier].
//  3. Valid: inject the [*sec.Identity] into the request context.
//  4. Invalid or expired: clear the cookie and proceed as anonymous.
//
// Rejection is left to [RequireGate] so that public routes still work for
// clients holding a stale cookie.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.AuthCookieName)

			// 1. Anonymous Access
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Token Verification
			identity, err := verifier.Verify(cookie.Value)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "session_cookie_rejected",
					slog.String("reason", err.Error()),
				)
				ClearAuthCookie(writer)
				next.ServeHTTP(writer, request)
				return
			}

			// 3. Context Injection
			if recorder, ok := writer.(identityRecorder); ok {
				recorder.recordUsername(identity.Username)
			}
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireGate blocks requests whose identity does not pass gate.
//
// Must be registered in the router AFTER [Authenticate]. Absent cookie,
// invalid cookie and wrong role all answer 401 with the same body.
func RequireGate(gate sec.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if gate.Admit(ctxutil.GetIdentity(request.Context())) == nil {
				respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # Session Cookie

// SetAuthCookie writes the session token cookie with a lifetime of ttl.
func SetAuthCookie(writer http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearAuthCookie expires the session cookie. The attributes must match the
// ones used by [SetAuthCookie] or browsers keep the original.
func ClearAuthCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
