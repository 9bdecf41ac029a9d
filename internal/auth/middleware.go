// Package auth provides the middleware that attaches the authenticated user
// to a request. Credential verification itself is delegated to the identity
// provider; the middleware only trusts its verdict.
package auth

import (
	"context"
	"net/http"

	"coursely/internal/apperrors"
	"coursely/internal/models"
)

// SessionVerifier resolves a session cookie into the authenticated user.
type SessionVerifier interface {
	VerifySessionCookie(ctx context.Context, sessionCookie *http.Cookie) (*models.User, error)
}

// RequireAuth is a middleware that rejects requests without a valid session
// cookie. The User associated with the request is added to the request
// context, and can be accessed via GetUserFromRequest.
func RequireAuth(sessions SessionVerifier, cookieName string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenCookie, err := r.Cookie(cookieName)
			if err != nil {
				// Missing session cookie.
				rejectUnauthorizedRequest(w)
				return
			}

			user, err := sessions.VerifySessionCookie(r.Context(), tokenCookie)
			if err != nil {
				// Invalid or revoked session cookie.
				rejectUnauthorizedRequest(w)
				return
			}

			// create a new request context containing the authenticated user
			ctxWithUser := context.WithValue(r.Context(), "currentUser", user)
			next.ServeHTTP(w, r.WithContext(ctxWithUser))
		})
	}
}

// OptionalAuth attaches the user to the context when a valid session cookie
// is present and lets the request through anonymously otherwise. Used by
// reads whose projection depends on who is asking.
func OptionalAuth(sessions SessionVerifier, cookieName string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenCookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessions.VerifySessionCookie(r.Context(), tokenCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctxWithUser := context.WithValue(r.Context(), "currentUser", user)
			next.ServeHTTP(w, r.WithContext(ctxWithUser))
		})
	}
}

// RequireInstructor rejects requests from users without the instructor
// role. Must run after RequireAuth.
func RequireInstructor() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := GetUserFromRequest(r)
			if err != nil {
				rejectUnauthorizedRequest(w)
				return
			}

			if !user.IsInstructor() {
				rejectForbiddenRequest(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromRequest returns a User if it exists within the request context.
// Only works with routes that implement the RequireAuth or OptionalAuth
// middleware.
func GetUserFromRequest(r *http.Request) (*models.User, error) {
	if user, ok := r.Context().Value("currentUser").(*models.User); ok && user != nil {
		return user, nil
	}

	return nil, apperrors.UserNotFoundError
}

// Helpers

func rejectUnauthorizedRequest(w http.ResponseWriter) {
	http.Error(w, "You must be authenticated to access this resource", http.StatusUnauthorized)
}

func rejectForbiddenRequest(w http.ResponseWriter) {
	http.Error(w, "You do not have permission to access this resource", http.StatusForbidden)
}
