package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/casccoach/platform/backend/internal/access"
	"github.com/casccoach/platform/backend/internal/auth"
	"github.com/casccoach/platform/backend/internal/domain"
)

// Authenticator resolves a bearer token. *auth.Authenticator satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (access.AuthState, error)
}

type ctxKey int

const (
	authStateKey ctxKey = iota
	tokenKey
	requestUserKey
)

// requestUser lets the request logger see who Authenticate resolved.
type requestUser struct {
	id   string
	role domain.Role
}

func withRequestUser(ctx context.Context, u *requestUser) context.Context {
	return context.WithValue(ctx, requestUserKey, u)
}

// NewAuthenticate returns a middleware that resolves the Authorization bearer
// token into an access.AuthState stored on the request context. Missing and
// invalid tokens leave the visitor anonymous; RequireRoles decides what an
// anonymous visitor may do.
func NewAuthenticate(a Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			state, err := a.Authenticate(r.Context(), raw)
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				next.ServeHTTP(w, r)
				return
			case err != nil:
				log.ErrorContext(r.Context(), "authenticate request", "error", err)
				writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred", "")
				return
			}

			if u, ok := r.Context().Value(requestUserKey).(*requestUser); ok && state.Identity != nil {
				u.id = state.Identity.UserID.String()
				u.role = state.Role
			}
			ctx := context.WithValue(r.Context(), authStateKey, state)
			ctx = context.WithValue(ctx, tokenKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles returns a middleware that admits only signed-in visitors
// holding one of roles; no roles admits any signed-in visitor. Rejections
// carry the location the client should navigate to: 401 with the sign-in
// location for anonymous visitors, 403 with the role's home otherwise.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := access.Decide(AuthState(r.Context()), roles, r.URL.RequestURI())
			switch {
			case d.Outcome == access.OutcomeAllow:
				next.ServeHTTP(w, r)
			case d.SignIn():
				writeError(w, http.StatusUnauthorized, "unauthorized", "sign in to continue", d.Location)
			default:
				writeError(w, http.StatusForbidden, "forbidden", "your role cannot access this resource", d.Location)
			}
		})
	}
}

// AuthState returns the auth state Authenticate stored on ctx. Requests that
// did not pass through Authenticate are anonymous.
func AuthState(ctx context.Context) access.AuthState {
	state, _ := ctx.Value(authStateKey).(access.AuthState)
	return state
}

// Identity returns the signed-in user, if any.
func Identity(ctx context.Context) (domain.Identity, bool) {
	state := AuthState(ctx)
	if state.Identity == nil {
		return domain.Identity{}, false
	}
	return *state.Identity, true
}

// Token returns the raw bearer token of an authenticated request.
func Token(ctx context.Context) string {
	raw, _ := ctx.Value(tokenKey).(string)
	return raw
}

// WithAuthState returns a copy of ctx carrying state, as Authenticate would
// store it. Handler tests use it to act as a signed-in user.
func WithAuthState(ctx context.Context, state access.AuthState, token string) context.Context {
	ctx = context.WithValue(ctx, authStateKey, state)
	return context.WithValue(ctx, tokenKey, token)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
