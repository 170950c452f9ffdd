// Package access decides whether a visitor may see a view, given the
// authentication state supplied by the identity provider.
//
// Decide is a pure function. Store holds the current auth state and notifies
// subscribers; Navigator connects the two for a routing layer.
package access

import (
	"net/url"
	"slices"

	"github.com/casccoach/platform/backend/internal/domain"
)

// Canonical locations.
const (
	SignInPath    = "/auth"
	AdminHome     = "/admin"
	TrainerHome   = "/trainer"
	CandidateHome = "/dashboard"
)

// AuthState is what the identity provider tells us about the visitor.
// Identity is nil for anonymous visitors. Loading is true until the provider
// has resolved the session.
type AuthState struct {
	Identity *domain.Identity
	Role     domain.Role
	Loading  bool
}

// Authenticated reports whether the state carries a resolved identity.
func (s AuthState) Authenticated() bool {
	return !s.Loading && s.Identity != nil
}

// Outcome is the kind of decision Decide makes.
type Outcome int

const (
	// OutcomeLoading means no decision can be made yet; render a neutral state.
	OutcomeLoading Outcome = iota
	OutcomeAllow
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeAllow:
		return "allow"
	case OutcomeRedirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the result of Decide. Location is set only for redirects.
type Decision struct {
	Outcome  Outcome
	Location string
}

// SignIn reports whether the decision sends the visitor to sign in.
func (d Decision) SignIn() bool {
	if d.Outcome != OutcomeRedirect {
		return false
	}
	u, err := url.Parse(d.Location)
	return err == nil && u.Path == SignInPath
}

// Decide returns what to do when a visitor in state asks for requested, a
// view restricted to required roles. An empty required list admits any
// authenticated visitor.
func Decide(state AuthState, required []domain.Role, requested string) Decision {
	if state.Loading {
		return Decision{Outcome: OutcomeLoading}
	}
	if state.Identity == nil {
		return Decision{Outcome: OutcomeRedirect, Location: SignInLocation(requested)}
	}
	if len(required) == 0 || slices.Contains(required, state.Role) {
		return Decision{Outcome: OutcomeAllow}
	}
	return Decision{Outcome: OutcomeRedirect, Location: HomeFor(state.Role)}
}

// HomeFor returns the landing view for role. Unknown roles land on the
// candidate home.
func HomeFor(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return AdminHome
	case domain.RoleTrainer:
		return TrainerHome
	}
	return CandidateHome
}

// SignInLocation returns the sign-in location that brings the visitor back
// to requested afterwards.
func SignInLocation(requested string) string {
	if requested == "" {
		return SignInPath
	}
	return SignInPath + "?" + url.Values{"from": {requested}}.Encode()
}
