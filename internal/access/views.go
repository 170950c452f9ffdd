package access

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/casccoach/platform/backend/internal/domain"
)

// View is a client route and the roles allowed to see it.
// Public views are visible without signing in. Protected views with no Roles
// admit any signed-in visitor.
type View struct {
	Pattern string
	Public  bool
	Roles   []domain.Role
}

// DefaultViews is the route table of the web client.
var DefaultViews = []View{
	{Pattern: "/", Public: true},
	{Pattern: "/how-it-works", Public: true},
	{Pattern: "/sessions", Public: true},
	{Pattern: "/faq", Public: true},
	{Pattern: "/contact", Public: true},
	{Pattern: "/privacy", Public: true},
	{Pattern: "/terms", Public: true},
	{Pattern: SignInPath, Public: true},
	{Pattern: "/forgot-password", Public: true},
	{Pattern: "/reset-password", Public: true},
	{Pattern: "/become-trainer", Public: true},
	{Pattern: CandidateHome, Roles: []domain.Role{domain.RoleCandidate}},
	{Pattern: "/book", Roles: []domain.Role{domain.RoleCandidate}},
	{Pattern: "/schedule/{bookingID}", Roles: []domain.Role{domain.RoleCandidate}},
	{Pattern: TrainerHome, Roles: []domain.Role{domain.RoleTrainer}},
	{Pattern: "/trainer/pending"},
	{Pattern: AdminHome, Roles: []domain.Role{domain.RoleAdmin}},
}

// Views resolves client paths against a route table using chi's matcher, so
// patterns follow the same syntax as the API routes.
type Views struct {
	mux   *chi.Mux
	views map[string]View
}

// NewViews builds a resolver for the given table.
func NewViews(table []View) *Views {
	v := &Views{mux: chi.NewRouter(), views: make(map[string]View, len(table))}
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for _, view := range table {
		v.mux.Get(view.Pattern, noop)
		v.views[view.Pattern] = view
	}
	return v
}

// Resolve returns the view matching path. Query strings are ignored.
// Unknown paths report false.
func (v *Views) Resolve(path string) (View, bool) {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	if path == "" {
		path = "/"
	}
	rctx := chi.NewRouteContext()
	if !v.mux.Match(rctx, http.MethodGet, path) {
		return View{}, false
	}
	view, ok := v.views[rctx.RoutePattern()]
	return view, ok
}

// Decide resolves requested and applies the package-level Decide to it.
// Public and unknown views are allowed for everyone, including while the
// auth state is still loading.
func (v *Views) Decide(state AuthState, requested string) Decision {
	view, ok := v.Resolve(requested)
	if !ok || view.Public {
		return Decision{Outcome: OutcomeAllow}
	}
	return Decide(state, view.Roles, requested)
}
