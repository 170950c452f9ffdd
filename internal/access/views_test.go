package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casccoach/platform/backend/internal/access"
	"github.com/casccoach/platform/backend/internal/domain"
)

func TestViews_Resolve(t *testing.T) {
	v := access.NewViews(access.DefaultViews)

	view, ok := v.Resolve("/schedule/3f2a?x=1")
	require.True(t, ok)
	assert.Equal(t, "/schedule/{bookingID}", view.Pattern)

	view, ok = v.Resolve("/")
	require.True(t, ok)
	assert.True(t, view.Public)

	_, ok = v.Resolve("/no/such/page")
	assert.False(t, ok)
}

func TestViews_Decide(t *testing.T) {
	v := access.NewViews(access.DefaultViews)

	assert.Equal(t, access.OutcomeAllow, v.Decide(access.AuthState{}, "/faq").Outcome)
	assert.Equal(t, access.OutcomeAllow, v.Decide(access.AuthState{Loading: true}, "/contact").Outcome)
	assert.Equal(t, access.OutcomeAllow, v.Decide(access.AuthState{}, "/missing").Outcome)

	d := v.Decide(access.AuthState{}, "/book")
	assert.Equal(t, "/auth?from=%2Fbook", d.Location)

	d = v.Decide(signedIn(domain.RoleCandidate), "/admin")
	assert.Equal(t, access.Decision{Outcome: access.OutcomeRedirect, Location: "/dashboard"}, d)

	d = v.Decide(signedIn(domain.RoleAdmin), "/trainer/pending")
	assert.Equal(t, access.OutcomeAllow, d.Outcome)
}

func TestViews_Decide_CandidateOnlyViews(t *testing.T) {
	v := access.NewViews(access.DefaultViews)

	for path, tc := range map[string]struct {
		role domain.Role
		home string
	}{
		"/book":           {domain.RoleTrainer, "/trainer"},
		"/dashboard":      {domain.RoleTrainer, "/trainer"},
		"/schedule/b-123": {domain.RoleAdmin, "/admin"},
	} {
		d := v.Decide(signedIn(tc.role), path)
		assert.Equal(t, access.Decision{Outcome: access.OutcomeRedirect, Location: tc.home}, d, path)

		d = v.Decide(signedIn(domain.RoleCandidate), path)
		assert.Equal(t, access.OutcomeAllow, d.Outcome, path)
	}

	d := v.Decide(signedIn(domain.RoleAdmin), "/dashboard")
	assert.Equal(t, access.Decision{Outcome: access.OutcomeRedirect, Location: "/admin"}, d)
}
