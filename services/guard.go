package services

import (
	"context"

	"github.com/lborres/whatif/core"
)

const defaultLoginPath = "/login"

// RouteGuard admits a protected navigation iff someone is logged in at the
// moment of the decision. It keeps no state of its own.
type RouteGuard struct {
	sessions  *SessionManager
	loginPath string
}

var _ core.Guard = (*RouteGuard)(nil)

func NewRouteGuard(sessions *SessionManager, loginPath string) *RouteGuard {
	if loginPath == "" {
		loginPath = defaultLoginPath
	}
	return &RouteGuard{sessions: sessions, loginPath: loginPath}
}

// Check reads the marker afresh on every call. The marker is not
// cross-checked against the account records.
func (g *RouteGuard) Check(ctx context.Context) (*core.Decision, error) {
	username, ok, err := g.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &core.Decision{Admit: false, RedirectTo: g.loginPath}, nil
	}
	return &core.Decision{Admit: true, Username: username}, nil
}

func (g *RouteGuard) LoginPath() string {
	return g.loginPath
}
