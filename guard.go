package authgate

import (
	"context"

	"authgate/credstore"
)

// Guard is the rendering-time gate for protected views. It derives its
// decision purely from credential store contents, with no network call, so the
// render decision and the auth state cannot race: both read the same store
// through the same accessor.
type Guard struct {
	store  credstore.Store
	public map[string]struct{}
	login  string
}

// NewGuard describes the newguard operation and its observable behavior.
//
// NewGuard does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewGuard(store credstore.Store, cfg GuardConfig) *Guard {
	public := make(map[string]struct{}, len(cfg.PublicRoutes))
	for _, route := range cfg.PublicRoutes {
		public[route] = struct{}{}
	}
	login := cfg.LoginRoute
	if login == "" {
		login = "/login"
	}
	return &Guard{store: store, public: public, login: login}
}

// CanAccess reports whether the route may be rendered. Public routes are
// always accessible; for every other route the presence of a stored access
// token is the only input. The gate fails closed: a nil guard or store denies
// access. Callers receiving false must redirect to [Guard.RedirectTarget]
// rather than render.
func (g *Guard) CanAccess(ctx context.Context, route string) bool {
	if g == nil || g.store == nil {
		return false
	}
	if _, ok := g.public[route]; ok {
		return true
	}
	return !g.store.Get(ctx).Anonymous()
}

// RedirectTarget names the login entry point a denied caller must redirect
// to.
func (g *Guard) RedirectTarget() string {
	if g == nil {
		return "/login"
	}
	return g.login
}
