package service

import (
	"sync"

	"github.com/phazelsound/client/internal/model"
	"github.com/phazelsound/client/internal/session"
)

// 최상위 네비게이션 경로
const (
	RouteAuth = "/(auth)/login"
	RouteTabs = "/(tabs)"
)

// Route returns the top-level route for a session.
func Route(s model.Session) string {
	if s.IsAuthenticated {
		return RouteTabs
	}
	return RouteAuth
}

// Gate follows the session store and navigates whenever the top-level
// route changes.
type Gate struct {
	mu          sync.Mutex
	current     string
	navigate    func(string)
	unsubscribe func()
}

// NewGate navigates to the current route right away and then on every
// route change.
func NewGate(store *session.Store, navigate func(string)) *Gate {
	g := &Gate{navigate: navigate}
	g.apply(store.Snapshot())
	g.unsubscribe = store.Subscribe(g.apply)
	return g
}

func (g *Gate) apply(s model.Session) {
	route := Route(s)

	g.mu.Lock()
	changed := route != g.current
	g.current = route
	g.mu.Unlock()

	if changed {
		g.navigate(route)
	}
}

// Current returns the last route navigated to.
func (g *Gate) Current() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Stop detaches the gate from the store.
func (g *Gate) Stop() {
	g.unsubscribe()
}
