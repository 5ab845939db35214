// Package session tracks the signed-in principal for one flow and answers the
// only authorization question the gallery asks: may this principal mutate the
// collection.
package session

import (
	"context"
	"errors"
	"sync"
)

var ErrUnauthorizedAccount = errors.New("account is not authorized")

type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

type Status int

const (
	Unauthenticated Status = iota
	Authenticated
)

func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// State is a snapshot handed to subscribers.
type State struct {
	Status    Status
	Principal *Principal
	Admin     bool
}

type Listener func(State)

// Gate is a two-state machine driven by identity provider notifications.
// It never polls; every transition comes from SignIn, Restore or SignOut.
type Gate struct {
	mu        sync.Mutex
	adminID   string
	principal *Principal
	listeners map[int]Listener
	nextID    int
}

func NewGate(adminID string) *Gate {
	return &Gate{adminID: adminID, listeners: make(map[int]Listener)}
}

func (g *Gate) IsAdmin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isAdminLocked()
}

func (g *Gate) isAdminLocked() bool {
	return g.principal != nil && g.adminID != "" && g.principal.ID == g.adminID
}

func (g *Gate) Principal() *Principal {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.principal == nil {
		return nil
	}
	p := *g.principal
	return &p
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Gate) stateLocked() State {
	if g.principal == nil {
		return State{Status: Unauthenticated}
	}
	p := *g.principal
	return State{Status: Authenticated, Principal: &p, Admin: g.isAdminLocked()}
}

// SignIn handles a fresh credential check. A principal other than the
// configured admin is signed straight back out.
// Listeners never observe the rejected principal.
func (g *Gate) SignIn(p Principal) error {
	if g.adminID == "" || p.ID != g.adminID {
		g.SignOut()
		return ErrUnauthorizedAccount
	}
	g.transition(&p)
	return nil
}

// Restore handles a passive session restore. The principal stays signed in
// even when it is not the admin; IsAdmin simply reports false.
func (g *Gate) Restore(p Principal) {
	g.transition(&p)
}

func (g *Gate) SignOut() {
	g.transition(nil)
}

func (g *Gate) transition(p *Principal) {
	g.mu.Lock()
	g.principal = p
	state := g.stateLocked()
	listeners := make([]Listener, 0, len(g.listeners))
	for _, l := range g.listeners {
		listeners = append(listeners, l)
	}
	g.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}

// Subscribe calls fn with the current state right away and again after every
// transition until the returned func is called.
func (g *Gate) Subscribe(fn Listener) (unsubscribe func()) {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	state := g.stateLocked()
	g.mu.Unlock()

	fn(state)

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

type contextKey struct{}

func WithGate(ctx context.Context, g *Gate) context.Context {
	return context.WithValue(ctx, contextKey{}, g)
}

// Lookup returns the gate attached with WithGate, if any.
func Lookup(ctx context.Context) (*Gate, bool) {
	g, ok := ctx.Value(contextKey{}).(*Gate)
	return g, ok && g != nil
}

// FromContext returns the request's gate, or a fresh unauthenticated one with
// no admin configured.
func FromContext(ctx context.Context) *Gate {
	if g, ok := Lookup(ctx); ok {
		return g
	}
	return NewGate("")
}
