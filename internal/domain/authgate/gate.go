package authgate

import "time"

// Navigator performs the navigation side effect a policy decision asks for.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// DeferFunc schedules fn to run after the current update pass completes and
// returns a cancel function. The default implementation uses a zero-delay
// timer.
type DeferFunc func(fn func()) (cancel func())

func deferTask(fn func()) (cancel func()) {
	t := time.AfterFunc(0, fn)
	return func() { t.Stop() }
}

// GateOptions configures a route gate for one protected page.
type GateOptions struct {
	Store        *Store
	Navigator    Navigator
	RequireAdmin bool

	// CurrentPath is the page being guarded, recorded as the redirect
	// target when an unauthenticated visitor is sent to login.
	CurrentPath string

	// Defer overrides the navigation scheduler. Tests inject a synchronous
	// one; production uses a zero-delay timer.
	Defer DeferFunc
}

// Gate wires session state through the access policy to a render decision and
// a navigation side effect. Navigation fires at most once per distinct
// transition into an unauthenticated or no-access state; repeated
// notifications with an unchanged resulting state never re-fire. The side
// effect runs on a deferred task so it cannot reenter the update that
// produced it, and Close cancels anything still pending.
type Gate struct {
	store        *Store
	nav          Navigator
	requireAdmin bool
	currentPath  string
	deferFn      DeferFunc

	// guarded by the store lock: notifications arrive serialized, and the
	// deferred task takes the same lock through the store.
	decision      Decision
	lastState     PolicyState
	cancelPending func()
	cancelSub     func()
	closed        bool
}

// NewGate subscribes to the store and immediately evaluates its current
// snapshot, so a gate attached after the session check resolved still acts.
func NewGate(opts GateOptions) *Gate {
	g := &Gate{
		store:        opts.Store,
		nav:          opts.Navigator,
		requireAdmin: opts.RequireAdmin,
		currentPath:  opts.CurrentPath,
		deferFn:      opts.Defer,
	}
	if g.deferFn == nil {
		g.deferFn = deferTask
	}
	g.store.mu.Lock()
	g.apply(g.store.state)
	g.store.mu.Unlock()
	g.cancelSub = g.store.Subscribe(g.apply)
	return g
}

// Decision returns the most recent render decision.
func (g *Gate) Decision() Decision {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	return g.decision
}

// Close detaches the gate from the store and cancels any navigation that was
// scheduled but has not fired yet.
func (g *Gate) Close() {
	if g.cancelSub != nil {
		g.cancelSub()
	}
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	g.closed = true
	if g.cancelPending != nil {
		g.cancelPending()
		g.cancelPending = nil
	}
}

// apply is called with the store lock held, both from Subscribe notifications
// and from NewGate's initial evaluation.
func (g *Gate) apply(s State) {
	if g.closed {
		return
	}
	d := Evaluate(s, g.requireAdmin, g.currentPath)
	prev := g.lastState
	g.decision = d
	g.lastState = d.State
	if d.State == prev {
		return
	}
	// A new transition supersedes any navigation still pending from the
	// previous one.
	if g.cancelPending != nil {
		g.cancelPending()
		g.cancelPending = nil
	}
	if d.NavigateTo == "" {
		return
	}
	target := d.NavigateTo
	g.cancelPending = g.deferFn(func() {
		g.store.mu.Lock()
		if g.closed {
			g.store.mu.Unlock()
			return
		}
		g.cancelPending = nil
		g.store.mu.Unlock()
		g.nav.Navigate(target)
	})
}
