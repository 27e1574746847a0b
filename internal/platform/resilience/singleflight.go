package resilience

import "sync"

// SingleFlight collapses concurrent calls with the same key into one
// execution whose result every waiter shares.
type SingleFlight struct {
	mu     sync.Mutex
	active map[string]*flightCall
}

type flightCall struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. Callers that arrive while an
// execution is in flight block until it finishes and receive its
// result; the bool reports whether the result was shared that way.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.active == nil {
		g.active = make(map[string]*flightCall)
	}
	if c, ok := g.active[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &flightCall{done: make(chan struct{})}
	g.active[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	close(c.done)

	g.mu.Lock()
	delete(g.active, key)
	g.mu.Unlock()

	return c.val, c.err, false
}
