package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by Allow while the breaker is rejecting
// traffic.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState is the observable breaker position.
type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker trips after a run of consecutive failures, rejects
// calls for a cooldown window, then lets a bounded number of probes
// through before closing again.
type CircuitBreaker struct {
	mu sync.Mutex

	tripAfter int
	cooldown  time.Duration
	maxProbes int

	state     CircuitState
	failures  int
	probes    int
	probeWins int
	trippedAt time.Time

	now func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}
	if halfOpenMaxReq < 1 {
		halfOpenMaxReq = 1
	}

	return &CircuitBreaker{
		tripAfter: failureThreshold,
		cooldown:  openTimeout,
		maxProbes: halfOpenMaxReq,
		state:     CircuitStateClosed,
		now:       time.Now,
	}
}

// Allow reports whether a call may proceed, moving the breaker to half
// open once the cooldown has elapsed.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.maybeProbe()

	switch b.state {
	case CircuitStateOpen:
		return ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.probes >= b.maxProbes {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

// RecordSuccess clears the failure run, and in half open counts the
// probe toward closing. The breaker closes once every allowed probe has
// returned successfully.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.probeWins++
		if b.probeWins >= b.maxProbes && b.probes == 0 {
			b.shift(CircuitStateClosed)
		}
	}
}

// RecordFailure counts toward the trip threshold in closed state and
// re-trips immediately from half open. A failure while already open
// restarts the cooldown.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.tripAfter {
			b.shift(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.shift(CircuitStateOpen)
	case CircuitStateOpen:
		b.trippedAt = b.now()
	}
}

// State reports the effective position, accounting for an elapsed
// cooldown that Allow has not observed yet.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.trippedAt) >= b.cooldown {
		return CircuitStateHalfOpen
	}
	return b.state
}

// maybeProbe flips an expired open breaker to half open. Callers hold mu.
func (b *CircuitBreaker) maybeProbe() {
	if b.state == CircuitStateOpen && b.now().Sub(b.trippedAt) >= b.cooldown {
		b.shift(CircuitStateHalfOpen)
	}
}

// shift moves to a new state and resets the counters that do not
// survive the transition. Callers hold mu.
func (b *CircuitBreaker) shift(to CircuitState) {
	b.state = to
	b.probes = 0
	b.probeWins = 0

	switch to {
	case CircuitStateClosed:
		b.failures = 0
		b.trippedAt = time.Time{}
	case CircuitStateOpen:
		b.trippedAt = b.now()
	}
}
