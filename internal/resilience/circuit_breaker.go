// Package resilience guards calls to flaky upstreams.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State of a Breaker
type State int32

const (
	// StateClosed lets calls through and counts failures
	StateClosed State = iota
	// StateOpen rejects calls until the cool-down elapses
	StateOpen
	// StateHalfOpen lets a limited number of probe calls through
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	// ErrOpen is returned without calling the upstream while the breaker is open
	ErrOpen = errors.New("circuit breaker is open")

	// ErrProbeLimit is returned when all half-open probe slots are taken
	ErrProbeLimit = errors.New("circuit breaker probe limit reached")
)

// Settings configures a Breaker
type Settings struct {
	// Name identifies the breaker in logs and metrics
	Name string

	// FailureThreshold is the number of consecutive failures that opens the breaker
	FailureThreshold int

	// CoolDown is how long the breaker stays open before probing
	CoolDown time.Duration

	// Probes is the number of successful half-open calls needed to close again
	Probes int

	// IsFailure decides whether an error counts against the upstream.
	// Nil means every non-nil error counts.
	IsFailure func(err error) bool

	OnStateChange func(name string, from, to State)
}

// DefaultSettings returns thresholds suited to a hosted LLM endpoint
func DefaultSettings(name string) Settings {
	return Settings{
		Name:             name,
		FailureThreshold: 5,
		CoolDown:         30 * time.Second,
		Probes:           1,
	}
}

// Breaker is a consecutive-failure circuit breaker.
type Breaker struct {
	settings Settings
	now      func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	inFlight    int
	openedUntil time.Time
}

// NewBreaker creates a closed breaker
func NewBreaker(s Settings) *Breaker {
	if s.FailureThreshold <= 0 {
		s.FailureThreshold = 5
	}
	if s.CoolDown <= 0 {
		s.CoolDown = 30 * time.Second
	}
	if s.Probes <= 0 {
		s.Probes = 1
	}
	if s.IsFailure == nil {
		s.IsFailure = func(err error) bool { return err != nil }
	}
	return &Breaker{settings: s, now: time.Now}
}

// Name returns the configured name
func (b *Breaker) Name() string {
	return b.settings.Name
}

// State returns the current state, moving open to half-open once the cool-down elapsed
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// Do runs fn unless the breaker is open. Context errors never count as upstream failures.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := b.acquire(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		b.release(nil, false)
		return err
	}

	err := fn(ctx)
	counted := err != nil && !errors.Is(err, context.Canceled) && b.settings.IsFailure(err)
	b.release(err, counted)
	return err
}

func (b *Breaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState() {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if b.inFlight >= b.settings.Probes {
			return ErrProbeLimit
		}
	}
	b.inFlight++
	return nil
}

func (b *Breaker) release(err error, failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inFlight > 0 {
		b.inFlight--
	}

	state := b.currentState()
	if failed {
		b.successes = 0
		b.failures++
		if state == StateHalfOpen || b.failures >= b.settings.FailureThreshold {
			b.transition(StateOpen)
		}
		return
	}

	if err != nil {
		// Not the upstream's fault.
		return
	}

	b.failures = 0
	if state == StateHalfOpen {
		b.successes++
		if b.successes >= b.settings.Probes {
			b.transition(StateClosed)
		}
	}
}

func (b *Breaker) currentState() State {
	if b.state == StateOpen && !b.now().Before(b.openedUntil) {
		b.transition(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.failures = 0
	b.successes = 0
	if to == StateOpen {
		b.openedUntil = b.now().Add(b.settings.CoolDown)
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.settings.Name, from, to)
	}
}
