package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream down")

func fail(context.Context) error    { return errUpstream }
func succeed(context.Context) error { return nil }

// fakeClock lets tests move time without sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(s Settings) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	b := NewBreaker(s)
	b.now = clock.now
	return b, clock
}

func TestBreaker_StartsClosed(t *testing.T) {
	b := NewBreaker(DefaultSettings("llm"))
	if b.State() != StateClosed {
		t.Errorf("initial state = %v, want closed", b.State())
	}
	if b.Name() != "llm" {
		t.Errorf("Name() = %q, want llm", b.Name())
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(Settings{FailureThreshold: 3, CoolDown: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_ = b.Do(ctx, fail)
	}
	if b.State() != StateClosed {
		t.Fatalf("state after 2 failures = %v, want closed", b.State())
	}

	_ = b.Do(ctx, fail)
	if b.State() != StateOpen {
		t.Fatalf("state after 3 failures = %v, want open", b.State())
	}

	called := false
	err := b.Do(ctx, func(context.Context) error { called = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Errorf("Do() error = %v, want ErrOpen", err)
	}
	if called {
		t.Error("fn must not run while open")
	}
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b, _ := newTestBreaker(Settings{FailureThreshold: 2})
	ctx := context.Background()

	_ = b.Do(ctx, fail)
	_ = b.Do(ctx, succeed)
	_ = b.Do(ctx, fail)

	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	b, clock := newTestBreaker(Settings{FailureThreshold: 1, CoolDown: 10 * time.Second, Probes: 1})
	ctx := context.Background()

	_ = b.Do(ctx, fail)
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	clock.advance(11 * time.Second)
	if b.State() != StateHalfOpen {
		t.Fatalf("state after cool-down = %v, want half-open", b.State())
	}

	if err := b.Do(ctx, succeed); err != nil {
		t.Fatalf("probe error = %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state after probe = %v, want closed", b.State())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clock := newTestBreaker(Settings{FailureThreshold: 1, CoolDown: 10 * time.Second})
	ctx := context.Background()

	_ = b.Do(ctx, fail)
	clock.advance(11 * time.Second)
	_ = b.Do(ctx, fail)

	if b.State() != StateOpen {
		t.Errorf("state = %v, want open", b.State())
	}
}

func TestBreaker_IgnoresNonFailures(t *testing.T) {
	errBadPrompt := errors.New("bad prompt")
	b, _ := newTestBreaker(Settings{
		FailureThreshold: 1,
		IsFailure:        func(err error) bool { return !errors.Is(err, errBadPrompt) },
	})
	ctx := context.Background()

	_ = b.Do(ctx, func(context.Context) error { return errBadPrompt })
	_ = b.Do(ctx, func(context.Context) error { return context.Canceled })

	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreaker_CancelledContext(t *testing.T) {
	b := NewBreaker(DefaultSettings("llm"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := b.Do(ctx, func(context.Context) error { called = true; return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
	if called {
		t.Error("fn must not run with a cancelled context")
	}
}

func TestBreaker_OnStateChange(t *testing.T) {
	var mu sync.Mutex
	var transitions []string

	b, clock := newTestBreaker(Settings{
		Name:             "llm",
		FailureThreshold: 1,
		CoolDown:         time.Second,
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			defer mu.Unlock()
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})
	ctx := context.Background()

	_ = b.Do(ctx, fail)
	clock.advance(2 * time.Second)
	_ = b.Do(ctx, succeed)

	want := []string{"llm:closed->open", "llm:open->half-open", "llm:half-open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %s, want %s", i, transitions[i], want[i])
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
