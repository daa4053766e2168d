package live_test

import (
	"testing"

	"github.com/flux-framework/flux-broker-go/live"
)

func TestTransitionTable(t *testing.T) {
	const slow, maxIdle = 3, 5

	tests := []struct {
		from    live.CState
		idle    int
		want    live.CState
		changed bool
	}{
		{live.StateOK, 0, live.StateOK, false},
		{live.StateOK, 3, live.StateOK, false},
		{live.StateOK, 4, live.StateSlow, true},
		{live.StateOK, 5, live.StateSlow, true},
		{live.StateOK, 6, live.StateFail, true},

		{live.StateSlow, 3, live.StateOK, true},
		{live.StateSlow, 4, live.StateSlow, false},
		{live.StateSlow, 5, live.StateSlow, false},
		{live.StateSlow, 6, live.StateFail, true},

		{live.StateFail, 3, live.StateOK, true},
		{live.StateFail, 4, live.StateSlow, true},
		{live.StateFail, 5, live.StateSlow, true},
		{live.StateFail, 6, live.StateFail, false},
	}

	for _, tt := range tests {
		got, changed := live.Transition(tt.from, tt.idle, slow, maxIdle)
		if got != tt.want || changed != tt.changed {
			t.Errorf("Transition(%v, idle=%d, slow=%d, maxIdle=%d) = (%v, %v), want (%v, %v)",
				tt.from, tt.idle, slow, maxIdle, got, changed, tt.want, tt.changed)
		}
	}
}

// TestTransitionHysteresis checks that once a child has settled into
// SLOW, idle jitter anywhere in (slow, max_idle] never produces another
// event: the absence of a strict inequality on that row's middle cell
// means re-observing the same bucket is a self-transition, not a state
// change.
func TestTransitionHysteresis(t *testing.T) {
	const slow, maxIdle = 3, 5

	state, changed := live.Transition(live.StateOK, 4, slow, maxIdle)
	if !changed || state != live.StateSlow {
		t.Fatalf("initial OK->SLOW transition = (%v, %v), want (SLOW, true)", state, changed)
	}

	for _, idle := range []int{4, 5, 4, 5} {
		next, changed := live.Transition(state, idle, slow, maxIdle)
		if changed {
			t.Errorf("idle=%d while already SLOW: changed = true, want false", idle)
		}
		state = next
	}
	if state != live.StateSlow {
		t.Errorf("final state = %v, want SLOW", state)
	}
}
