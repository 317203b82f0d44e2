package ale

import "testing"

// counterSim is a minimal deterministic fake used across ale tests: each
// Act call increments frame count and returns a fixed per-call reward
// until a frame budget is exhausted, at which point the game is over.
type counterSim struct {
	frame  int
	reward float64
	overAt int
	legal  []Action
}

func newCounterSim(reward float64, overAt int) *counterSim {
	return &counterSim{reward: reward, overAt: overAt, legal: []Action{0, 1}}
}

func (c *counterSim) LegalActions() []Action { return c.legal }

func (c *counterSim) Act(Action) float64 {
	if c.GameOver() {
		return 0
	}
	c.frame++
	return c.reward
}

func (c *counterSim) GameOver() bool   { return c.frame >= c.overAt }
func (c *counterSim) FrameNumber() int { return c.frame }
func (c *counterSim) RAM() RAM         { return RAM{} }
func (c *counterSim) Clone() State {
	s := *c
	return &s
}
func (c *counterSim) Restore(s State) { *c = *(s.(*counterSim)) }
func (c *counterSim) Reset()          { c.frame = 0 }

func TestActWithSkipSumsReward(t *testing.T) {
	sim := newCounterSim(2, 100)
	got := ActWithSkip(sim, 0, 4, false)
	if got != 8 {
		t.Fatalf("expected summed reward 8, got %v", got)
	}
	if sim.FrameNumber() != 4 {
		t.Fatalf("expected 4 frames elapsed, got %d", sim.FrameNumber())
	}
}

func TestActWithSkipScalesSign(t *testing.T) {
	sim := newCounterSim(3, 100)
	got := ActWithSkip(sim, 0, 5, true)
	if got != 1 {
		t.Fatalf("expected scaled reward 1, got %v", got)
	}

	negSim := newCounterSim(-3, 100)
	got = ActWithSkip(negSim, 0, 5, true)
	if got != -1 {
		t.Fatalf("expected scaled reward -1, got %v", got)
	}

	zeroSim := newCounterSim(0, 100)
	got = ActWithSkip(zeroSim, 0, 5, true)
	if got != 0 {
		t.Fatalf("expected scaled reward 0, got %v", got)
	}
}

func TestActWithSkipStopsAccumulatingPastGameOver(t *testing.T) {
	sim := newCounterSim(1, 2)
	got := ActWithSkip(sim, 0, 5, false)
	if got != 2 {
		t.Fatalf("expected reward capped at the frames before game over (2), got %v", got)
	}
}

func TestOneStepSimulationRestoresFirst(t *testing.T) {
	sim := newCounterSim(1, 100)
	sim.frame = 10 // diverge from oldState on purpose

	oldState := newCounterSim(1, 100).Clone() // a fresh state at frame 0
	result := OneStepSimulation(sim, oldState, 0, 3, false)

	if result.Reward != 3 {
		t.Fatalf("expected reward 3 from the restored state, got %v", result.Reward)
	}
	if result.IsTerminal {
		t.Fatalf("expected non-terminal result")
	}
	clone := result.NewState.(*counterSim)
	if clone.frame != 3 {
		t.Fatalf("expected clone frame 3, got %d", clone.frame)
	}
}

func TestOneStepSimulationReportsTerminal(t *testing.T) {
	sim := newCounterSim(1, 2)
	result := OneStepSimulation(sim, sim.Clone(), 0, 5, false)
	if !result.IsTerminal {
		t.Fatalf("expected terminal result once the frame budget is exceeded")
	}
}
