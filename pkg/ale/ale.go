// Package ale defines the boundary contract between the decision engine
// and an Arcade Learning Environment instance: the small set of
// operations the agent, Sarsa/Dyna-2 and UCT search need from a running
// game, independent of how that game is actually emulated.
package ale

// Action identifies one of a game's legal controller actions.
type Action int

// RAM is one snapshot of the console's 128-byte RAM.
type RAM [128]byte

// State is an opaque, clonable emulator checkpoint. Implementations must
// make State values independent of the Simulator they came from once
// cloned, so the search tree can hold many of them concurrently with the
// live game.
type State interface{}

// Simulator is the emulator boundary. A Simulator is never used from more
// than one goroutine at a time (the whole decision engine is
// single-threaded by design).
type Simulator interface {
	// LegalActions returns the fixed, ordered set of actions this game
	// accepts. The same slice (or an equal one) must be returned on every
	// call.
	LegalActions() []Action

	// Act applies action for exactly one emulator frame and returns the
	// reward obtained.
	Act(action Action) float64

	// GameOver reports whether the current state is terminal.
	GameOver() bool

	// FrameNumber returns the number of emulator frames elapsed since the
	// last Reset.
	FrameNumber() int

	// RAM returns the current 128-byte RAM snapshot.
	RAM() RAM

	// Clone captures the current state so it can be restored later,
	// independent of further calls to Act/Reset on this Simulator.
	Clone() State

	// Restore rewinds the emulator to a previously cloned state.
	Restore(State)

	// Reset starts a new episode from the game's initial state.
	Reset()
}

// FrameExporter saves an image of the Simulator's current state as a PNG
// file (RAMFrameExporter renders the RAM snapshot, the only image source
// the Simulator contract exposes). Agents call it once per decision when
// frame export is enabled.
type FrameExporter interface {
	ExportFrame(sim Simulator, path string) error
}

// ActWithSkip applies action for numFrames consecutive emulator frames,
// summing the reward, then optionally sign-clamps it to {-1, 0, 1} when
// scaled is set. This is the frame-skip behavior the whole agent shell is
// built around: one "decision" spans several emulator frames.
func ActWithSkip(sim Simulator, action Action, numFrames int, scaled bool) float64 {
	var reward float64
	for i := 0; i < numFrames; i++ {
		reward += sim.Act(action)
	}
	if scaled {
		switch {
		case reward > 0:
			reward = 1
		case reward < 0:
			reward = -1
		default:
			reward = 0
		}
	}
	return reward
}

// StepResult is the outcome of simulating one action from a given state,
// used by UCT's expansion phase.
type StepResult struct {
	NewState   State
	IsTerminal bool
	Reward     float64
}

// OneStepSimulation restores sim to oldState, applies action (with frame
// skip and reward scaling per the agent's configuration) and reports the
// resulting state, without mutating the caller's notion of "current"
// state afterwards — callers that need to keep simulating from the
// result should Clone() it themselves before further calls mutate sim
// again.
func OneStepSimulation(sim Simulator, oldState State, action Action, numFrames int, scaled bool) StepResult {
	sim.Restore(oldState)
	reward := ActWithSkip(sim, action, numFrames, scaled)
	return StepResult{
		NewState:   sim.Clone(),
		IsTerminal: sim.GameOver(),
		Reward:     reward,
	}
}
