package uct

import (
	"math/rand"

	"github.com/ale-agents/uctdyna/pkg/ale"
)

// rollout restores sim to origin and plays uniformly random legal actions
// (in framesPerAction-sized chunks, i.e. the default policy's "act" calls
// the same frame-skip/reward-scaling the real agent uses) until the game
// ends or maxFrames raw emulator frames have elapsed, returning the
// summed reward.
func rollout(sim ale.Simulator, origin ale.State, maxFrames, framesPerAction int, scaled bool, rng *rand.Rand) float64 {
	sim.Restore(origin)
	startFrame := sim.FrameNumber()

	var total float64
	for !sim.GameOver() && sim.FrameNumber()-startFrame < maxFrames {
		actions := sim.LegalActions()
		action := actions[rng.Intn(len(actions))]
		total += ale.ActWithSkip(sim, action, framesPerAction, scaled)
	}
	return total
}
