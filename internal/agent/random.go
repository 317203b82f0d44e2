package agent

import "math/rand"

// RandomAgent picks a uniformly random legal action at every decision.
type RandomAgent struct {
	*Shell
	rng *rand.Rand
}

// NewRandomAgent constructs a RandomAgent over shell.
func NewRandomAgent(shell *Shell, rng *rand.Rand) *RandomAgent {
	return &RandomAgent{Shell: shell, rng: rng}
}

func (a *RandomAgent) Start() (float64, error) {
	if err := a.StartEpisode(); err != nil {
		return 0, err
	}
	return a.step(), nil
}

func (a *RandomAgent) Step() (float64, error) {
	if err := a.StepEpisode(); err != nil {
		return 0, err
	}
	return a.step(), nil
}

func (a *RandomAgent) End() error { return a.EndEpisode() }

func (a *RandomAgent) Reset() { a.ResetGames() }

func (a *RandomAgent) step() float64 {
	legal := a.Selected().LegalActions()
	action := legal[a.rng.Intn(len(legal))]
	return a.Act(action)
}
