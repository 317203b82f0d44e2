package agent

import (
	"math/rand"

	"github.com/ale-agents/uctdyna/internal/settings"
	"github.com/ale-agents/uctdyna/pkg/ale"
)

// SingleActionAgent takes one fixed action with probability 1-epsilon, and
// a uniformly random legal action with probability epsilon.
type SingleActionAgent struct {
	*Shell
	rng     *rand.Rand
	epsilon float64
	action  ale.Action
}

// NewSingleActionAgent constructs a SingleActionAgent from its settings.
func NewSingleActionAgent(shell *Shell, cfg *settings.Settings, rng *rand.Rand) (*SingleActionAgent, error) {
	epsilon, err := cfg.GetFloat("agent_epsilon")
	if err != nil {
		return nil, err
	}
	actionVal, err := cfg.GetInt("agent_action")
	if err != nil {
		return nil, err
	}
	return &SingleActionAgent{Shell: shell, rng: rng, epsilon: epsilon, action: ale.Action(actionVal)}, nil
}

func (a *SingleActionAgent) Start() (float64, error) {
	if err := a.StartEpisode(); err != nil {
		return 0, err
	}
	return a.Act(a.nextAction()), nil
}

func (a *SingleActionAgent) Step() (float64, error) {
	if err := a.StepEpisode(); err != nil {
		return 0, err
	}
	return a.Act(a.nextAction()), nil
}

func (a *SingleActionAgent) End() error { return a.EndEpisode() }

func (a *SingleActionAgent) Reset() { a.ResetGames() }

func (a *SingleActionAgent) nextAction() ale.Action {
	if a.rng.Float64() <= a.epsilon {
		legal := a.Selected().LegalActions()
		return legal[a.rng.Intn(len(legal))]
	}
	return a.action
}
