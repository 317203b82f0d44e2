package agent

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/ale-agents/uctdyna/internal/settings"
	"github.com/ale-agents/uctdyna/pkg/ale"
	"github.com/ale-agents/uctdyna/pkg/features"
	"github.com/ale-agents/uctdyna/pkg/sarsa"
)

// RAMAgent learns by Sarsa(0) over sparse binary features extracted from
// the current game's RAM.
type RAMAgent struct {
	*Shell
	extractor *features.Extractor
	learner   *sarsa.Learner
	featBuf   []int

	lastStepReward float64

	exportFunction bool
	exportRoute    string
}

// sarsaConfigFromSettings reads the generic lfa_* keys (shared with
// DynaAgent — both inherit the same LFAMethod settings contract) plus
// the sarsa_* keys, for RAMAgent and RAMIncrementalAgent.
func sarsaConfigFromSettings(cfg *settings.Settings) (sarsa.Config, error) {
	alpha, err := cfg.GetFloat("sarsa_alpha")
	if err != nil {
		return sarsa.Config{}, err
	}
	epsilon, err := cfg.GetFloat("sarsa_epsilon")
	if err != nil {
		return sarsa.Config{}, err
	}
	gamma, err := cfg.GetFloat("sarsa_gamma")
	if err != nil {
		return sarsa.Config{}, err
	}
	return sarsa.Config{
		Alpha:          alpha,
		Epsilon:        epsilon,
		Gamma:          gamma,
		Normalize:      cfg.GetBoolDefault("lfa_normalize"),
		OptimisticInit: cfg.GetBoolDefault("lfa_optimistic_initialization"),
		PolicyFrozen:   cfg.GetBoolDefault("lfa_policy_frozen"),
	}, nil
}

// NewRAMAgent constructs a RAMAgent from its settings.
func NewRAMAgent(shell *Shell, cfg *settings.Settings, rng *rand.Rand) (*RAMAgent, error) {
	sarsaCfg, err := sarsaConfigFromSettings(cfg)
	if err != nil {
		return nil, err
	}
	learner := sarsa.New(sarsaCfg, shell.NumActions(), features.NumFeatures, rng)

	if cfg.GetBoolDefault("lfa_import_function") {
		route, err := cfg.GetString("lfa_import_route")
		if err != nil {
			return nil, err
		}
		if err := learner.Table().LoadFile(route); err != nil {
			return nil, err
		}
	}

	a := &RAMAgent{Shell: shell, extractor: features.NewExtractor(), learner: learner}
	a.exportFunction = cfg.GetBoolDefault("lfa_export_function")
	if a.exportFunction {
		route, err := cfg.GetString("lfa_export_route")
		if err != nil {
			return nil, err
		}
		a.exportRoute = route
	}
	return a, nil
}

func (a *RAMAgent) currentFeatures() []int {
	ram := a.Selected().RAM()
	a.featBuf = a.extractor.Extract(ram, a.featBuf)
	return a.featBuf
}

func (a *RAMAgent) Start() (float64, error) {
	if err := a.StartEpisode(); err != nil {
		return 0, err
	}
	action := a.learner.EpisodeStart(a.currentFeatures())
	a.lastStepReward = a.Act(ale.Action(action))
	return a.lastStepReward, nil
}

func (a *RAMAgent) Step() (float64, error) {
	if err := a.StepEpisode(); err != nil {
		return 0, err
	}
	action, err := a.learner.EpisodeStep(a.lastStepReward, a.currentFeatures())
	if err != nil {
		return 0, err
	}
	a.lastStepReward = a.Act(ale.Action(action))
	return a.lastStepReward, nil
}

func (a *RAMAgent) End() error {
	if err := a.EndEpisode(); err != nil {
		return err
	}
	if err := a.learner.EpisodeEnd(a.lastStepReward, a.FramesRemaining()); err != nil {
		return err
	}
	if a.exportFunction {
		path := filepath.Join(a.exportRoute, fmt.Sprintf("sarsa_%d.txt", a.CurrentEpisode()))
		return a.learner.Table().SaveFile(path)
	}
	return nil
}

func (a *RAMAgent) Reset() { a.ResetGames() }
