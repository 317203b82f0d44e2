package agent

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/ale-agents/uctdyna/internal/settings"
	"github.com/ale-agents/uctdyna/pkg/ale"
	"github.com/ale-agents/uctdyna/pkg/dyna2"
	"github.com/ale-agents/uctdyna/pkg/features"
	"github.com/ale-agents/uctdyna/pkg/uct"
)

// DynaAgent implements the Dyna-2 architecture: a UCT search phase that
// rebuilds transient memory from scratch by stepping the real game
// forward while repeatedly re-planning, followed by a permanent-memory
// Sarsa-like decision: the first decision of an episode is chosen over the
// combined Q-values the search leaves behind, later ones over the
// permanent Q-values.
type DynaAgent struct {
	*Shell
	extractor *features.Extractor
	memories  *dyna2.Memories
	tree      *uct.Tree
	featBuf   []int

	maxNumFramesSearch     int
	maxNumSearchIterations int
	lastStepReward         float64

	exportFunction bool
	exportRoute    string
}

// NewDynaAgent constructs a DynaAgent from its settings.
func NewDynaAgent(shell *Shell, cfg *settings.Settings, rng *rand.Rand) (*DynaAgent, error) {
	alphaP, err := cfg.GetFloat("dyna_p_alpha")
	if err != nil {
		return nil, err
	}
	alphaT, err := cfg.GetFloat("dyna_t_alpha")
	if err != nil {
		return nil, err
	}
	epsilonP, err := cfg.GetFloat("dyna_p_epsilon")
	if err != nil {
		return nil, err
	}
	epsilonT, err := cfg.GetFloat("dyna_t_epsilon")
	if err != nil {
		return nil, err
	}

	dynaCfg := dyna2.Config{
		AlphaPermanent: alphaP,
		AlphaTransient: alphaT,
		EpsilonPerm:    epsilonP,
		EpsilonTrans:   epsilonT,
		Normalize:      cfg.GetBoolDefault("lfa_normalize"),
		OptimisticInit: cfg.GetBoolDefault("lfa_optimistic_initialization"),
	}

	uctCfg, err := uctConfigFromSettings(cfg)
	if err != nil {
		return nil, err
	}

	maxFramesSearch, err := cfg.GetInt("dyna_max_frames_search")
	if err != nil {
		return nil, err
	}
	maxSearchIterations, err := cfg.GetInt("dyna_max_search_iterations")
	if err != nil {
		return nil, err
	}

	// lfa_policy_frozen is part of the shared LFA settings contract but,
	// like DynaMemories.cpp itself, Dyna-2's memory stepping never
	// branches on it (only Sarsa.cpp does) — read for config
	// compatibility and otherwise unused, same as the eligibility-trace
	// lambda knobs.
	_ = cfg.GetBoolDefault("lfa_policy_frozen")

	memories := dyna2.New(dynaCfg, shell.NumActions(), features.NumFeatures, rng)

	if cfg.GetBoolDefault("lfa_import_function") {
		route, err := cfg.GetString("lfa_import_route")
		if err != nil {
			return nil, err
		}
		if err := memories.Permanent().LoadFile(route); err != nil {
			return nil, err
		}
	}

	a := &DynaAgent{
		Shell:                  shell,
		extractor:              features.NewExtractor(),
		memories:               memories,
		tree:                   uct.New(uctCfg, nil, shell.NumActions(), rng),
		maxNumFramesSearch:     maxFramesSearch,
		maxNumSearchIterations: maxSearchIterations,
	}

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

func (a *DynaAgent) currentFeatures() []int {
	ram := a.Selected().RAM()
	a.featBuf = a.extractor.Extract(ram, a.featBuf)
	return a.featBuf
}

// search clears transient memory and runs maxNumSearchIterations rounds
// of: plan with UCT from the real current state, then actually step the
// real game forward under that plan (re-planning after every real step)
// while feeding the resulting transitions into transient memory. The
// real game is always restored to its pre-search state before
// returning, since this is planning, not acting. Called before every
// real-frame decision (both Start and Step), so transient memory never
// carries Q values across decisions.
func (a *DynaAgent) search() error {
	a.memories.ClearTransient()

	sim := a.Selected()
	initState := sim.Clone()
	terminal := sim.GameOver()

	a.tree.Rebind(sim)

	for i := 0; i < a.maxNumSearchIterations; i++ {
		initFrames := sim.FrameNumber()
		diffFrames := 0

		a.tree.InitializeSearch(initState, terminal)
		action := a.tree.Search()

		sim.Restore(initState)

		a.memories.StartTransient(action, a.currentFeatures())

		for !sim.GameOver() && diffFrames < a.maxNumFramesSearch {
			reward := a.Act(ale.Action(action))

			if sim.GameOver() {
				break
			}

			prevState := sim.Clone()
			action = a.tree.Search()
			sim.Restore(prevState)

			if err := a.memories.UpdateTransient(action, a.currentFeatures(), reward); err != nil {
				return err
			}
			diffFrames = sim.FrameNumber() - initFrames
		}

		sim.Restore(initState)
	}

	return nil
}

func (a *DynaAgent) Start() (float64, error) {
	if err := a.StartEpisode(); err != nil {
		return 0, err
	}
	a.tree.Rebind(a.Selected())

	if err := a.search(); err != nil {
		return 0, err
	}

	action := a.memories.EpisodeStart(a.currentFeatures())
	a.lastStepReward = a.Act(ale.Action(action))
	return a.lastStepReward, nil
}

func (a *DynaAgent) Step() (float64, error) {
	if err := a.StepEpisode(); err != nil {
		return 0, err
	}

	if err := a.search(); err != nil {
		return 0, err
	}

	action, err := a.memories.EpisodeStep(a.lastStepReward, a.currentFeatures())
	if err != nil {
		return 0, err
	}
	a.lastStepReward = a.Act(ale.Action(action))
	return a.lastStepReward, nil
}

func (a *DynaAgent) End() error {
	if err := a.EndEpisode(); err != nil {
		return err
	}
	if err := a.memories.EpisodeEnd(a.lastStepReward, a.FramesRemaining()); err != nil {
		return err
	}
	if a.exportFunction {
		path := filepath.Join(a.exportRoute, fmt.Sprintf("dyna_p_%d.txt", a.CurrentEpisode()))
		return a.memories.Permanent().SaveFile(path)
	}
	return nil
}

func (a *DynaAgent) Reset() { a.ResetGames() }
