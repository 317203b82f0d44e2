package agent

import (
	"math/rand"

	"github.com/ale-agents/uctdyna/internal/settings"
	"github.com/ale-agents/uctdyna/pkg/ale"
	"github.com/ale-agents/uctdyna/pkg/uct"
)

// SearchAgent picks its action by running a fresh UCT search from the
// current real game state at every decision.
type SearchAgent struct {
	*Shell
	tree *uct.Tree
}

// NewSearchAgent constructs a SearchAgent from its settings.
func NewSearchAgent(shell *Shell, cfg *settings.Settings, rng *rand.Rand) (*SearchAgent, error) {
	uctCfg, err := uctConfigFromSettings(cfg)
	if err != nil {
		return nil, err
	}
	tree := uct.New(uctCfg, nil, shell.NumActions(), rng)
	return &SearchAgent{Shell: shell, tree: tree}, nil
}

func (a *SearchAgent) decide() ale.Action {
	state := a.Selected().Clone()
	terminal := a.Selected().GameOver()

	if !a.tree.HasRoot() || !statesEqual(state, a.tree.RootState()) {
		a.tree.InitializeSearch(state, terminal)
	}

	action := a.tree.Search()

	// Restore the state cloned above: the tree's internal rollouts and
	// expansions have left the live simulator pointed somewhere else.
	a.Selected().Restore(state)

	return ale.Action(action)
}

func (a *SearchAgent) Start() (float64, error) {
	if err := a.StartEpisode(); err != nil {
		return 0, err
	}
	a.tree.Rebind(a.Selected())
	return a.Act(a.decide()), nil
}

func (a *SearchAgent) Step() (float64, error) {
	if err := a.StepEpisode(); err != nil {
		return 0, err
	}
	return a.Act(a.decide()), nil
}

func (a *SearchAgent) End() error { return a.EndEpisode() }

func (a *SearchAgent) Reset() { a.ResetGames() }

// statesEqual reports whether two ale.State values represent the same
// checkpoint. Simulator implementations that support comparison should
// have their States implement this interface; ones that don't always
// re-initialize the search tree, which is correct but more conservative
// (never wrongly reuses a stale tree).
type comparableState interface {
	Equal(other ale.State) bool
}

func statesEqual(a, b ale.State) bool {
	if cs, ok := a.(comparableState); ok {
		return cs.Equal(b)
	}
	return false
}
