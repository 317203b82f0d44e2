package uct

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ale-agents/uctdyna/pkg/ale"
)

// chainState is a trivial deterministic "walk on an integer line" game:
// action 0 decrements, action 1 increments; reaching +5 gives reward 1
// and ends the episode, reaching -5 ends with reward -1.
type chainState struct {
	pos   int
	frame int
	over  bool
}

type chainSim struct {
	cur chainState
}

func newChainSim() *chainSim { return &chainSim{} }

func (c *chainSim) LegalActions() []ale.Action { return []ale.Action{0, 1} }

func (c *chainSim) Act(a ale.Action) float64 {
	if c.cur.over {
		return 0
	}
	c.cur.frame++
	if a == 0 {
		c.cur.pos--
	} else {
		c.cur.pos++
	}
	switch {
	case c.cur.pos >= 5:
		c.cur.over = true
		return 1
	case c.cur.pos <= -5:
		c.cur.over = true
		return -1
	}
	return 0
}

func (c *chainSim) GameOver() bool  { return c.cur.over }
func (c *chainSim) FrameNumber() int { return c.cur.frame }
func (c *chainSim) RAM() ale.RAM     { return ale.RAM{} }
func (c *chainSim) Clone() ale.State {
	s := c.cur
	return &s
}
func (c *chainSim) Restore(s ale.State) { c.cur = *(s.(*chainState)) }
func (c *chainSim) Reset()              { c.cur = chainState{} }

func TestSearchPrefersActionTowardPositiveReward(t *testing.T) {
	sim := newChainSim()
	cfg := Config{
		ExploreMultiplier:  0.75,
		SimulationsPerNode: 200,
		NumSimulatedFrames: 10,
		FramesPerAction:    1,
	}
	tree := New(cfg, sim, 2, rand.New(rand.NewSource(42)))
	tree.InitializeSearch(sim.Clone(), sim.GameOver())

	action := tree.Search()
	require.Equal(t, 1, action, "action 1 (increment) leads toward the positive-reward terminal")
}

func TestRerootPreservesChosenSubtree(t *testing.T) {
	sim := newChainSim()
	cfg := Config{
		ExploreMultiplier:  0.75,
		SimulationsPerNode: 50,
		NumSimulatedFrames: 5,
		FramesPerAction:    1,
	}
	tree := New(cfg, sim, 2, rand.New(rand.NewSource(1)))
	tree.InitializeSearch(sim.Clone(), sim.GameOver())

	action := tree.Search()
	require.NotNil(t, tree.root)
	require.Nil(t, tree.root.parent, "re-rooted node must have no parent")
	require.Equal(t, action, tree.root.action)
}

func TestRobustChildPolicyPicksMostVisited(t *testing.T) {
	sim := newChainSim()
	cfg := Config{
		ExploreMultiplier:  0.75,
		SimulationsPerNode: 100,
		NumSimulatedFrames: 8,
		FramesPerAction:    1,
		BestChild:          RobustChild,
	}
	tree := New(cfg, sim, 2, rand.New(rand.NewSource(7)))
	tree.InitializeSearch(sim.Clone(), sim.GameOver())
	root := tree.root

	action := tree.Search()
	require.GreaterOrEqual(t, action, 0)
	require.Less(t, action, 2)
	for _, c := range root.children {
		require.LessOrEqual(t, c.visits, root.children[action].visits)
	}
}

func TestAMAFSelectionRuns(t *testing.T) {
	sim := newChainSim()
	cfg := Config{
		ExploreMultiplier:  0.75,
		SimulationsPerNode: 60,
		NumSimulatedFrames: 8,
		FramesPerAction:    1,
		UseAMAF:            true,
		RaveParam:          50,
	}
	tree := New(cfg, sim, 2, rand.New(rand.NewSource(9)))
	tree.InitializeSearch(sim.Clone(), sim.GameOver())

	action := tree.Search()
	require.GreaterOrEqual(t, action, 0)
}

func TestDiscountFactorRuns(t *testing.T) {
	sim := newChainSim()
	cfg := Config{
		ExploreMultiplier:  0.75,
		SimulationsPerNode: 60,
		NumSimulatedFrames: 8,
		FramesPerAction:    1,
		UseDiscountFactor:  true,
		DiscountFactor:     0.95,
	}
	tree := New(cfg, sim, 2, rand.New(rand.NewSource(3)))
	tree.InitializeSearch(sim.Clone(), sim.GameOver())

	action := tree.Search()
	require.GreaterOrEqual(t, action, 0)
}

func TestParseBestChildPolicy(t *testing.T) {
	require.Equal(t, RobustChild, ParseBestChildPolicy("robust_child"))
	require.Equal(t, MaxChild, ParseBestChildPolicy("max_child"))
	require.Equal(t, MaxChild, ParseBestChildPolicy("anything_else"))
}
