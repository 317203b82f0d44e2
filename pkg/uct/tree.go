// Package uct implements Monte Carlo Tree Search with UCB1 (optionally
// blended with an AMAF/RAVE estimate) over an ale.Simulator, as a
// single-threaded per-decision planner.
package uct

import (
	"math/rand"

	"github.com/ale-agents/uctdyna/pkg/ale"
)

// BestChildPolicy selects the action returned by a completed search.
type BestChildPolicy int

const (
	// MaxChild picks the child with the highest selection value (UCB1, or
	// UCB1 blended with AMAF when UseAMAF is set) with the exploration
	// term set to zero.
	MaxChild BestChildPolicy = iota
	// RobustChild picks the most-visited child.
	RobustChild
)

// ParseBestChildPolicy maps the settings-file string, defaulting to
// MaxChild for anything unrecognized (matching the original's "else //
// default" branch).
func ParseBestChildPolicy(s string) BestChildPolicy {
	if s == "robust_child" {
		return RobustChild
	}
	return MaxChild
}

// Config holds the search's tunables.
type Config struct {
	ExploreMultiplier  float64
	SimulationsPerNode int
	BestChild          BestChildPolicy
	NumSimulatedFrames int
	UseAMAF            bool
	RaveParam          int
	UseDiscountFactor  bool
	DiscountFactor     float64
	FramesPerAction    int
	UseScaledRewards   bool
}

// Tree is a UCT search tree bound to one Simulator.
type Tree struct {
	cfg        Config
	sim        ale.Simulator
	numActions int
	rng        *rand.Rand

	root *Node
}

// New constructs a Tree over sim with numActions legal actions.
func New(cfg Config, sim ale.Simulator, numActions int, rng *rand.Rand) *Tree {
	return &Tree{cfg: cfg, sim: sim, numActions: numActions, rng: rng}
}

// Rebind points the tree at a different Simulator instance (e.g. after
// the agent shell selects a new game for the next episode), discarding
// any existing root.
func (t *Tree) Rebind(sim ale.Simulator) {
	t.sim = sim
	t.root = nil
}

// RootState returns the current root's state.
func (t *Tree) RootState() ale.State { return t.root.state }

// HasRoot reports whether InitializeSearch has been called.
func (t *Tree) HasRoot() bool { return t.root != nil }

// InitializeSearch (re)creates the tree root from scratch at state. Used
// whenever the live game has diverged from the tree's notion of the
// current state (e.g. the first decision of an episode).
func (t *Tree) InitializeSearch(state ale.State, terminal bool) {
	t.root = newNode(-1, state, t.numActions, nil, terminal)
}

// Search runs SimulationsPerNode tree-policy/rollout/backup cycles from
// the current root, then re-roots the tree at the best child and returns
// the action that led to it.
func (t *Tree) Search() int {
	for i := 0; i < t.cfg.SimulationsPerNode; i++ {
		node := t.treePolicy()
		reward := t.defaultPolicy(node)
		t.backup(node, reward)
	}

	best := t.selectBestRootChild()
	action := best.action
	t.reroot(best)
	return action
}

func (t *Tree) treePolicy() *Node {
	node := t.root
	for !node.terminal {
		if node.isExpandable() {
			node = t.expand(node)
			break
		}
		node = t.selectFromNode(node, t.cfg.ExploreMultiplier)
	}
	return node
}

func (t *Tree) selectFromNode(node *Node, exploreMultiplier float64) *Node {
	if t.cfg.UseAMAF {
		return node.selectMaxChildAMAF(exploreMultiplier, t.cfg.RaveParam)
	}
	return node.selectMaxChild(exploreMultiplier)
}

func (t *Tree) expand(node *Node) *Node {
	if !node.childrenCreated() {
		t.createChildren(node)
	}

	idx := t.rng.Intn(len(node.unappliedActions))
	action := node.unappliedActions[idx]
	node.unappliedActions = append(node.unappliedActions[:idx], node.unappliedActions[idx+1:]...)

	return node.children[action]
}

func (t *Tree) createChildren(node *Node) {
	node.children = make([]*Node, t.numActions)
	for a := 0; a < t.numActions; a++ {
		result := ale.OneStepSimulation(t.sim, node.state, ale.Action(a), t.cfg.FramesPerAction, t.cfg.UseScaledRewards)
		// The immediate reward of this transition is intentionally not
		// stored on the child: node values are driven entirely by the
		// default-policy rollout backed up from wherever the tree policy
		// eventually lands, not by per-edge reward.
		node.children[a] = newNode(a, result.NewState, t.numActions, node, result.IsTerminal)
	}
}

func (t *Tree) defaultPolicy(node *Node) float64 {
	return rollout(t.sim, node.state, t.cfg.NumSimulatedFrames, t.cfg.FramesPerAction, t.cfg.UseScaledRewards, t.rng)
}

func (t *Tree) backup(simNode *Node, reward float64) {
	node := simNode
	mult := 1.0
	for node != nil {
		parent := node.parent

		backedUp := reward
		if t.cfg.UseDiscountFactor {
			backedUp *= mult
		}

		node.backup(backedUp)

		if t.cfg.UseAMAF {
			node.backupChildrenAMAF(backedUp)
			// Intentional: only the root updates its own AMAF statistics
			// here; every other node receives its AMAF update as a child
			// of its parent in the line above.
			if parent == nil {
				node.backupAMAF(backedUp)
			}
		}

		if t.cfg.UseDiscountFactor {
			mult *= t.cfg.DiscountFactor
		}
		node = parent
	}
}

func (t *Tree) selectBestRootChild() *Node {
	switch t.cfg.BestChild {
	case RobustChild:
		return t.root.selectRobustChild()
	default:
		return t.selectFromNode(t.root, 0.0)
	}
}

// reroot discards every subtree except child's, then makes child the new
// root (with no parent). Apart from InitializeSearch and Rebind, which
// replace the whole tree, this is the only place nodes are dropped: UCT
// never needs to revisit a state it has moved past.
func (t *Tree) reroot(child *Node) {
	child.parent = nil
	t.root = child
}
