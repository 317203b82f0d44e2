package uct

import "github.com/ale-agents/uctdyna/pkg/ale"

// Node is one vertex of the UCT search tree.
type Node struct {
	action int // action that led to this node, -1 for the root
	state  ale.State
	parent *Node

	terminal bool

	visits       int
	visitsAMAF   int
	avgScore     float64
	avgScoreAMAF float64

	children         []*Node // indexed by action, once created
	unappliedActions []int
}

func newNode(action int, state ale.State, numActions int, parent *Node, terminal bool) *Node {
	n := &Node{
		action:   action,
		state:    state,
		parent:   parent,
		terminal: terminal,
	}
	if !terminal {
		n.unappliedActions = make([]int, numActions)
		for i := range n.unappliedActions {
			n.unappliedActions[i] = i
		}
	}
	return n
}

// Action returns the action that led to this node.
func (n *Node) Action() int { return n.action }

// State returns the emulator state this node represents.
func (n *Node) State() ale.State { return n.state }

// Terminal reports whether this node's state is terminal.
func (n *Node) Terminal() bool { return n.terminal }

// Visits returns the number of times this node has been backed up.
func (n *Node) Visits() int { return n.visits }

// AvgScore returns the running average backed-up value at this node.
func (n *Node) AvgScore() float64 { return n.avgScore }

// childrenCreated reports whether this node has had its children array
// populated yet (expansion happens once per node, for every action).
func (n *Node) childrenCreated() bool { return n.children != nil }

// isExpandable reports whether any action remains untried.
func (n *Node) isExpandable() bool {
	return !n.terminal && len(n.unappliedActions) > 0
}

// backup incrementally updates the running average score.
func (n *Node) backup(reward float64) {
	n.visits++
	n.avgScore += (reward - n.avgScore) / float64(n.visits)
}

// backupAMAF incrementally updates the running average AMAF score.
func (n *Node) backupAMAF(reward float64) {
	n.visitsAMAF++
	n.avgScoreAMAF += (reward - n.avgScoreAMAF) / float64(n.visitsAMAF)
}

// backupChildrenAMAF updates every child's AMAF statistics (every action
// available from this node is treated as "played" for the all-moves-as-
// first heuristic).
func (n *Node) backupChildrenAMAF(reward float64) {
	for _, c := range n.children {
		c.backupAMAF(reward)
	}
}

// amafAlpha computes the RAVE blending weight for this node as a CHILD,
// given the RAVE equivalence parameter b: max(0, (b - n_amaf) / b).
func (n *Node) amafAlpha(b int) float64 {
	alpha := (float64(b) - float64(n.visitsAMAF)) / float64(b)
	if alpha < 0 {
		return 0
	}
	return alpha
}
