// Package sarsa implements on-policy TD(0) control with linear function
// approximation over sparse binary features, one weight row per action.
package sarsa

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/ale-agents/uctdyna/pkg/lfa"
)

// Config holds the tunables read from the settings file.
type Config struct {
	Alpha          float64
	Epsilon        float64
	Gamma          float64
	Normalize      bool
	OptimisticInit bool
	PolicyFrozen   bool
}

// Learner is a single Sarsa(0) learner over a fixed action set.
type Learner struct {
	cfg    Config
	table  *lfa.Table
	opt    lfa.OptimisticTracker
	rng    *rand.Rand
	values []float64

	lastAction   int
	lastFeatures []int
}

// New constructs a Learner for numActions over numFeatures-dimensional
// feature vectors.
func New(cfg Config, numActions, numFeatures int, rng *rand.Rand) *Learner {
	l := &Learner{
		cfg:    cfg,
		table:  lfa.NewTable(numActions, numFeatures, cfg.Normalize),
		rng:    rng,
		values: make([]float64, numActions),
	}
	l.opt.Enabled = cfg.OptimisticInit
	return l
}

// Table exposes the underlying weight table (for load/save and Dyna reuse).
func (l *Learner) Table() *lfa.Table { return l.table }

// EpisodeStart computes Q(s,·) for the starting state and returns the
// first action, recording it (and the features, unless the policy is
// frozen) for the subsequent step.
func (l *Learner) EpisodeStart(features []int) int {
	l.opt.Reset()
	l.values = l.table.QValues(features, l.values)

	var action int
	if l.cfg.PolicyFrozen {
		action = lfa.GreedyAction(l.values)
	} else {
		action = lfa.EpsilonGreedyAction(l.rng, l.cfg.Epsilon, l.values)
		l.saveFeatures(features)
	}
	l.lastAction = action
	return action
}

// EpisodeStep performs one TD(0) update from the pending (state, action)
// to the newly observed reward and features, returning the next action.
func (l *Learner) EpisodeStep(reward float64, features []int) (int, error) {
	if l.cfg.PolicyFrozen {
		l.values = l.table.QValues(features, l.values)
		l.lastAction = lfa.GreedyAction(l.values)
		return l.lastAction, nil
	}

	shaped := reward
	if l.cfg.OptimisticInit {
		l.opt.Observe(reward)
		shaped = l.opt.Shape(l.cfg.Gamma, reward)
	}

	delta := shaped - l.values[l.lastAction]

	nextAction := l.nextAction(features)

	delta += l.cfg.Gamma * l.values[nextAction]

	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0, errors.New("sarsa: encountered a non-finite TD error")
	}

	l.table.Update(l.lastAction, l.cfg.Alpha*delta, l.lastFeatures)

	l.saveFeatures(features)
	l.lastAction = nextAction
	return l.lastAction, nil
}

// EpisodeEnd performs the terminal TD(0) update (no next action exists).
// framesRemaining is the number of frames left in the episode budget at
// termination, used to scale the optimistic end-of-episode correction.
func (l *Learner) EpisodeEnd(reward float64, framesRemaining int) error {
	if l.cfg.PolicyFrozen {
		return nil
	}

	shaped := reward
	if l.cfg.OptimisticInit {
		l.opt.Observe(reward)
		shaped = l.opt.ShapeEnd(l.cfg.Gamma, reward, framesRemaining)
	}

	delta := shaped - l.values[l.lastAction]
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return errors.New("sarsa: encountered a non-finite TD error at episode end")
	}
	l.table.Update(l.lastAction, l.cfg.Alpha*delta, l.lastFeatures)
	return nil
}

// nextAction picks the action epsilon-greedily, updating only the
// touched Q-value(s) (matching the original's single-action recompute on
// the exploratory branch).
func (l *Learner) nextAction(features []int) int {
	if l.rng.Float64() <= l.cfg.Epsilon {
		a := l.rng.Intn(len(l.values))
		l.values[a] = l.table.QValue(a, features)
		return a
	}
	l.values = l.table.QValues(features, l.values)
	return lfa.GreedyAction(l.values)
}

func (l *Learner) saveFeatures(features []int) {
	l.lastFeatures = append(l.lastFeatures[:0], features...)
}
