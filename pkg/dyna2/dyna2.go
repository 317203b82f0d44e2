// Package dyna2 implements the Dyna-2 two-memory linear function
// approximation architecture: a permanent memory learned across real
// episodes, and a transient memory rebuilt from scratch during each
// search phase. The first real action of an episode is chosen over the
// combined Q-value (permanent + transient); later real actions are chosen
// over the permanent Q-value.
package dyna2

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/ale-agents/uctdyna/pkg/lfa"
)

// optimisticGamma is fixed at 1.0 for Dyna-2's reward shaping,
// independent of any discount factor the search itself may use — this
// mirrors the original's getOptimisticReward(1.0, mreward) call sites.
const optimisticGamma = 1.0

// Config holds the tunables read from the settings file.
type Config struct {
	AlphaPermanent float64
	AlphaTransient float64
	EpsilonPerm    float64
	EpsilonTrans   float64
	Normalize      bool
	OptimisticInit bool
}

// Memories is the Dyna-2 permanent+transient memory pair.
type Memories struct {
	cfg Config
	rng *rand.Rand

	permanent *lfa.Table
	transient *lfa.Table
	opt       lfa.OptimisticTracker

	// actionValuesTransient holds the COMBINED Q (transient dot-product +
	// permanent Q) once computeTransientActionValue(s) has run; acting
	// policy reads this array, not the permanent one, on purpose.
	actionValuesPermanent []float64
	actionValuesTransient []float64

	lastPermanentAction int
	lastTransientAction int

	lastPermanentFeatures []int
	lastTransientFeatures []int
}

// New constructs a Memories pair for numActions over numFeatures-dimensional
// feature vectors.
func New(cfg Config, numActions, numFeatures int, rng *rand.Rand) *Memories {
	m := &Memories{
		cfg:                   cfg,
		rng:                   rng,
		permanent:             lfa.NewTable(numActions, numFeatures, cfg.Normalize),
		transient:             lfa.NewTable(numActions, numFeatures, cfg.Normalize),
		actionValuesPermanent: make([]float64, numActions),
		actionValuesTransient: make([]float64, numActions),
	}
	m.opt.Enabled = cfg.OptimisticInit
	return m
}

// Permanent exposes the permanent weight table (for load/save).
func (m *Memories) Permanent() *lfa.Table { return m.permanent }

// Transient exposes the transient weight table.
func (m *Memories) Transient() *lfa.Table { return m.transient }

// ClearPermanent zeros the permanent memory's weights.
func (m *Memories) ClearPermanent() { m.permanent.Clear() }

// ClearTransient zeros the transient memory's weights and its cached
// combined Q-values — called once per real decision, before the search
// phase (if any) populates it via StartTransient / UpdateTransient. When
// the search phase runs zero iterations, the transient weights stay zero,
// so the combined Q that EpisodeStart recomputes equals the permanent Q
// rather than carrying a stale value from a previous decision.
func (m *Memories) ClearTransient() {
	m.transient.Clear()
	for i := range m.actionValuesTransient {
		m.actionValuesTransient[i] = 0
	}
}

// EpisodeStart computes permanent Q(s,·), recomputes the COMBINED Q
// (actionValuesTransient) on the same features from the transient weights
// the most recent search phase left behind, and returns an action chosen
// epsilon-greedily over that combined Q. With all-zero transient weights
// the combined Q equals the permanent Q.
func (m *Memories) EpisodeStart(features []int) int {
	m.opt.Reset()
	m.computePermanentActionValues(features)
	m.computeTransientActionValues(features)

	action := lfa.EpsilonGreedyAction(m.rng, m.cfg.EpsilonPerm, m.actionValuesTransient)
	m.lastPermanentAction = action
	m.savePermanentFeatures(features)
	return action
}

// EpisodeStep performs one permanent-memory TD(0) update and returns the
// next action, chosen epsilon-greedily over the permanent Q-values only
// (the real-environment update target; unlike EpisodeStart, the combined
// Q is not consulted), mirroring DynaMemories::episodeStep.
func (m *Memories) EpisodeStep(reward float64, features []int) (int, error) {
	shaped := reward
	if m.cfg.OptimisticInit {
		m.opt.Observe(reward)
		shaped = m.opt.Shape(optimisticGamma, reward)
	}

	delta := shaped - m.actionValuesPermanent[m.lastPermanentAction]

	m.computePermanentActionValues(features)
	currentAction := lfa.EpsilonGreedyAction(m.rng, m.cfg.EpsilonPerm, m.actionValuesPermanent)

	delta += m.actionValuesPermanent[currentAction]
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0, errors.New("dyna2: encountered a non-finite TD error in permanent memory")
	}

	m.permanent.Update(m.lastPermanentAction, m.cfg.AlphaPermanent*delta, m.lastPermanentFeatures)
	m.savePermanentFeatures(features)
	m.lastPermanentAction = currentAction
	return m.lastPermanentAction, nil
}

// EpisodeEnd performs the terminal permanent-memory update.
func (m *Memories) EpisodeEnd(reward float64, framesRemaining int) error {
	shaped := reward
	if m.cfg.OptimisticInit {
		m.opt.Observe(reward)
		shaped = m.opt.ShapeEnd(optimisticGamma, reward, framesRemaining)
	}

	delta := shaped - m.actionValuesPermanent[m.lastPermanentAction]
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return errors.New("dyna2: encountered a non-finite TD error in permanent memory at episode end")
	}
	m.permanent.Update(m.lastPermanentAction, m.cfg.AlphaPermanent*delta, m.lastPermanentFeatures)
	return nil
}

// StartTransient initializes the transient memory's bookkeeping at the
// start of a search phase with the action/features the search begins
// simulating from.
func (m *Memories) StartTransient(action int, features []int) {
	m.lastTransientAction = action
	m.computeTransientActionValues(features)
	m.saveTransientFeatures(features)
}

// UpdateTransient performs one transient-memory TD(0) update during a
// search rollout: reward is the simulated step's reward, action is the
// action taken from the new state.
func (m *Memories) UpdateTransient(action int, features []int, reward float64) error {
	delta := reward - m.actionValuesTransient[m.lastTransientAction]

	m.computeTransientActionValues(features)
	delta += m.actionValuesTransient[action]

	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return errors.New("dyna2: encountered a non-finite TD error in transient memory")
	}

	m.transient.Update(m.lastTransientAction, m.cfg.AlphaTransient*delta, m.lastTransientFeatures)
	m.saveTransientFeatures(features)
	m.lastTransientAction = action
	return nil
}

// CombinedQValues returns the current combined (permanent+transient)
// Q-values for the given features; it does not mutate bookkeeping the way
// StartTransient / UpdateTransient do.
func (m *Memories) CombinedQValues(features []int, dst []float64) []float64 {
	if cap(dst) < len(m.actionValuesPermanent) {
		dst = make([]float64, len(m.actionValuesPermanent))
	}
	dst = dst[:len(m.actionValuesPermanent)]
	for a := range dst {
		dst[a] = m.permanent.QValue(a, features) + m.transient.QValue(a, features)
	}
	return dst
}

func (m *Memories) computePermanentActionValues(features []int) {
	m.actionValuesPermanent = m.permanent.QValues(features, m.actionValuesPermanent)
}

// computeTransientActionValues recomputes the transient dot-product for
// every action and adds the LAST COMPUTED permanent Q-value on top,
// producing the combined Q that EpisodeStart's action choice and the
// transient TD update read. This mirrors
// DynaMemories::computeTransientActionValue exactly, including its
// implicit dependency on actionValuesPermanent already being current.
func (m *Memories) computeTransientActionValues(features []int) {
	for a := range m.actionValuesTransient {
		m.actionValuesTransient[a] = m.transient.QValue(a, features) + m.actionValuesPermanent[a]
	}
}

func (m *Memories) savePermanentFeatures(features []int) {
	m.lastPermanentFeatures = append(m.lastPermanentFeatures[:0], features...)
}

func (m *Memories) saveTransientFeatures(features []int) {
	m.lastTransientFeatures = append(m.lastTransientFeatures[:0], features...)
}
