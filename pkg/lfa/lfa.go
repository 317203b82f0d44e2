// Package lfa implements linear function approximation over sparse binary
// feature vectors: a dense per-action weight table and the handful of
// numerically delicate helpers (optimistic reward shaping, normalized
// dot products, epsilon-greedy selection) shared by Sarsa and Dyna-2.
package lfa

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Table is a dense per-action weight vector, one row per action, one
// column per feature. Because feature vectors are sparse, updates and
// Q-value computation only ever touch the "on" feature columns.
type Table struct {
	NumActions  int
	NumFeatures int
	Normalize   bool
	weights     [][]float64
}

// NewTable allocates a zeroed weight table.
func NewTable(numActions, numFeatures int, normalize bool) *Table {
	w := make([][]float64, numActions)
	for a := range w {
		w[a] = make([]float64, numFeatures)
	}
	return &Table{NumActions: numActions, NumFeatures: numFeatures, Normalize: normalize, weights: w}
}

// Clear zeros every weight.
func (t *Table) Clear() {
	for a := range t.weights {
		for i := range t.weights[a] {
			t.weights[a][i] = 0
		}
	}
}

// QValue computes the dot product of action's weight row with the sparse
// feature list, normalized by the number of non-zero features when
// Normalize is set (guards against unbounded growth across many episodes).
func (t *Table) QValue(action int, activeFeatures []int) float64 {
	row := t.weights[action]
	var sum float64
	for _, f := range activeFeatures {
		sum += row[f]
	}
	if t.Normalize && len(activeFeatures) != 0 {
		sum /= float64(len(activeFeatures))
	}
	return sum
}

// QValues fills dst (resizing if needed) with the Q-value of every action.
func (t *Table) QValues(activeFeatures []int, dst []float64) []float64 {
	if cap(dst) < t.NumActions {
		dst = make([]float64, t.NumActions)
	}
	dst = dst[:t.NumActions]
	for a := 0; a < t.NumActions; a++ {
		dst[a] = t.QValue(a, activeFeatures)
	}
	return dst
}

// Update adds incr to every active-feature weight of action. With no
// eligibility traces, a TD update touches exactly the features that were
// on in the state that produced it.
func (t *Table) Update(action int, incr float64, activeFeatures []int) {
	row := t.weights[action]
	for _, f := range activeFeatures {
		row[f] += incr
	}
}

// Load reads one float per line, action-major, into the table (overwriting
// its current contents). This is the inverse of Save.
func (t *Table) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for a := 0; a < t.NumActions; a++ {
		for f := 0; f < t.NumFeatures; f++ {
			if !scanner.Scan() {
				return errors.Errorf("lfa: weight file truncated at action %d feature %d", a, f)
			}
			v, err := strconv.ParseFloat(scanner.Text(), 64)
			if err != nil {
				return errors.Wrapf(err, "lfa: malformed weight at action %d feature %d", a, f)
			}
			t.weights[a][f] = v
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "lfa: failed reading weight file")
	}
	return nil
}

// LoadFile opens path and loads weights from it.
func (t *Table) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "lfa: could not open weight file %q", path)
	}
	defer f.Close()
	return t.Load(f)
}

// Save writes one float per line, action-major.
func (t *Table) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for a := 0; a < t.NumActions; a++ {
		for f := 0; f < t.NumFeatures; f++ {
			if _, err := fmt.Fprintf(bw, "%s\n", strconv.FormatFloat(t.weights[a][f], 'g', -1, 64)); err != nil {
				return errors.Wrap(err, "lfa: failed writing weight file")
			}
		}
	}
	return errors.Wrap(bw.Flush(), "lfa: failed flushing weight file")
}

// SaveFile creates (or truncates) path and saves weights to it.
func (t *Table) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "lfa: could not create weight file %q", path)
	}
	defer f.Close()
	return t.Save(f)
}

// GreedyAction returns the index of the highest-valued action, breaking
// ties by first occurrence.
func GreedyAction(actionValues []float64) int {
	best := 0
	for a := 1; a < len(actionValues); a++ {
		if actionValues[a] > actionValues[best] {
			best = a
		}
	}
	return best
}

// EpsilonGreedyAction returns a uniformly random action with probability
// epsilon, and the greedy action otherwise.
func EpsilonGreedyAction(rng *rand.Rand, epsilon float64, actionValues []float64) int {
	if rng.Float64() <= epsilon {
		return rng.Intn(len(actionValues))
	}
	return GreedyAction(actionValues)
}

// OptimisticTracker turns raw environment rewards into the optimistically
// shaped rewards used to encourage exploration under initially-zero
// weights (Machado et al., optimistic initialization for linear Sarsa).
// The first strictly positive reward seen calibrates the scale for the
// rest of the episode (Reset clears it at each episode start).
type OptimisticTracker struct {
	Enabled bool

	seen     bool
	firstAbs float64
}

// Observe records reward as the calibration reward if this is the first
// strictly positive reward seen since the last Reset.
func (o *OptimisticTracker) Observe(reward float64) {
	if !o.seen && reward > 0.0 {
		o.seen = true
		if reward < 0 {
			reward = -reward
		}
		o.firstAbs = reward
	}
}

// Reset clears the calibration state (called at the start of an episode).
func (o *OptimisticTracker) Reset() {
	o.seen = false
	o.firstAbs = 0.0
}

// Shape transforms reward into the optimistic reward for discount gamma.
// Before any positive reward has been observed, it returns gamma-1 (a
// mild negative nudge that still lets exploration proceed).
func (o *OptimisticTracker) Shape(gamma, reward float64) float64 {
	if !o.Enabled {
		return reward
	}
	if o.seen {
		return reward/o.firstAbs + (gamma - 1.0)
	}
	return gamma - 1.0
}

// ShapeEnd applies an additional end-of-episode correction, where timeDiff
// is the number of frames remaining in the episode budget, matching
// getOptimisticRewardEnd.
func (o *OptimisticTracker) ShapeEnd(gamma, reward float64, timeDiff int) float64 {
	shaped := o.Shape(gamma, reward)
	if !o.Enabled {
		return shaped
	}
	shaped -= math.Pow(gamma, float64(timeDiff+1)) - 1.0
	return shaped
}
