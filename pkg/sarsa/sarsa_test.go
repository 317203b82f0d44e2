package sarsa

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func baseConfig() Config {
	return Config{
		Alpha:     0.1,
		Epsilon:   0.0,
		Gamma:     0.9,
		Normalize: false,
	}
}

func TestEpisodeStartReturnsGreedyWhenEpsilonZero(t *testing.T) {
	l := New(baseConfig(), 3, 4, rand.New(rand.NewSource(1)))
	a := l.EpisodeStart([]int{0, 1})
	require.Equal(t, 0, a, "all Q-values are zero, so the greedy tie-break picks the first action")
	require.Less(t, a, 3)
}

func TestEpisodeStepUpdatesWeightsTowardReward(t *testing.T) {
	cfg := baseConfig()
	l := New(cfg, 2, 4, rand.New(rand.NewSource(2)))

	action := l.EpisodeStart([]int{0})
	before := l.table.QValue(action, []int{0})

	next, err := l.EpisodeStep(1.0, []int{1})
	require.NoError(t, err)
	require.GreaterOrEqual(t, next, 0)

	after := l.table.QValue(action, []int{0})
	require.Greater(t, after, before, "a positive reward should increase Q(s,a) toward it")
}

func TestEpisodeStepRejectsNonFiniteDelta(t *testing.T) {
	cfg := baseConfig()
	cfg.OptimisticInit = true
	l := New(cfg, 2, 4, rand.New(rand.NewSource(3)))
	l.EpisodeStart([]int{0})

	// Force a NaN by corrupting a weight the next state's Q-value reads.
	l.table.Update(l.lastAction, nan(), []int{1})
	_, err := l.EpisodeStep(1.0, []int{1})
	require.Error(t, err)
}

func TestPolicyFrozenNeverUpdatesWeights(t *testing.T) {
	cfg := baseConfig()
	cfg.PolicyFrozen = true
	l := New(cfg, 2, 4, rand.New(rand.NewSource(4)))

	action := l.EpisodeStart([]int{0})
	before := l.table.QValue(action, []int{0})
	_, err := l.EpisodeStep(5.0, []int{0})
	require.NoError(t, err)
	after := l.table.QValue(action, []int{0})
	require.Equal(t, before, after)
}

func nan() float64 {
	return math.NaN()
}
