package agent

import (
	"math/rand"

	"github.com/ale-agents/uctdyna/internal/settings"
	"github.com/ale-agents/uctdyna/pkg/features"
)

// RAMIncrementalAgent is a RAMAgent whose feature space is revealed in
// stages: features are partitioned into groups, all but one group start
// masked out (null), and one additional group is unmasked every
// numFeatureChangeEpisodes episodes until all of them are active.
type RAMIncrementalAgent struct {
	*RAMAgent

	featureGroups       [][]int
	nullGroups          map[int]struct{}
	changeEveryEpisodes int
	elapsedEpisodes     int
	rng                 *rand.Rand
}

// NewRAMIncrementalAgent constructs a RAMIncrementalAgent from its settings.
func NewRAMIncrementalAgent(shell *Shell, cfg *settings.Settings, rng *rand.Rand) (*RAMIncrementalAgent, error) {
	ramAgent, err := NewRAMAgent(shell, cfg, rng)
	if err != nil {
		return nil, err
	}

	numGroups, err := cfg.GetInt("num_feature_groups")
	if err != nil {
		return nil, err
	}
	changeEvery, err := cfg.GetInt("num_feature_change_episodes")
	if err != nil {
		return nil, err
	}

	a := &RAMIncrementalAgent{
		RAMAgent:            ramAgent,
		changeEveryEpisodes: changeEvery,
		rng:                 rng,
	}
	a.createFeatureGroups(numGroups)
	a.createNullGroups(numGroups)
	return a, nil
}

func (a *RAMIncrementalAgent) createFeatureGroups(numGroups int) {
	a.featureGroups = make([][]int, numGroups)
	numFeaturesPerGroup := features.NumFeatures / numGroups

	for i := 0; i < features.NumFeatures; i++ {
		group := a.groupForFeature(numFeaturesPerGroup)
		a.featureGroups[group] = append(a.featureGroups[group], i)
	}
}

// groupForFeature picks a group that hasn't yet reached its even share,
// falling back to any group once an even split is no longer possible
// (the feature count doesn't divide evenly by the group count).
func (a *RAMIncrementalAgent) groupForFeature(numFeaturesPerGroup int) int {
	var candidates []int
	for i, g := range a.featureGroups {
		if len(g) < numFeaturesPerGroup {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return a.rng.Intn(len(a.featureGroups))
	}
	return candidates[a.rng.Intn(len(candidates))]
}

func (a *RAMIncrementalAgent) createNullGroups(numGroups int) {
	a.nullGroups = make(map[int]struct{}, numGroups)
	for i := 0; i < numGroups; i++ {
		a.nullGroups[i] = struct{}{}
	}
}

// removeRandomNullGroup reveals one currently-masked group, picked at random.
func (a *RAMIncrementalAgent) removeRandomNullGroup() {
	if len(a.nullGroups) == 0 {
		return
	}
	ids := make([]int, 0, len(a.nullGroups))
	for id := range a.nullGroups {
		ids = append(ids, id)
	}
	delete(a.nullGroups, ids[a.rng.Intn(len(ids))])
}

func (a *RAMIncrementalAgent) applyNullFeatures() {
	a.extractor.ClearNullFeatures()
	for group := range a.nullGroups {
		for _, feature := range a.featureGroups[group] {
			a.extractor.AddNullFeature(feature)
		}
	}
}

func (a *RAMIncrementalAgent) Start() (float64, error) {
	if a.elapsedEpisodes == 0 || a.elapsedEpisodes == a.changeEveryEpisodes {
		a.removeRandomNullGroup()
		a.applyNullFeatures()
		a.elapsedEpisodes = 0
	}
	return a.RAMAgent.Start()
}

func (a *RAMIncrementalAgent) End() error {
	if err := a.RAMAgent.End(); err != nil {
		return err
	}
	a.elapsedEpisodes++
	return nil
}
