package agent

import (
	"github.com/ale-agents/uctdyna/internal/settings"
	"github.com/ale-agents/uctdyna/pkg/uct"
)

// uctConfigFromSettings reads the uct_* keys shared by SearchAgent and
// DynaAgent, plus the frame-skip/reward-scaling keys the search's
// internal rollouts also need.
func uctConfigFromSettings(cfg *settings.Settings) (uct.Config, error) {
	exploreMultiplier, err := cfg.GetFloat("uct_explore_multiplier")
	if err != nil {
		return uct.Config{}, err
	}
	simsPerNode, err := cfg.GetInt("uct_simulations_per_node")
	if err != nil {
		return uct.Config{}, err
	}
	numSimulatedFrames, err := cfg.GetInt("uct_num_simulated_frames")
	if err != nil {
		return uct.Config{}, err
	}
	frameSkip, err := cfg.GetInt("frame_skip")
	if err != nil {
		return uct.Config{}, err
	}

	c := uct.Config{
		ExploreMultiplier:  exploreMultiplier,
		SimulationsPerNode: simsPerNode,
		BestChild:          uct.ParseBestChildPolicy(cfg.GetStringDefault("uct_best_child_selection_criteria")),
		NumSimulatedFrames: numSimulatedFrames,
		FramesPerAction:    frameSkip,
		UseScaledRewards:   cfg.GetBoolDefault("use_scaled_rewards"),
	}

	c.UseAMAF = cfg.GetBoolDefault("uct_use_amaf_selection")
	if c.UseAMAF {
		raveParam, err := cfg.GetInt("uct_rave_param")
		if err != nil {
			return uct.Config{}, err
		}
		c.RaveParam = raveParam
	}

	c.UseDiscountFactor = cfg.GetBoolDefault("uct_use_discount_factor")
	if c.UseDiscountFactor {
		discount, err := cfg.GetFloat("uct_discount_factor")
		if err != nil {
			return uct.Config{}, err
		}
		c.DiscountFactor = discount
	}

	return c, nil
}
