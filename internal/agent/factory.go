package agent

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/ale-agents/uctdyna/internal/settings"
)

// New constructs the configured Agent variant, mirroring
// PlayerAgent::createPlayerAgent's dispatch on the player_agent setting.
func New(playerAgent string, shell *Shell, cfg *settings.Settings, rng *rand.Rand) (Agent, error) {
	switch playerAgent {
	case "random_agent":
		return NewRandomAgent(shell, rng), nil
	case "single_action_agent":
		return NewSingleActionAgent(shell, cfg, rng)
	case "ram_agent":
		return NewRAMAgent(shell, cfg, rng)
	case "ram_incremental_agent":
		return NewRAMIncrementalAgent(shell, cfg, rng)
	case "search_agent":
		return NewSearchAgent(shell, cfg, rng)
	case "dyna_agent":
		return NewDynaAgent(shell, cfg, rng)
	default:
		return nil, errors.Errorf("agent: unknown player_agent %q", playerAgent)
	}
}
