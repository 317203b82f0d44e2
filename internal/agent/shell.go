// Package agent implements the player-agent variants (random, fixed-action,
// Sarsa over RAM features, incremental-feature Sarsa, UCT search and
// Dyna-2) on top of the algorithm packages, plus the bookkeeping shell
// shared by all of them: game selection, frame/episode budgets, reward
// scaling and frame export.
package agent

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/ale-agents/uctdyna/internal/settings"
	"github.com/ale-agents/uctdyna/pkg/ale"
)

// Agent is the uniform interface the outer episode loop (cmd/ale-agent)
// drives, regardless of which decision-making variant is configured.
type Agent interface {
	// Start begins a new episode: selects a game, makes the first
	// decision and returns the reward it earned.
	Start() (float64, error)
	// Step advances the episode by one decision.
	Step() (float64, error)
	// End finalizes the episode (e.g. a final learning update, exporting
	// a weight file).
	End() error
	// Reset resets every game interface for the next episode.
	Reset()
	// HasEnded reports whether the current episode is over.
	HasEnded() bool
	// CurrentEpisode returns the 0-based number of episodes completed so far.
	CurrentEpisode() int
}

// Shell carries state common to every agent variant. It mirrors the
// non-virtual bookkeeping of the original base agent type: which game is
// selected, how many frames have elapsed, reward scaling and frame
// export. Each variant embeds a Shell and adds its own decision policy.
type Shell struct {
	pool       *ale.Pool
	numActions int

	maxNumFramesPerEpisode int
	numFramesPerAction     int
	currentEpisodeFrame    int
	currentEpisode         int

	useScaledRewards bool

	exportFrameImages bool
	exportRoute       string
	exporter          ale.FrameExporter
}

// NewShell builds a Shell from a loaded settings file and the already
// constructed game Simulators (one per configured ROM).
func NewShell(cfg *settings.Settings, games []ale.Simulator, rng *rand.Rand, exporter ale.FrameExporter) (*Shell, error) {
	selection := ale.ParseSelectionMethod(cfg.GetStringDefault("game_selection_method"))
	end := ale.ParseEndCondition(cfg.GetStringDefault("agent_end_method"))

	pool, err := ale.NewPool(games, selection, end, rng)
	if err != nil {
		return nil, err
	}

	maxFrames, err := cfg.GetInt("max_num_frames_per_episode")
	if err != nil {
		return nil, err
	}
	frameSkip, err := cfg.GetInt("frame_skip")
	if err != nil {
		return nil, err
	}

	s := &Shell{
		pool:                   pool,
		numActions:             len(games[0].LegalActions()),
		maxNumFramesPerEpisode: maxFrames,
		numFramesPerAction:     frameSkip,
		useScaledRewards:       cfg.GetBoolDefault("use_scaled_rewards"),
		exportFrameImages:      cfg.GetBoolDefault("export_frame_images"),
		exporter:               exporter,
	}

	if s.exportFrameImages {
		route, err := cfg.GetString("export_frame_images_route")
		if err != nil {
			return nil, err
		}
		s.exportRoute = route
	}

	return s, nil
}

// NumActions returns the number of legal actions shared by every game in
// the pool (the original assumes all loaded ROMs expose the same set).
func (s *Shell) NumActions() int { return s.numActions }

// Selected returns the currently selected game.
func (s *Shell) Selected() ale.Simulator { return s.pool.Selected() }

// Act applies action with the configured frame-skip and reward scaling.
func (s *Shell) Act(action ale.Action) float64 {
	return ale.ActWithSkip(s.pool.Selected(), action, s.numFramesPerAction, s.useScaledRewards)
}

// StartEpisode selects the next game and resets the frame counter, ready
// for the variant to make its first decision.
func (s *Shell) StartEpisode() error {
	s.pool.SelectNext()
	s.currentEpisodeFrame = 0
	return s.maybeExportFrame()
}

// StepEpisode advances the frame counter by one decision's worth of
// frames.
func (s *Shell) StepEpisode() error {
	s.currentEpisodeFrame += s.numFramesPerAction
	return s.maybeExportFrame()
}

// EndEpisode advances the episode counter.
func (s *Shell) EndEpisode() error {
	s.currentEpisode++
	return s.maybeExportFrame()
}

// ResetGames resets every game in the pool for the next episode.
func (s *Shell) ResetGames() { s.pool.Reset() }

// HasEnded reports whether the episode frame budget or the pool's end
// condition has been reached.
func (s *Shell) HasEnded() bool {
	if s.maxNumFramesPerEpisode > 0 && s.currentEpisodeFrame >= s.maxNumFramesPerEpisode {
		return true
	}
	return s.pool.HasEnded()
}

// CurrentEpisode returns the number of episodes completed so far.
func (s *Shell) CurrentEpisode() int { return s.currentEpisode }

// CurrentEpisodeFrame returns the number of frames elapsed in the
// current episode.
func (s *Shell) CurrentEpisodeFrame() int { return s.currentEpisodeFrame }

// MaxNumFramesPerEpisode returns the configured per-episode frame budget
// (0 or negative means unbounded).
func (s *Shell) MaxNumFramesPerEpisode() int { return s.maxNumFramesPerEpisode }

// FramesRemaining returns how many frames remain in the episode's
// budget, used to scale Sarsa/Dyna's end-of-episode optimistic
// correction.
func (s *Shell) FramesRemaining() int {
	return s.maxNumFramesPerEpisode - s.currentEpisodeFrame
}

func (s *Shell) maybeExportFrame() error {
	if !s.exportFrameImages {
		return nil
	}
	name := fmt.Sprintf("%06d.png", s.Selected().FrameNumber())
	return s.exporter.ExportFrame(s.Selected(), filepath.Join(s.exportRoute, name))
}
