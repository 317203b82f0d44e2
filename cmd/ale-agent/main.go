// Command ale-agent drives one configured agent variant against one or
// more loaded ROMs for a fixed number of episodes, printing and/or
// exporting a per-episode score table.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/ale-agents/uctdyna/internal/agent"
	"github.com/ale-agents/uctdyna/internal/scoreio"
	"github.com/ale-agents/uctdyna/internal/settings"
	"github.com/ale-agents/uctdyna/pkg/ale"
)

// The real Arcade Learning Environment backend is an external
// collaborator this module never implements (see pkg/ale.Driver) — a
// deployment registers one with ale.RegisterDriver from its own init(),
// typically via a blank import added here.

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ale-agent config-file")
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		klog.Errorf("ale-agent: %v", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := settings.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "loading settings")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	games, err := loadGames(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeGames(games); cerr != nil {
			klog.Warningf("ale-agent: closing games: %v", cerr)
		}
	}()

	var exporter ale.FrameExporter = ale.RAMFrameExporter{}
	shell, err := agent.NewShell(cfg, games, rng, exporter)
	if err != nil {
		return errors.Wrap(err, "building agent shell")
	}

	a, err := agent.New(cfg.GetStringDefault("player_agent"), shell, cfg, rng)
	if err != nil {
		return errors.Wrap(err, "constructing player agent")
	}

	numEpisodes, err := cfg.GetInt("max_num_episodes")
	if err != nil {
		return err
	}

	printScores := cfg.GetBoolDefault("print_scores")
	exportScores := cfg.GetBoolDefault("export_scores")

	var writers []*scoreio.Writer
	if printScores {
		writers = append(writers, scoreio.New(os.Stdout, true))
	}
	if exportScores {
		route, err := cfg.GetString("export_route")
		if err != nil {
			return err
		}
		f, err := os.Create(route)
		if err != nil {
			return errors.Wrapf(err, "creating score export file %q", route)
		}
		defer f.Close()
		writers = append(writers, scoreio.New(f, false))
	}

	for _, w := range writers {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}

	for episode := 1; episode <= numEpisodes; episode++ {
		score, err := playEpisode(a)
		if err != nil {
			return errors.Wrapf(err, "episode %d", episode)
		}

		for _, w := range writers {
			if err := w.WriteEpisode(episode, score); err != nil {
				return err
			}
		}
	}

	return nil
}

func playEpisode(a agent.Agent) (float64, error) {
	score, err := a.Start()
	if err != nil {
		return 0, err
	}

	for !a.HasEnded() {
		reward, err := a.Step()
		if err != nil {
			return 0, err
		}
		score += reward
	}

	if err := a.End(); err != nil {
		return 0, err
	}
	a.Reset()
	return score, nil
}

func loadGames(cfg *settings.Settings) ([]ale.Simulator, error) {
	numGames, err := cfg.GetInt("num_games")
	if err != nil {
		return nil, err
	}
	if numGames < 1 {
		return nil, errors.New("ale-agent: at least one game must be defined")
	}

	driver := cfg.GetStringDefault("ale_driver")
	if driver == "" {
		driver = "ale"
	}

	games := make([]ale.Simulator, numGames)
	for i := 0; i < numGames; i++ {
		romKey := fmt.Sprintf("rom_file_%d", i)
		rom, err := cfg.GetString(romKey)
		if err != nil {
			return nil, err
		}
		sim, err := ale.OpenROM(driver, rom)
		if err != nil {
			return nil, errors.Wrapf(err, "loading %s", romKey)
		}
		games[i] = sim
	}
	return games, nil
}

// closingSimulator is implemented by Simulator backends that hold real
// resources (an emulator process, an open ROM handle); games that don't
// need cleanup simply don't implement it.
type closingSimulator interface {
	Close() error
}

func closeGames(games []ale.Simulator) error {
	var result *multierror.Error
	for _, g := range games {
		if c, ok := g.(closingSimulator); ok {
			if err := c.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}
