package ale

import (
	"math/rand"

	"github.com/pkg/errors"
)

// SelectionMethod picks which game interface to play next when more than
// one Simulator is loaded.
type SelectionMethod int

const (
	// SelectRandom picks uniformly among games that have not ended (or
	// among all games, if the EndCondition is not AllGamesEnded).
	SelectRandom SelectionMethod = iota
	SelectAscending
	SelectDescending
)

// ParseSelectionMethod maps the settings-file string to a SelectionMethod,
// defaulting to SelectRandom for anything unrecognized (matching the
// original's "else { setRandomGameInterfaceIndex(); }" fallback).
func ParseSelectionMethod(s string) SelectionMethod {
	switch s {
	case "ascending_order":
		return SelectAscending
	case "descending_order":
		return SelectDescending
	default:
		return SelectRandom
	}
}

// EndCondition decides when HasEnded considers the whole pool finished,
// beyond the frame budget.
type EndCondition int

const (
	// SomeGameEnded is the default: the episode ends as soon as any one
	// game interface reports game over.
	SomeGameEnded EndCondition = iota
	AllGamesEnded
)

// ParseEndCondition maps the settings-file string to an EndCondition.
func ParseEndCondition(s string) EndCondition {
	if s == "all_games" {
		return AllGamesEnded
	}
	return SomeGameEnded
}

// Pool manages one or more game Simulators and which one is "selected"
// for the current episode, supporting the original's multi-game learning
// mode.
type Pool struct {
	games        []Simulator
	selection    SelectionMethod
	endCondition EndCondition
	rng          *rand.Rand

	lastIndex       int
	firstSelectDone bool
}

// NewPool wraps games (must be non-empty) with the given selection policy.
func NewPool(games []Simulator, selection SelectionMethod, end EndCondition, rng *rand.Rand) (*Pool, error) {
	if len(games) == 0 {
		return nil, errors.New("ale: at least one game must be defined")
	}
	return &Pool{games: games, selection: selection, endCondition: end, rng: rng}, nil
}

// Selected returns the currently selected Simulator, or nil before the
// first call to SelectNext.
func (p *Pool) Selected() Simulator {
	if !p.firstSelectDone {
		return nil
	}
	return p.games[p.lastIndex]
}

// SelectNext chooses the next game to play and returns it.
func (p *Pool) SelectNext() Simulator {
	if len(p.games) == 1 {
		p.lastIndex = 0
		p.firstSelectDone = true
		return p.games[0]
	}

	switch p.selection {
	case SelectAscending:
		p.selectNextAscending()
	case SelectDescending:
		p.selectNextDescending()
	default:
		p.selectRandom()
	}
	p.firstSelectDone = true
	return p.games[p.lastIndex]
}

func (p *Pool) selectRandom() {
	if p.endCondition == AllGamesEnded {
		var notEnded []int
		for i, g := range p.games {
			if !g.GameOver() {
				notEnded = append(notEnded, i)
			}
		}
		if len(notEnded) == 0 {
			p.lastIndex = p.rng.Intn(len(p.games))
			return
		}
		p.lastIndex = notEnded[p.rng.Intn(len(notEnded))]
		return
	}
	p.lastIndex = p.rng.Intn(len(p.games))
}

func (p *Pool) selectNextAscending() {
	if !p.firstSelectDone {
		p.lastIndex = 0
		return
	}
	n := len(p.games)
	p.lastIndex = (p.lastIndex + 1) % n
	for p.games[p.lastIndex].GameOver() {
		p.lastIndex = (p.lastIndex + 1) % n
	}
}

func (p *Pool) selectNextDescending() {
	if !p.firstSelectDone {
		p.lastIndex = len(p.games) - 1
		return
	}
	n := len(p.games)
	p.lastIndex = (p.lastIndex - 1 + n) % n
	for p.games[p.lastIndex].GameOver() {
		p.lastIndex = (p.lastIndex - 1 + n) % n
	}
}

// HasSomeGameEnded reports whether any pool member is in a terminal state.
func (p *Pool) HasSomeGameEnded() bool {
	for _, g := range p.games {
		if g.GameOver() {
			return true
		}
	}
	return false
}

// HaveAllGamesEnded reports whether every pool member is in a terminal state.
func (p *Pool) HaveAllGamesEnded() bool {
	for _, g := range p.games {
		if !g.GameOver() {
			return false
		}
	}
	return true
}

// HasEnded applies the pool's EndCondition.
func (p *Pool) HasEnded() bool {
	if p.endCondition == AllGamesEnded {
		return p.HaveAllGamesEnded()
	}
	return p.HasSomeGameEnded()
}

// Reset resets every game in the pool.
func (p *Pool) Reset() {
	for _, g := range p.games {
		g.Reset()
	}
}
