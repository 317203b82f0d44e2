package ale

import (
	"math/rand"
	"testing"
)

func makeGames(n int) []Simulator {
	games := make([]Simulator, n)
	for i := range games {
		games[i] = newCounterSim(1, 1000)
	}
	return games
}

func TestNewPoolRejectsEmpty(t *testing.T) {
	_, err := NewPool(nil, SelectRandom, SomeGameEnded, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatalf("expected an error for an empty game list")
	}
}

func TestSelectNextSingleGameShortcut(t *testing.T) {
	games := makeGames(1)
	p, err := NewPool(games, SelectRandom, SomeGameEnded, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.SelectNext(); got != games[0] {
		t.Fatalf("expected the only game to be selected")
	}
}

func TestSelectNextAscendingWrapsAndSkipsEnded(t *testing.T) {
	games := makeGames(3)
	games[1].(*counterSim).frame = 1000 // already over

	p, err := NewPool(games, SelectAscending, SomeGameEnded, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	first := p.SelectNext()
	if first != games[0] {
		t.Fatalf("expected ascending order to start at index 0")
	}
	second := p.SelectNext()
	if second != games[2] {
		t.Fatalf("expected index 1 (ended) to be skipped, got index other than 2")
	}
	third := p.SelectNext()
	if third != games[0] {
		t.Fatalf("expected ascending order to wrap back to index 0")
	}
}

func TestSelectNextDescendingWrapsAndSkipsEnded(t *testing.T) {
	games := makeGames(3)
	games[1].(*counterSim).frame = 1000 // already over

	p, err := NewPool(games, SelectDescending, SomeGameEnded, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	first := p.SelectNext()
	if first != games[2] {
		t.Fatalf("expected descending order to start at the last index")
	}
	second := p.SelectNext()
	if second != games[0] {
		t.Fatalf("expected index 1 (ended) to be skipped")
	}
}

func TestSelectRandomRestrictsToNotEndedUnderAllGamesEnd(t *testing.T) {
	games := makeGames(2)
	games[0].(*counterSim).frame = 1000 // already over

	p, err := NewPool(games, SelectRandom, AllGamesEnded, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 20; i++ {
		got := p.SelectNext()
		if got != games[1] {
			t.Fatalf("expected only the not-yet-ended game to be selectable, got a different game")
		}
	}
}

func TestHasEndedRespectsEndCondition(t *testing.T) {
	games := makeGames(2)
	games[0].(*counterSim).frame = 1000

	some, err := NewPool(games, SelectRandom, SomeGameEnded, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if !some.HasEnded() {
		t.Fatalf("expected SomeGameEnded pool to report ended once one game is over")
	}

	all, err := NewPool(games, SelectRandom, AllGamesEnded, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if all.HasEnded() {
		t.Fatalf("expected AllGamesEnded pool to not report ended while one game is still live")
	}
}

func TestParseSelectionAndEndConditionDefaults(t *testing.T) {
	if ParseSelectionMethod("ascending_order") != SelectAscending {
		t.Fatalf("expected ascending_order to parse to SelectAscending")
	}
	if ParseSelectionMethod("descending_order") != SelectDescending {
		t.Fatalf("expected descending_order to parse to SelectDescending")
	}
	if ParseSelectionMethod("whatever") != SelectRandom {
		t.Fatalf("expected unrecognized values to default to SelectRandom")
	}
	if ParseEndCondition("all_games") != AllGamesEnded {
		t.Fatalf("expected all_games to parse to AllGamesEnded")
	}
	if ParseEndCondition("some_game") != SomeGameEnded {
		t.Fatalf("expected some_game to parse to SomeGameEnded")
	}
}
