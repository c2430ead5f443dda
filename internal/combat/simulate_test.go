package combat

import (
	"encoding/json"
	"errors"
	"testing"

	"hexbattle/internal/config"
)

func duelBoard() *config.BoardConfig {
	return &config.BoardConfig{
		Name: "duel",
		Units: []config.BoardUnit{
			{Name: "Dummy", Col: 3, Row: 2, Star: 1, Items: []string{"Sword"}},
			{Name: "Archer", Col: 5, Row: 1, Star: 2},
			{Name: "Tank", Col: 3, Row: 5, Star: 1},
			{Name: "Archer", Col: 1, Row: 6, Star: 1},
		},
	}
}

func runDuel(t *testing.T, seed int64) SimResult {
	t.Helper()
	b, err := NewBattleFromBoard(duelBoard(), Options{Seed: seed, Book: NewBook(testData())})
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	return RunSingle(b, seed, 0, true)
}

func TestRunSingleProducesWinner(t *testing.T) {
	res := runDuel(t, 11)
	if res.Draw || res.Winner == NoTeam || res.Winner != 1-res.Loser {
		t.Fatalf("winner=%d loser=%d draw=%v", res.Winner, res.Loser, res.Draw)
	}
	if res.Ticks == 0 || res.DurationMS <= 0 {
		t.Fatalf("ticks=%d duration=%v", res.Ticks, res.DurationMS)
	}
	if len(res.Meta.Units) != 4 || res.Meta.Seed != 11 {
		t.Fatalf("meta=%+v", res.Meta)
	}
	var attacks, gameOver int
	for _, ev := range res.Events {
		switch ev.Type {
		case "Attack":
			attacks++
		case "GameOver":
			gameOver++
		}
	}
	if attacks == 0 || gameOver != 1 {
		t.Fatalf("attacks=%d gameOver=%d", attacks, gameOver)
	}
	total := 0.0
	for _, dmg := range res.DamageByChampion {
		total += dmg
	}
	if total <= 0 {
		t.Fatalf("no damage recorded: %v", res.DamageByChampion)
	}
}

func TestRunSingleIsDeterministic(t *testing.T) {
	a := runDuel(t, 42)
	c := runDuel(t, 42)
	if a.Winner != c.Winner || a.DurationMS != c.DurationMS || len(a.Events) != len(c.Events) {
		t.Fatalf("runs differ: %d/%v/%d vs %d/%v/%d",
			a.Winner, a.DurationMS, len(a.Events), c.Winner, c.DurationMS, len(c.Events))
	}
	for id, dmg := range a.DamageByUnit {
		if c.DamageByUnit[id] != dmg {
			t.Fatalf("unit %s damage %v vs %v", id, dmg, c.DamageByUnit[id])
		}
	}
}

func TestRunSingleStopsAtLimit(t *testing.T) {
	b, err := NewBattleFromBoard(duelBoard(), Options{Book: NewBook(testData())})
	if err != nil {
		t.Fatal(err)
	}
	res := RunSingle(b, 0, 200, false)
	if !res.Draw || res.Winner != NoTeam || len(res.Meta.Notes) == 0 {
		t.Fatalf("draw=%v winner=%d notes=%v", res.Draw, res.Winner, res.Meta.Notes)
	}
	if res.Events != nil {
		t.Fatalf("events recorded without asking")
	}
}

func TestNewBattleFromBoardRejectsUnknownChampion(t *testing.T) {
	board := duelBoard()
	board.Units = append(board.Units, config.BoardUnit{Name: "Nobody", Col: 0, Row: 0})
	_, err := NewBattleFromBoard(board, Options{Book: NewBook(testData())})
	if !errors.Is(err, config.ErrUnknownChampion) {
		t.Fatalf("err=%v, want ErrUnknownChampion", err)
	}
}

func TestBoardOverridesMutant(t *testing.T) {
	board := duelBoard()
	board.Mutant = "Voidborne"
	board.Augments = []int{1, 2, 3}
	b, err := NewBattleFromBoard(board, Options{Mutant: "Cybernetic", Book: NewBook(testData())})
	if err != nil {
		t.Fatal(err)
	}
	if b.Mutant() != "Voidborne" || b.AugmentCount() != 3 {
		t.Fatalf("mutant=%q augments=%d", b.Mutant(), b.AugmentCount())
	}
}

func TestSnapshotAndMarshal(t *testing.T) {
	b, err := NewBattleFromBoard(duelBoard(), Options{Book: NewBook(testData())})
	if err != nil {
		t.Fatal(err)
	}
	b.Step()
	snap := b.Snapshot()
	if len(snap.Units) != 4 || snap.Over {
		t.Fatalf("snapshot=%+v", snap)
	}
	var decoded Snapshot
	if err := json.Unmarshal(MarshalPretty(snap), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Units[0].HealthMax != snap.Units[0].HealthMax {
		t.Fatalf("round trip lost health")
	}
}

func TestResetDropsSummons(t *testing.T) {
	b, err := NewBattleFromBoard(duelBoard(), Options{Book: NewBook(testData())})
	if err != nil {
		t.Fatal(err)
	}
	b.Book().AddChampion(&ChampionData{Name: "Spawnling", StarLocked: 1, Stats: dummyDef("", 300, 20, 0, 0, 1).Stats})
	data, ok := b.Book().Champion("Spawnling")
	if !ok {
		t.Fatalf("added champion not found")
	}
	s := b.Summon(data, hexgridHex(0, 0), TeamAlly)
	if !s.Summoned || s.Health <= 0 || len(b.Units()) != 5 {
		t.Fatalf("summon=%+v units=%d", s, len(b.Units()))
	}
	b.Reset()
	if len(b.Units()) != 4 {
		t.Fatalf("units=%d after reset, want 4", len(b.Units()))
	}
	if _, ok := b.Unit(s.ID); ok {
		t.Fatalf("summon still indexed")
	}
}
