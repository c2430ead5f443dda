package combat

import (
	"encoding/json"
	"fmt"

	"hexbattle/internal/config"
	"hexbattle/internal/hexgrid"
)

// DefaultMaxMS caps a headless battle that never resolves.
const DefaultMaxMS = 120_000

type SimResult struct {
	Winner           int                `json:"winner"`
	Loser            int                `json:"loser"`
	Draw             bool               `json:"draw,omitempty"`
	DurationMS       float64            `json:"duration_ms"`
	Ticks            int                `json:"ticks"`
	Events           []Event            `json:"events,omitempty"`
	DamageByUnit     map[string]float64 `json:"damage_by_unit,omitempty"`
	DamageByChampion map[string]float64 `json:"damage_by_champion,omitempty"`
	Units            []UnitSnapshot     `json:"units"`
	Meta             SimMeta            `json:"meta"`
}

type SimMeta struct {
	Board     string          `json:"board,omitempty"`
	Seed      int64           `json:"seed"`
	Mutant    string          `json:"mutant,omitempty"`
	Units     []SimUnitMeta   `json:"units"`
	Synergies [2][]SimSynergy `json:"synergies"`
	Notes     []string        `json:"notes,omitempty"`
}

type SimUnitMeta struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Team   int      `json:"team"`
	Star   int      `json:"star"`
	Col    int      `json:"col"`
	Row    int      `json:"row"`
	MaxHP  float64  `json:"max_hp"`
	Items  []string `json:"items,omitempty"`
	Traits []string `json:"traits,omitempty"`
}

type SimSynergy struct {
	Trait  string `json:"trait"`
	Units  int    `json:"units"`
	Style  int    `json:"style"`
	Active bool   `json:"active"`
}

// NewBattleFromBoard spawns every unit of board and resets the battle.
// The board's mutant and augments override opts.
func NewBattleFromBoard(board *config.BoardConfig, opts Options) (*Battle, error) {
	if board.Mutant != "" {
		opts.Mutant = board.Mutant
	}
	if len(board.Augments) > 0 {
		opts.Augments = board.Augments
	}
	b := NewBattle(opts)
	b.board = board.Name
	for _, bu := range board.Units {
		hex := hexgrid.Hex{Col: bu.Col, Row: bu.Row}
		if _, err := b.Spawn(bu.Name, hex, bu.Star, bu.Items...); err != nil {
			return nil, fmt.Errorf("board %q: %w", board.Name, err)
		}
	}
	b.Reset()
	return b, nil
}

// RunSingle steps b headless until one team is eliminated or maxMS of
// battle time passes. With record set every event is kept in the result.
func RunSingle(b *Battle, seed int64, maxMS float64, record bool) SimResult {
	var events []Event
	if record {
		prev := b.sink
		b.sink = func(ev Event) {
			events = append(events, ev)
			if prev != nil {
				prev(ev)
			}
		}
		defer func() { b.sink = prev }()
	}
	if maxMS <= 0 {
		maxMS = DefaultMaxMS
	}
	meta := b.Meta(seed)
	for b.Step() {
		if b.nowMS >= maxMS {
			break
		}
	}
	res := b.Result(meta)
	if record {
		res.Events = events
	}
	return res
}

// Result summarizes the battle as it stands. meta is usually taken with
// Meta before the first tick so it records starting positions.
func (b *Battle) Result(meta SimMeta) SimResult {
	if !b.over && b.started {
		meta.Notes = append(meta.Notes, fmt.Sprintf("stopped at %.0fms without a winner", b.nowMS))
	}
	res := SimResult{
		Winner:           NoTeam,
		Loser:            b.loser,
		DurationMS:       b.nowMS,
		Ticks:            b.ticks,
		DamageByUnit:     b.DamageDealt(),
		DamageByChampion: map[string]float64{},
		Units:            b.Snapshot().Units,
		Meta:             meta,
	}
	if b.over {
		res.Winner = 1 - b.loser
	} else {
		res.Draw = true
	}
	for id, dmg := range res.DamageByUnit {
		if u, ok := b.Unit(id); ok {
			res.DamageByChampion[u.Name] += dmg
		}
	}
	return res
}

// Meta describes the current placement, items and synergies.
func (b *Battle) Meta(seed int64) SimMeta {
	meta := SimMeta{Board: b.board, Seed: seed, Mutant: b.mutant}
	for _, u := range b.units {
		m := SimUnitMeta{
			ID: u.ID, Name: u.Name, Team: u.Team, Star: u.Star,
			Col: u.Hex.Col, Row: u.Hex.Row, MaxHP: u.HealthMax,
		}
		for _, it := range u.Items {
			m.Items = append(m.Items, it.Data.ID)
		}
		for _, t := range u.Traits {
			m.Traits = append(m.Traits, t.Name)
		}
		meta.Units = append(meta.Units, m)
	}
	for team := range b.synergies {
		for _, s := range b.synergies[team] {
			meta.Synergies[team] = append(meta.Synergies[team], SimSynergy{
				Trait: s.Trait.Name, Units: len(s.Units), Style: s.Style, Active: s.Active != nil,
			})
		}
	}
	return meta
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
