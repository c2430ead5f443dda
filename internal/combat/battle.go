package combat

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"hexbattle/internal/config"
	"hexbattle/internal/hexgrid"
	"hexbattle/internal/util"
)

type Options struct {
	Seed     int64
	Logger   *zap.Logger
	Registry *Registry
	Book     *Book
	// Mutant selects the mutation the Mutant trait runs with.
	Mutant     string
	Augments   []int
	Emit       func(Event)
	Pathfinder Pathfinder
}

// Battle holds everything one simulated fight needs. It is not safe for
// concurrent use; run separate battles on separate goroutines.
type Battle struct {
	log   *zap.Logger
	rng   *rand.Rand
	reg   *Registry
	book  *Book
	paths Pathfinder
	sink  func(Event)

	board    string
	mutant   string
	augments []int

	units       []*Unit
	byID        map[string]*Unit
	nextID      int
	synergies   [2][]Synergy
	hexEffects  []*HexEffect
	projectiles []*Projectile
	cooldowns   map[string]float64
	damageDealt map[string]float64

	nowMS           float64
	diffMS          float64
	ticks           int
	started         bool
	didBacklineJump bool
	over            bool
	loser           int

	// OnGameOver is called once with the losing team.
	OnGameOver func(losingTeam int)
}

func NewBattle(opts Options) *Battle {
	b := &Battle{
		log:         opts.Logger,
		rng:         util.New(opts.Seed),
		reg:         opts.Registry,
		book:        opts.Book,
		paths:       opts.Pathfinder,
		sink:        opts.Emit,
		mutant:      opts.Mutant,
		augments:    append([]int(nil), opts.Augments...),
		byID:        map[string]*Unit{},
		cooldowns:   map[string]float64{},
		damageDealt: map[string]float64{},
		loser:       NoTeam,
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	if b.reg == nil {
		b.reg = NewRegistry()
	}
	if b.book == nil {
		b.book = NewBook(nil)
	}
	if b.paths == nil {
		b.paths = NewBFSPathfinder()
	}
	return b
}

func (b *Battle) Logger() *zap.Logger { return b.log }
func (b *Battle) Rand() *rand.Rand    { return b.rng }
func (b *Battle) Book() *Book         { return b.book }
func (b *Battle) Mutant() string      { return b.mutant }
func (b *Battle) AugmentCount() int   { return len(b.augments) }

// Now is the current battle time in milliseconds.
func (b *Battle) Now() float64 { return b.nowMS }

func (b *Battle) Over() bool { return b.over }

// Loser is the losing team, or NoTeam while the battle runs.
func (b *Battle) Loser() int { return b.loser }

func (b *Battle) emit(typ string, payload map[string]any) {
	if b.sink != nil {
		b.sink(Event{T: b.nowMS, Type: typ, Payload: payload})
	}
}

// Spawn places a champion by name. Star 0 means 1.
func (b *Battle) Spawn(name string, hex hexgrid.Hex, star int, items ...string) (*Unit, error) {
	data, ok := b.book.Champion(name)
	if !ok {
		return nil, fmt.Errorf("spawn %q: %w", name, config.ErrUnknownChampion)
	}
	if !hexgrid.InBounds(hex) {
		return nil, fmt.Errorf("spawn %q at %v: %w", name, hex, config.ErrBadPlacement)
	}
	return b.AddUnit(data, hex, star, items...), nil
}

// AddUnit inserts a unit built from data. Units act in insertion order.
func (b *Battle) AddUnit(data *ChampionData, hex hexgrid.Hex, star int, items ...string) *Unit {
	b.nextID++
	u := newUnit(b, fmt.Sprintf("c%d", b.nextID), data, hex, star, items)
	b.units = append(b.units, u)
	b.byID[u.ID] = u
	return u
}

// Summon adds a unit mid-battle on team's side and readies it at once.
func (b *Battle) Summon(data *ChampionData, hex hexgrid.Hex, team int) *Unit {
	u := b.AddUnit(data, hex, data.StarLocked)
	u.Team = team
	u.Summoned = true
	u.reset()
	u.finishReset()
	b.invalidatePaths()
	b.emit("Spawn", u.spawnPayload())
	return u
}

func (b *Battle) Units() []*Unit { return b.units }

// Unit looks a unit up by id, dead ones included.
func (b *Battle) Unit(id string) (*Unit, bool) {
	u, ok := b.byID[id]
	return u, ok
}

func (b *Battle) AliveUnitsOfTeam(team int) []*Unit {
	var out []*Unit
	for _, u := range b.units {
		if !u.Dead && (team == NoTeam || u.Team == team) {
			out = append(out, u)
		}
	}
	return out
}

func (b *Battle) AttackableUnitsOfTeam(team int) []*Unit {
	var out []*Unit
	for _, u := range b.units {
		if u.IsAttackable() && (team == NoTeam || u.Team == team) {
			out = append(out, u)
		}
	}
	return out
}

func (b *Battle) invalidatePaths() { b.paths.Invalidate() }

// dropTargetsOn clears every unit's target pointing at u.
func (b *Battle) dropTargetsOn(u *Unit) {
	for _, o := range b.units {
		if o.targetID == u.ID {
			o.targetID = ""
		}
	}
}

func (b *Battle) gameOver(losingTeam int) {
	if b.over {
		return
	}
	b.over = true
	b.loser = losingTeam
	b.emit("GameOver", map[string]any{"loser": losingTeam})
	if b.OnGameOver != nil {
		b.OnGameOver(losingTeam)
	}
}

// DamageDealt returns damage taken by others per source unit id.
func (b *Battle) DamageDealt() map[string]float64 {
	out := make(map[string]float64, len(b.damageDealt))
	for k, v := range b.damageDealt {
		out[k] = v
	}
	return out
}

// Reset readies every unit for a fresh fight: static and synergy bonuses,
// innate and apply hooks, adjacent auras, once-per-team effects and shield
// arming. Pending and in-flight actions are discarded.
func (b *Battle) Reset() {
	b.nowMS, b.diffMS, b.ticks = 0, 0, 0
	b.started, b.didBacklineJump, b.over = false, false, false
	b.loser = NoTeam
	b.hexEffects, b.projectiles = nil, nil
	clear(b.cooldowns)
	clear(b.damageDealt)

	kept := b.units[:0]
	for _, u := range b.units {
		if !u.Summoned {
			kept = append(kept, u)
		} else {
			delete(b.byID, u.ID)
		}
	}
	b.units = kept

	for _, u := range b.units {
		u.reset()
	}
	b.synergies[TeamAlly] = b.computeSynergies(TeamAlly)
	b.synergies[TeamEnemy] = b.computeSynergies(TeamEnemy)

	results := make([]EffectResults, len(b.units))
	for i, u := range b.units {
		results[i] = b.synergyBonuses(u)
		results[i].merge(b.itemBonuses(u))
		u.scalings = append(u.scalings, results[i].Scalings...)
		u.finishReset()
	}

	for i, u := range b.units {
		for _, it := range u.Items {
			h := b.reg.item(it.Data.ID)
			if h == nil {
				continue
			}
			if h.Apply != nil {
				r := h.Apply(b, it, u)
				results[i].Shields = append(results[i].Shields, r.Shields...)
			}
			if h.AdjacentHexBuff != nil {
				radius := 1
				if v, ok := it.Data.Effect("HexRange"); ok {
					radius = int(v)
				}
				var adjacent []*Unit
				for _, o := range b.AdjacentRowUnits(radius, u.StartHex) {
					if o.Team == u.Team {
						adjacent = append(adjacent, o)
					}
				}
				h.AdjacentHexBuff(b, it, u, adjacent)
			}
		}
	}

	for team := range b.synergies {
		for _, syn := range b.synergies[team] {
			if syn.Active == nil {
				continue
			}
			if h := b.reg.trait(syn.Trait.Name); h != nil && h.OnceForTeam != nil {
				h.OnceForTeam(b, syn.Active, team)
			}
		}
	}

	for i, u := range b.units {
		for _, s := range results[i].Shields {
			u.AddShield(0, s)
		}
		b.emit("Spawn", u.spawnPayload())
	}
	b.invalidatePaths()
}

func (u *Unit) spawnPayload() map[string]any {
	return map[string]any{
		"unit": u.ID, "name": u.Name, "team": u.Team, "star": u.Star,
		"col": u.Hex.Col, "row": u.Hex.Row, "hp": u.Health, "max_hp": u.HealthMax,
	}
}

// UnitSnapshot is a read-only view of a unit after a tick.
type UnitSnapshot struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Team      int      `json:"team"`
	Star      int      `json:"star"`
	Col       int      `json:"col"`
	Row       int      `json:"row"`
	Health    float64  `json:"health"`
	HealthMax float64  `json:"health_max"`
	Mana      float64  `json:"mana"`
	ManaMax   float64  `json:"mana_max"`
	Shield    float64  `json:"shield,omitempty"`
	Dead      bool     `json:"dead"`
	Target    string   `json:"target,omitempty"`
	Statuses  []string `json:"statuses,omitempty"`
}

type ProjectileSnapshot struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type Snapshot struct {
	T           float64              `json:"t"`
	Tick        int                  `json:"tick"`
	Over        bool                 `json:"over"`
	Loser       int                  `json:"loser"`
	Units       []UnitSnapshot       `json:"units"`
	Projectiles []ProjectileSnapshot `json:"projectiles,omitempty"`
	HexEffects  int                  `json:"hex_effects"`
}

// Snapshot copies the visible battle state.
func (b *Battle) Snapshot() Snapshot {
	s := Snapshot{
		T:          b.nowMS,
		Tick:       b.ticks,
		Over:       b.over,
		Loser:      b.loser,
		Units:      make([]UnitSnapshot, 0, len(b.units)),
		HexEffects: len(b.hexEffects),
	}
	for _, u := range b.units {
		us := UnitSnapshot{
			ID: u.ID, Name: u.Name, Team: u.Team, Star: u.Star,
			Col: u.Hex.Col, Row: u.Hex.Row,
			Health: u.Health, HealthMax: u.HealthMax,
			Mana: u.Mana, ManaMax: u.ManaMax(),
			Shield: u.ShieldTotal(),
			Dead:   u.Dead, Target: u.targetID,
		}
		for k := StatusKind(0); k < statusCount; k++ {
			if u.status[k].Active {
				us.Statuses = append(us.Statuses, k.String())
			}
		}
		s.Units = append(s.Units, us)
	}
	for _, p := range b.projectiles {
		pos := p.Position()
		s.Projectiles = append(s.Projectiles, ProjectileSnapshot{Source: p.SourceID, Target: p.TargetID, X: pos.X, Y: pos.Y})
	}
	return s
}
