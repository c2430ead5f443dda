package combat

import (
	"hexbattle/internal/config"
)

type Spell struct {
	Name         string
	ManaReset    float64
	MissileSpeed float64
	Variables    map[string][]float64
}

// Value returns the spell variable for the given star level. Tables list
// values for stars 1..4; shorter tables repeat their last entry.
func (s *Spell) Value(name string, star int) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.Variables[name]
	if !ok || len(v) == 0 {
		return 0, false
	}
	return starValue(v, star), true
}

type ChampionData struct {
	Name                    string
	APIName                 string
	Cost                    int
	Traits                  []string
	StarLocked              int
	Stats                   config.StatsDef
	BasicAttackMissileSpeed float64
	CritAttackMissileSpeed  float64
	Spells                  []*Spell
}

type ItemData struct {
	ID        string
	Name      string
	Component bool
	Unique    bool
	Effects   map[string]float64
}

// Effect looks up an effect parameter; ok is false when the data omits it.
func (it *ItemData) Effect(key string) (float64, bool) {
	v, ok := it.Effects[key]
	return v, ok
}

type TeamEffectMode string

const (
	TeamEffectNone       TeamEffectMode = ""
	TeamEffectPrefix     TeamEffectMode = "prefix"
	TeamEffectMultiplier TeamEffectMode = "multiplier"
	TeamEffectKeys       TeamEffectMode = "keys"
)

type TeamEffect struct {
	Mode       TeamEffectMode
	Multiplier float64
	Keys       []string
}

type TraitEffect struct {
	MinUnits  int
	MaxUnits  int
	Style     int
	Variables map[string]float64
}

func (e *TraitEffect) Var(key string) (float64, bool) {
	if e == nil {
		return 0, false
	}
	v, ok := e.Variables[key]
	return v, ok
}

type TraitData struct {
	Name       string
	APIName    string
	TeamEffect TeamEffect
	Effects    []*TraitEffect
}

// ActiveEffect returns the highest tier satisfied by count unique units.
func (t *TraitData) ActiveEffect(count int) *TraitEffect {
	var best *TraitEffect
	for _, e := range t.Effects {
		if count < e.MinUnits {
			continue
		}
		if e.MaxUnits > 0 && count > e.MaxUnits {
			continue
		}
		if best == nil || e.MinUnits > best.MinUnits {
			best = e
		}
	}
	return best
}

// Book indexes the static tables for lookup during a battle.
type Book struct {
	champions map[string]*ChampionData
	items     map[string]*ItemData
	traits    map[string]*TraitData
}

func NewBook(d *config.Data) *Book {
	b := &Book{
		champions: map[string]*ChampionData{},
		items:     map[string]*ItemData{},
		traits:    map[string]*TraitData{},
	}
	if d == nil {
		return b
	}
	if d.Champions != nil {
		for _, c := range d.Champions.Champions {
			cd := &ChampionData{
				Name:                    c.Name,
				APIName:                 c.APIName,
				Cost:                    c.Cost,
				Traits:                  append([]string(nil), c.Traits...),
				StarLocked:              c.StarLocked,
				Stats:                   c.Stats,
				BasicAttackMissileSpeed: c.BasicAttackMissileSpeed,
				CritAttackMissileSpeed:  c.CritAttackMissileSpeed,
			}
			for _, s := range c.Spells {
				cd.Spells = append(cd.Spells, &Spell{
					Name:         s.Name,
					ManaReset:    s.ManaReset,
					MissileSpeed: s.MissileSpeed,
					Variables:    s.Variables,
				})
			}
			b.champions[c.Name] = cd
		}
	}
	if d.Items != nil {
		for _, it := range d.Items.Items {
			effects := make(map[string]float64, len(it.Effects))
			for k, v := range it.Effects {
				effects[k] = v
			}
			b.items[it.ID] = &ItemData{
				ID:        it.ID,
				Name:      it.Name,
				Component: it.Component,
				Unique:    it.Unique,
				Effects:   effects,
			}
		}
	}
	if d.Traits != nil {
		for _, t := range d.Traits.Traits {
			td := &TraitData{
				Name:    t.Name,
				APIName: t.APIName,
				TeamEffect: TeamEffect{
					Mode:       TeamEffectMode(t.TeamEffect.Mode),
					Multiplier: t.TeamEffect.Multiplier,
					Keys:       append([]string(nil), t.TeamEffect.Keys...),
				},
			}
			for _, e := range t.Effects {
				td.Effects = append(td.Effects, &TraitEffect{
					MinUnits:  e.MinUnits,
					MaxUnits:  e.MaxUnits,
					Style:     e.Style,
					Variables: e.Variables,
				})
			}
			b.traits[t.Name] = td
		}
	}
	return b
}

func (b *Book) Champion(name string) (*ChampionData, bool) {
	c, ok := b.champions[name]
	return c, ok
}

func (b *Book) Item(id string) (*ItemData, bool) {
	it, ok := b.items[id]
	return it, ok
}

func (b *Book) Trait(name string) (*TraitData, bool) {
	t, ok := b.traits[name]
	return t, ok
}

// AddChampion registers champion data not present in the loaded tables,
// such as summons.
func (b *Book) AddChampion(c *ChampionData) {
	b.champions[c.Name] = c
}
