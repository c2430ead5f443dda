package combat

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Synergy is one trait's standing for a team.
type Synergy struct {
	Trait  *TraitData
	Style  int
	Active *TraitEffect
	Units  []string
}

// computeSynergies counts unique champion names per trait on team, in
// order of first appearance.
func (b *Battle) computeSynergies(team int) []Synergy {
	var order []string
	names := map[string][]string{}
	for _, u := range b.units {
		if u.Team != team || u.Summoned {
			continue
		}
		for _, t := range u.Traits {
			list, seen := names[t.Name]
			if !seen {
				order = append(order, t.Name)
			}
			dup := false
			for _, n := range list {
				if n == u.Name {
					dup = true
					break
				}
			}
			if !dup {
				names[t.Name] = append(list, u.Name)
			}
		}
	}
	out := make([]Synergy, 0, len(order))
	for _, name := range order {
		trait, ok := b.book.Trait(name)
		if !ok {
			continue
		}
		syn := Synergy{Trait: trait, Units: names[name]}
		if active := trait.ActiveEffect(len(syn.Units)); active != nil {
			syn.Active = active
			syn.Style = active.Style
		}
		out = append(out, syn)
	}
	return out
}

// Synergies returns team's computed synergies.
func (b *Battle) Synergies(team int) []Synergy {
	if team < 0 || team > 1 {
		return nil
	}
	return b.synergies[team]
}

// ActiveEffect returns team's active tier of trait, or nil.
func (b *Battle) ActiveEffect(team int, trait string) *TraitEffect {
	for _, s := range b.Synergies(team) {
		if s.Trait.Name == trait {
			return s.Active
		}
	}
	return nil
}

// innateEffect is the active tier of trait or, failing that, its first.
func (b *Battle) innateEffect(team int, trait *TraitData) *TraitEffect {
	if e := b.ActiveEffect(team, trait.Name); e != nil {
		return e
	}
	if len(trait.Effects) > 0 {
		return trait.Effects[0]
	}
	return nil
}

// synergyBonuses applies every active synergy of u's team to u.
func (b *Battle) synergyBonuses(u *Unit) EffectResults {
	var res EffectResults
	for _, syn := range b.synergies[u.Team] {
		if syn.Active == nil {
			continue
		}
		trait := syn.Trait
		hooks := b.reg.trait(trait.Name)
		holder := u.HasTrait(trait.Name)
		var vars []BonusVariable
		if hooks != nil && hooks.Team != nil {
			r := hooks.Team(b, u, syn.Active)
			vars = append(vars, r.Variables...)
			res.Scalings = append(res.Scalings, r.Scalings...)
			res.Shields = append(res.Shields, r.Shields...)
		}
		if holder || trait.TeamEffect.Mode != TeamEffectNone {
			vars = append(vars, b.traitVariables(u, trait, syn.Active, holder, hooks)...)
		}
		if holder && hooks != nil && hooks.Solo != nil {
			r := hooks.Solo(b, u, syn.Active)
			vars = append(vars, r.Variables...)
			res.Scalings = append(res.Scalings, r.Scalings...)
			res.Shields = append(res.Shields, r.Shields...)
		}
		u.AddBonuses(trait.Name, vars...)
	}
	for _, trait := range u.Traits {
		hooks := b.reg.trait(trait.Name)
		if hooks == nil || hooks.Innate == nil {
			continue
		}
		effect := b.innateEffect(u.Team, trait)
		if effect == nil {
			continue
		}
		r := hooks.Innate(b, u, effect)
		u.AddBonuses(trait.Name, r.Variables...)
		res.Scalings = append(res.Scalings, r.Scalings...)
		res.Shields = append(res.Shields, r.Shields...)
	}
	return res
}

// traitVariables turns a tier's static variables into bonuses for u
// following the trait's team effect mode.
func (b *Battle) traitVariables(u *Unit, trait *TraitData, effect *TraitEffect, holder bool, hooks *TraitHooks) []BonusVariable {
	var all bool
	var disabledKeys []string
	if hooks != nil {
		all, disabledKeys = hooks.DisableDefaults, hooks.DisabledKeys
	}
	te := trait.TeamEffect
	var out []BonusVariable
	for _, key := range sortedKeys(effect.Variables) {
		if disabled(all, disabledKeys, key) {
			continue
		}
		value := effect.Variables[key]
		if holder {
			switch te.Mode {
			case TeamEffectPrefix:
				switch {
				case strings.HasPrefix(key, "Team"):
					key = strings.TrimPrefix(key, "Team")
				case strings.HasPrefix(key, trait.Name):
					key = strings.TrimPrefix(key, trait.Name)
				default:
					b.log.Warn("unknown team variable", zap.String("trait", trait.Name), zap.String("key", key))
					continue
				}
			case TeamEffectMultiplier:
				value *= te.Multiplier
			}
		} else {
			switch te.Mode {
			case TeamEffectPrefix:
				if !strings.HasPrefix(key, "Team") {
					continue
				}
				key = strings.TrimPrefix(key, "Team")
			case TeamEffectKeys:
				if !contains(te.Keys, key) {
					continue
				}
			}
		}
		out = append(out, Var(BonusKey(key), value))
	}
	return out
}

// itemBonuses applies static item effects and innate item hooks to u.
func (b *Battle) itemBonuses(u *Unit) EffectResults {
	var res EffectResults
	for _, it := range u.Items {
		hooks := b.reg.item(it.Data.ID)
		var all bool
		var disabledKeys []string
		if hooks != nil {
			all, disabledKeys = hooks.DisableDefaults, hooks.DisabledKeys
		}
		var vars []BonusVariable
		for _, key := range sortedKeys(it.Data.Effects) {
			if !disabled(all, disabledKeys, key) {
				vars = append(vars, Var(BonusKey(key), it.Data.Effects[key]))
			}
		}
		if hooks != nil && hooks.Innate != nil {
			r := hooks.Innate(b, it, u)
			vars = append(vars, r.Variables...)
			res.Scalings = append(res.Scalings, r.Scalings...)
			res.Shields = append(res.Shields, r.Shields...)
		}
		u.AddBonuses(it.Data.ID, vars...)
	}
	return res
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
