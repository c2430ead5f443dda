package combat

import (
	"math"

	"go.uber.org/zap"
)

const (
	maxManaFromDamage = 42.5
	manaPerAttack     = 10
)

// DamageRequest is one call into the damage pipeline.
type DamageRequest struct {
	Source  *Unit
	Kind    SourceKind
	Formula *SpellCalculation
	// Area marks damage from an area effect, reduced by aoe damage
	// reduction statuses.
	Area      bool
	FlatBonus float64
	// Multiplier scales the amount after FlatBonus; 0 means 1.
	Multiplier float64
	// Original is false for damage caused by other damage (procs,
	// retaliation, bleeds) so reactive hooks do not chain.
	Original bool
}

// DamageOutcome reports what a pipeline call did.
type DamageOutcome struct {
	Type    DamageType
	Raw     float64
	Taken   float64
	Healed  float64
	Blocked bool
	Killed  bool
}

// ApplyDamage resolves req against target. It never fails: missing data
// or a dead target make it a no-op.
func (b *Battle) ApplyDamage(target *Unit, req DamageRequest) DamageOutcome {
	var out DamageOutcome
	if target == nil || target.Dead || req.Formula == nil {
		return out
	}
	source := req.Source
	raw, typ := req.Formula.Solve(source, target)
	if typ == DamageUnset {
		typ = DamageMagic
	}
	out.Type = typ

	if source != nil {
		info := DamageInfo{Original: req.Original, Target: target, Source: source, Kind: req.Kind, Raw: raw, Type: typ}
		for _, it := range source.Items {
			if h := b.reg.item(it.Data.ID); h != nil && h.ModifyDamage != nil {
				info.Raw = h.ModifyDamage(b, it, info)
			}
		}
		for _, t := range source.Traits {
			if h := b.reg.trait(t.Name); h != nil && h.ModifyDamage != nil {
				if effect := b.ActiveEffect(source.Team, t.Name); effect != nil {
					info.Raw = h.ModifyDamage(b, effect, info)
				}
			}
		}
		raw = info.Raw
	}

	if typ == DamageHeal {
		out.Healed = target.GainHealth(raw, true)
		return out
	}

	if req.Kind == SourceSpell && source != nil && source.Team != target.Team && target.consumeSpellShield() {
		out.Blocked = true
		b.emit("SpellShield", map[string]any{"unit": target.ID, "source": source.ID})
		return out
	}

	if req.Kind == SourceAttack && source != nil {
		// Net dodge is not clamped: prevention above dodge amplifies the hit
		// and dodge above 1 drives it negative, which aborts below.
		raw *= 1 - (target.DodgeChance() - source.DodgePrevention())
	}

	raw += req.FlatBonus
	if raw <= 0 {
		return out
	}
	if req.Multiplier != 0 {
		raw *= req.Multiplier
	}

	defense := 0.0
	switch typ {
	case DamagePhysical:
		defense = target.Armor()
		if st := target.status[StatusArmorReduction]; st.Active {
			defense *= 1 - st.Amount
		}
	case DamageMagic:
		defense = target.MagicResist()
		if st := target.status[StatusMagicResistReduction]; st.Active {
			defense *= 1 - st.Amount
		}
	}

	if source != nil && (typ == DamagePhysical || (typ == DamageMagic && source.SpellCrit)) {
		if reduction := target.CritReduction(); reduction < 1 {
			chance := math.Min(1, source.CritChance())
			raw += raw * chance * source.CritMultiplier() * (1 - reduction)
		}
	}
	out.Raw = raw

	taken := raw
	if typ != DamageTrue {
		taken *= 100 / (100 + defense)
		if dr := target.Bonuses(StatDamageReduction); dr >= 1 {
			b.log.Error("damage reduction out of range, ignored",
				zap.String("unit", target.ID), zap.Float64("reduction", dr))
		} else if dr != 0 {
			taken *= 1 - dr
		}
		if req.Area {
			if st := target.status[StatusAoEDamageReduction]; st.Active {
				taken *= 1 - st.Amount
			}
		}
	}

	taken = target.absorb(taken)
	out.Taken = taken
	if taken > 0 {
		if target.Health <= taken {
			out.Taken = target.Health
			out.Killed = true
			b.Die(target)
		} else {
			target.Health -= taken
			target.GainMana(math.Min(maxManaFromDamage, raw*0.01+taken*0.07))
		}
	}
	if source != nil {
		b.damageDealt[source.ID] += out.Taken
	}
	b.emit("Damage", map[string]any{
		"target": target.ID, "source": sourceID(source), "kind": req.Kind.String(),
		"type": typ.String(), "raw": raw, "taken": out.Taken, "hp": target.Health,
	})

	if source != nil && !source.Dead && out.Taken > 0 {
		vamp := source.Bonuses(StatVampOmni)
		if typ == DamagePhysical && req.Kind == SourceAttack {
			vamp += source.Bonuses(StatVampPhysical)
		}
		if req.Kind == SourceSpell {
			vamp += source.Bonuses(StatVampSpell)
		}
		if vamp > 0 {
			source.GainHealth(out.Taken*vamp/100, true)
		}
	}

	if source != nil {
		b.damageHooks(DamageInfo{
			Original: req.Original, Target: target, Source: source, Kind: req.Kind,
			Raw: raw, Taken: out.Taken, Type: typ,
		})
	}

	if req.Kind == SourceAttack && req.Original && source != nil {
		for _, s := range source.shields {
			if s.activated && s.BonusDamage != nil {
				b.ApplyDamage(target, DamageRequest{Source: source, Kind: SourceTrait, Formula: s.BonusDamage})
			}
		}
	}
	return out
}

// damageHooks runs reactive hooks in order: source items, target items,
// target item thresholds, target trait thresholds, source traits.
func (b *Battle) damageHooks(d DamageInfo) {
	source, target := d.Source, d.Target
	for _, it := range source.Items {
		if h := b.reg.item(it.Data.ID); h != nil && h.DamageDealtByHolder != nil {
			h.DamageDealtByHolder(b, it, d)
		}
	}
	if !target.Dead {
		for _, it := range target.Items {
			if h := b.reg.item(it.Data.ID); h != nil && h.DamageTaken != nil {
				h.DamageTaken(b, it, d)
			}
		}
		for _, it := range target.Items {
			h := b.reg.item(it.Data.ID)
			if h == nil || h.HPThreshold == nil {
				continue
			}
			threshold, ok := it.Data.Effect("HPThreshold")
			if !ok {
				b.log.Warn("item threshold missing", zap.String("item", it.Data.ID))
				continue
			}
			if target.CheckHPThreshold(it.Key, threshold/100) {
				h.HPThreshold(b, it, target)
			}
		}
		for _, t := range target.Traits {
			h := b.reg.trait(t.Name)
			if h == nil || h.HPThreshold == nil {
				continue
			}
			effect := b.ActiveEffect(target.Team, t.Name)
			if effect == nil {
				continue
			}
			threshold, ok := effect.Var(h.thresholdKey())
			if !ok {
				b.log.Warn("trait threshold missing", zap.String("trait", t.Name))
				continue
			}
			if target.CheckHPThreshold(t.Name, threshold/100) {
				h.HPThreshold(b, effect, target)
			}
		}
	}
	for _, t := range source.Traits {
		if h := b.reg.trait(t.Name); h != nil && h.DamageDealtByHolder != nil {
			if effect := b.ActiveEffect(source.Team, t.Name); effect != nil {
				h.DamageDealtByHolder(b, effect, d)
			}
		}
	}
}

func sourceID(u *Unit) string {
	if u == nil {
		return ""
	}
	return u.ID
}

// GainHealth heals u, reduced by grievous wounds when affected is set and
// boosted by heal/shield power. It returns the health actually restored.
func (u *Unit) GainHealth(amount float64, affected bool) float64 {
	if u.Dead || amount <= 0 {
		return 0
	}
	if affected {
		if gw := u.status[StatusGrievousWounds]; gw.Active {
			amount *= 1 - gw.Amount
		}
	}
	if boost := u.Bonuses(StatHealShieldBoost); boost != 0 {
		amount *= 1 + boost/100
	}
	before := u.Health
	u.Health = math.Min(u.HealthMax, u.Health+amount)
	return u.Health - before
}

// GainMana adds mana unless the unit is mana locked.
func (u *Unit) GainMana(amount float64) {
	if u.Dead || u.battle.Now() < u.manaLockUntilMS {
		return
	}
	u.Mana = math.Min(u.ManaMax(), u.Mana+amount)
}

// Die kills u, runs death hooks and ends the battle when u's team has no
// one left.
func (b *Battle) Die(u *Unit) {
	if u.Dead {
		return
	}
	u.Health = 0
	u.Dead = true
	u.targetID = ""
	b.emit("Death", map[string]any{"unit": u.ID, "team": u.Team})
	for _, it := range u.Items {
		if h := b.reg.item(it.Data.ID); h != nil && h.DeathOfHolder != nil {
			h.DeathOfHolder(b, it, u)
		}
	}
	survivors := b.AliveUnitsOfTeam(u.Team)
	if len(survivors) == 0 {
		b.gameOver(u.Team)
		return
	}
	for _, syn := range b.synergies[u.Team] {
		if syn.Active == nil {
			continue
		}
		if h := b.reg.trait(syn.Trait.Name); h != nil && h.AllyDeath != nil {
			h.AllyDeath(b, syn.Active, u, survivors)
		}
	}
	b.invalidatePaths()
}
