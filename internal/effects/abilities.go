package effects

import (
	"hexbattle/internal/combat"
	"hexbattle/internal/hexgrid"
)

const (
	Caitlyn = "Caitlyn"
	Darius  = "Darius"
	Jayce   = "Jayce"
	Leona   = "Leona"
	Lulu    = "Lulu"
	Talon   = "Talon"
	Vi      = "Vi"
	Ziggs   = "Ziggs"
)

const talonBleedTickMS = 1000

func abilities() map[string]combat.AbilityFn {
	return map[string]combat.AbilityFn{
		// Caitlyn snipes the farthest enemy.
		Caitlyn: func(b *combat.Battle, spell *combat.Spell, u *combat.Unit) {
			target := b.DistanceUnit(false, u, u.OpposingTeam())
			if target == nil || !target.IsAttackable() {
				return
			}
			u.QueueProjectile(b.Now(), combat.ProjectileData{
				Target: target,
				Spell:  true,
			})
		},

		// Darius hits every adjacent enemy and heals himself.
		Darius: func(b *combat.Battle, spell *combat.Spell, u *combat.Unit) {
			v, ok := spellValues(b, u, "Heal")
			if !ok {
				return
			}
			u.QueueHexEffect(b.Now(), combat.HexEffectData{
				HexDistanceFromSource: 1,
				Formula:               u.SpellCalculation("Damage", combat.DamagePhysical),
			})
			u.GainHealth(v[0], true)
		},

		// Jayce swings his hammer in melee form and fires his cannon in
		// ranged form.
		Jayce: func(b *combat.Battle, spell *combat.Spell, u *combat.Unit) {
			now := b.Now()
			if u.TransformIndex == 0 {
				v, ok := spellValues(b, u, "Shield", "Duration")
				if !ok {
					return
				}
				u.QueueHexEffect(now, combat.HexEffectData{HexDistanceFromSource: 1})
				u.AddShield(now, &combat.Shield{Source: Jayce, Amount: v[0], ExpiresAtMS: now + v[1]*1000})
				return
			}
			v, ok := spellValues(b, u, "BonusAS", "Duration")
			if !ok {
				return
			}
			u.QueueProjectile(now, combat.ProjectileData{Spell: true})
			for _, ally := range u.UnitsWithin(2, u.Team) {
				ally.AddBonuses(Jayce, combat.TimedVar(combat.StatAttackSpeed, v[0], now+v[1]*1000))
			}
		},

		// Leona shields herself and stuns her target.
		Leona: func(b *combat.Battle, spell *combat.Spell, u *combat.Unit) {
			v, ok := spellValues(b, u, "Shield", "Duration", "StunDuration")
			if !ok {
				return
			}
			now := b.Now()
			u.AddShield(now, &combat.Shield{Source: Leona, Amount: v[0], ExpiresAtMS: now + v[1]*1000})
			if target := u.Target(); target != nil {
				target.ApplyStatusEffect(now, combat.StatusStunned, v[2]*1000, 0)
			}
		},

		// Lulu speeds up the allies nearest to her.
		Lulu: func(b *combat.Battle, spell *combat.Spell, u *combat.Unit) {
			v, ok := spellValues(b, u, "BonusAS", "Duration", "Targets")
			if !ok {
				return
			}
			expires := b.Now() + v[1]*1000
			for _, ally := range nearestAllies(u, int(v[2])) {
				ally.AddBonuses(Lulu, combat.TimedVar(combat.StatAttackSpeed, v[0], expires))
			}
		},

		// Talon cuts his target and leaves it bleeding.
		Talon: func(b *combat.Battle, spell *combat.Spell, u *combat.Unit) {
			target := u.Target()
			if target == nil {
				return
			}
			v, ok := spellValues(b, u, "BleedDamage", "BleedDuration")
			if !ok {
				return
			}
			now := b.Now()
			b.ApplyDamage(target, combat.DamageRequest{
				Source:   u,
				Kind:     combat.SourceSpell,
				Formula:  u.SpellCalculation("Damage", combat.DamagePhysical),
				Original: true,
			})
			ticks := int(v[1] * 1000 / talonBleedTickMS)
			if ticks < 1 || target.Dead {
				return
			}
			target.ApplyBleed(combat.Bleed{
				SourceID:            Talon + "|" + u.ID,
				SourceUnitID:        u.ID,
				Formula:             combat.NewCalculation("BleedDamage", v[0]/float64(ticks), combat.DamagePhysical, "", 0),
				ActivatesAtMS:       now + talonBleedTickMS,
				RepeatsEveryMS:      talonBleedTickMS,
				RemainingIterations: ticks,
			})
		},

		// Vi stuns her target, punches it and shreds its armor.
		Vi: func(b *combat.Battle, spell *combat.Spell, u *combat.Unit) {
			target := u.Target()
			if target == nil {
				return
			}
			v, ok := spellValues(b, u, "StunDuration", "ArmorShred", "ShredDuration")
			if !ok {
				return
			}
			now := b.Now()
			target.ApplyStatusEffect(now, combat.StatusStunned, v[0]*1000, 0)
			b.ApplyDamage(target, combat.DamageRequest{
				Source:   u,
				Kind:     combat.SourceSpell,
				Formula:  u.SpellCalculation("Damage", combat.DamagePhysical),
				Original: true,
			})
			target.ApplyStatusEffect(now, combat.StatusArmorReduction, v[2]*1000, v[1]/100)
		},

		// Ziggs lobs a bomb onto the densest enemy cluster.
		Ziggs: func(b *combat.Battle, spell *combat.Spell, u *combat.Unit) {
			v, ok := spellValues(b, u, "Delay")
			if !ok {
				return
			}
			hexes := b.DensestTargetHexes(u.OpposingTeam(), 1)
			if len(hexes) == 0 {
				return
			}
			center := hexes[b.Rand().Intn(len(hexes))]
			u.QueueHexEffect(b.Now(), combat.HexEffectData{
				StartsAfterMS: v[0] * 1000,
				Hexes:         hexgrid.Within(center, 1),
			})
		},
	}
}

// nearestAllies returns up to count living allies of u, nearest first,
// excluding u.
func nearestAllies(u *combat.Unit, count int) []*combat.Unit {
	var out []*combat.Unit
	for radius := 1; radius <= hexgrid.Rows+hexgrid.Cols && len(out) < count; radius++ {
		for _, ally := range u.Allies() {
			if ally != u && u.HexDistanceTo(ally) == radius {
				out = append(out, ally)
				if len(out) == count {
					break
				}
			}
		}
	}
	return out
}
