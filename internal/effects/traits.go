package effects

import (
	"math"

	"hexbattle/internal/combat"
)

const (
	Arcanist  = "Arcanist"
	Assassin  = "Assassin"
	Bodyguard = "Bodyguard"
	Bruiser   = "Bruiser"
	Chemtech  = "Chemtech"
	Clockwork = "Clockwork"
	Colossus  = "Colossus"
	Enchanter = "Enchanter"
	Enforcer  = "Enforcer"
	Hextech   = "Hextech"
	Mutant    = "Mutant"
	Scholar   = "Scholar"
	Scrap     = "Scrap"
	Sniper    = "Sniper"
	Syndicate = "Syndicate"
)

// Mutations the Mutant trait can roll. The battle runs with one of them.
const (
	MutationAdrenalineRush = "AdrenalineRush"
	MutationBioLeeching    = "BioLeeching"
	MutationCybernetic     = "Cybernetic"
	MutationMetamorphosis  = "Metamorphosis"
	MutationSynapticWeb    = "SynapticWeb"
	MutationVoidborne      = "Voidborne"
)

const bodyguardDelayMS = 4000

// Arcanist, Bruiser and Enchanter are purely data driven: their tiers and
// team effect modes live in traits.yaml and need no hooks.
func traitHooks() map[string]*combat.TraitHooks {
	return map[string]*combat.TraitHooks{
		Assassin: {
			Innate: func(b *combat.Battle, u *combat.Unit, effect *combat.TraitEffect) combat.EffectResults {
				u.SpellCrit = true
				return combat.EffectResults{}
			},
		},

		Bodyguard: {
			Innate: func(b *combat.Battle, u *combat.Unit, effect *combat.TraitEffect) combat.EffectResults {
				u.QueueHexEffect(0, combat.HexEffectData{
					StartsAfterMS:         bodyguardDelayMS,
					HexDistanceFromSource: 1,
					DamageMultiplier:      tauntMultiplier,
					Kind:                  combat.SourceTrait,
					Taunts:                true,
				})
				return combat.EffectResults{}
			},
			Solo: func(b *combat.Battle, u *combat.Unit, effect *combat.TraitEffect) combat.EffectResults {
				v, ok := traitValues(b, Bodyguard, effect, "ShieldAmount")
				if !ok {
					return combat.EffectResults{}
				}
				return combat.EffectResults{Shields: []*combat.Shield{{
					Source:        Bodyguard,
					Amount:        v[0],
					ActivatesAtMS: bodyguardDelayMS,
				}}}
			},
		},

		Chemtech: {
			DisableDefaults: true,
			HPThreshold: func(b *combat.Battle, effect *combat.TraitEffect, u *combat.Unit) {
				v, ok := traitValues(b, Chemtech, effect, string(combat.StatDamageReduction), "Duration", string(combat.StatAttackSpeed), "HPRegen")
				if !ok {
					return
				}
				now := b.Now()
				durationMS := v[1] * 1000
				expires := now + durationMS
				u.AddBonuses(Chemtech,
					combat.TimedVar(combat.StatAttackSpeed, v[2], expires),
					combat.TimedVar(combat.StatDamageReduction, v[0]/100, expires))
				u.AddScaling(&combat.BonusScaling{
					Source:          Chemtech,
					ActivatedAtMS:   now,
					ExpiresAfterMS:  durationMS,
					Stats:           []combat.BonusKey{combat.StatHealth},
					IntervalAmount:  v[3] / 100 * u.HealthMax,
					IntervalSeconds: 1,
				})
			},
		},

		Clockwork: {
			Team: func(b *combat.Battle, u *combat.Unit, effect *combat.TraitEffect) combat.EffectResults {
				v, ok := traitValues(b, Clockwork, effect, "BonusPerAugment", "ASBonus")
				if !ok {
					return combat.EffectResults{}
				}
				return combat.EffectResults{Variables: []combat.BonusVariable{
					combat.Var(combat.StatAttackSpeed, float64(b.AugmentCount())*v[0]*100),
					combat.Var(combat.StatAttackSpeed, v[1]*100),
				}}
			},
		},

		Colossus: {
			Innate: func(b *combat.Battle, u *combat.Unit, effect *combat.TraitEffect) combat.EffectResults {
				v, ok := traitValues(b, Colossus, effect, "BonusHealthTooltip")
				if !ok {
					return combat.EffectResults{}
				}
				return combat.EffectResults{Variables: []combat.BonusVariable{combat.Var(combat.StatHealth, v[0])}}
			},
		},

		Enforcer: {
			OnceForTeam: func(b *combat.Battle, effect *combat.TraitEffect, team int) {
				v, ok := traitValues(b, Enforcer, effect, "DetainCount", "DetainDuration")
				if !ok {
					return
				}
				detainEnemies(b.AttackableUnitsOfTeam(1-team), int(v[0]), v[1]*1000)
			},
		},

		Hextech: {
			Solo: func(b *combat.Battle, u *combat.Unit, effect *combat.TraitEffect) combat.EffectResults {
				v, ok := traitValues(b, Hextech, effect, "ShieldAmount", "ShieldDuration", "MagicDamage", "Frequency")
				if !ok {
					return combat.EffectResults{}
				}
				repeatsEveryMS := v[3] * 1000
				return combat.EffectResults{Shields: []*combat.Shield{{
					Source:         Hextech,
					Amount:         v[0],
					DurationMS:     v[1] * 1000,
					ActivatesAtMS:  repeatsEveryMS,
					RepeatsEveryMS: repeatsEveryMS,
					BonusDamage:    combat.NewCalculation(Hextech, v[2], combat.DamageMagic, "", 0),
				}}}
			},
		},

		Mutant: {
			DisableDefaults: true,
			BasicAttack: func(b *combat.Battle, effect *combat.TraitEffect, target, source *combat.Unit, canReProc bool) {
				if !canReProc {
					return
				}
				chance, ok := source.MutantBonus(MutationAdrenalineRush, "MutantAdrenalineProcChance")
				if ok && source.AccumulateProc(chance/100) {
					source.ResetAttackCadence()
				}
			},
			DamageDealtByHolder: func(b *combat.Battle, effect *combat.TraitEffect, d combat.DamageInfo) {
				if b.Mutant() != MutationVoidborne || d.Target.Dead {
					return
				}
				v, ok := traitValues(b, Mutant, effect, "MutantVoidborneExecuteThreshold")
				if !ok {
					return
				}
				if d.Target.HealthProportion() <= v[0]/100 {
					b.Die(d.Target)
					return
				}
				if !d.Original {
					return
				}
				if bonus, ok := effect.Var("MutantVoidborneTrueDamagePercent"); ok {
					formula := combat.NewCalculation("MutantVoidborneTrueDamagePercent", d.Raw*bonus/100, combat.DamageTrue, "", 0)
					b.ApplyDamage(d.Target, combat.DamageRequest{Source: d.Source, Kind: combat.SourceTrait, Formula: formula})
				}
			},
			Solo: func(b *combat.Battle, u *combat.Unit, effect *combat.TraitEffect) combat.EffectResults {
				switch b.Mutant() {
				case MutationMetamorphosis:
					v, ok := traitValues(b, Mutant, effect, "MutantMetamorphosisGrowthRate", "MutantMetamorphosisArmorMR", "MutantMetamorphosisADAP")
					if !ok {
						return combat.EffectResults{}
					}
					return combat.EffectResults{Scalings: []*combat.BonusScaling{
						{
							Source:          MutationMetamorphosis,
							Stats:           []combat.BonusKey{combat.StatAttackDamage, combat.StatAbilityPower},
							IntervalAmount:  v[2],
							IntervalSeconds: v[0],
						},
						{
							Source:          MutationMetamorphosis,
							Stats:           []combat.BonusKey{combat.StatArmor, combat.StatMagicResist},
							IntervalAmount:  v[1],
							IntervalSeconds: v[0],
						},
					}}
				case MutationCybernetic:
					if len(u.Items) == 0 {
						return combat.EffectResults{}
					}
					v, ok := traitValues(b, Mutant, effect, "MutantCyberHP", "MutantCyberAD")
					if !ok {
						return combat.EffectResults{}
					}
					return combat.EffectResults{Variables: []combat.BonusVariable{
						combat.Var(combat.StatHealth, v[0]),
						combat.Var(combat.StatAttackDamage, v[1]),
					}}
				}
				return combat.EffectResults{}
			},
			Team: func(b *combat.Battle, u *combat.Unit, effect *combat.TraitEffect) combat.EffectResults {
				if b.Mutant() != MutationBioLeeching {
					return combat.EffectResults{}
				}
				v, ok := traitValues(b, Mutant, effect, "MutantBioLeechingOmnivamp")
				if !ok {
					return combat.EffectResults{}
				}
				return combat.EffectResults{Variables: []combat.BonusVariable{combat.Var(combat.StatVampOmni, v[0])}}
			},
		},

		Scholar: {
			Team: func(b *combat.Battle, u *combat.Unit, effect *combat.TraitEffect) combat.EffectResults {
				v, ok := traitValues(b, Scholar, effect, "ManaPerTick", "TickRate")
				if !ok {
					return combat.EffectResults{}
				}
				return combat.EffectResults{Scalings: []*combat.BonusScaling{{
					Source:          Scholar,
					Stats:           []combat.BonusKey{combat.StatMana},
					IntervalAmount:  v[0],
					IntervalSeconds: v[1],
				}}}
			},
		},

		Scrap: {
			Team: func(b *combat.Battle, u *combat.Unit, effect *combat.TraitEffect) combat.EffectResults {
				v, ok := traitValues(b, Scrap, effect, "HPShieldAmount")
				if !ok {
					return combat.EffectResults{}
				}
				amount := 0.0
				for _, o := range b.AliveUnitsOfTeam(u.Team) {
					for _, it := range o.Items {
						if it.Data.Component {
							amount += v[0]
						} else {
							amount += 2 * v[0]
						}
					}
				}
				if amount == 0 {
					return combat.EffectResults{}
				}
				return combat.EffectResults{Shields: []*combat.Shield{{Source: Scrap, Amount: amount}}}
			},
		},

		Sniper: {
			ModifyDamage: func(b *combat.Battle, effect *combat.TraitEffect, d combat.DamageInfo) float64 {
				if !d.Original {
					return d.Raw
				}
				v, ok := traitValues(b, Sniper, effect, "PercentDamageIncrease")
				if !ok {
					return d.Raw
				}
				return d.Raw * (1 + v[0]/100*float64(d.Source.HexDistanceTo(d.Target)))
			},
		},

		Syndicate: {
			DisableDefaults: true,
			Update: func(b *combat.Battle, effect *combat.TraitEffect, units []*combat.Unit) {
				armor, okArmor := effect.Var("Armor")
				mr, okMR := effect.Var("MR")
				level, okLevel := effect.Var("TraitLevel")
				if !okArmor || !okMR || !okLevel || len(units) == 0 {
					return
				}
				increase, _ := effect.Var("SyndicateIncrease")
				multiplier := 1 + increase
				if level == 1 {
					lowest := units[0]
					for _, u := range units[1:] {
						if u.Health < lowest.Health {
							lowest = u
						}
					}
					for _, u := range units {
						u.SetBonusesFor(Syndicate)
					}
					units = []*combat.Unit{lowest}
				}
				bonuses := []combat.BonusVariable{
					combat.Var(combat.StatArmor, armor*multiplier),
					combat.Var(combat.StatMagicResist, mr*multiplier),
				}
				if omnivamp, ok := effect.Var("PercentOmnivamp"); ok {
					bonuses = append(bonuses, combat.Var(combat.StatVampOmni, omnivamp*multiplier))
				}
				for _, u := range units {
					u.SetBonusesFor(Syndicate, bonuses...)
				}
			},
		},
	}
}

// detainEnemies stuns up to two enemies: the one with the most max health,
// then the biggest threat not already stunned.
func detainEnemies(enemies []*combat.Unit, count int, stunMS float64) {
	if count >= 1 {
		var best *combat.Unit
		for _, u := range enemies {
			if best == nil || u.HealthMax > best.HealthMax {
				best = u
			}
		}
		if best != nil {
			best.ApplyStatusEffect(0, combat.StatusStunned, stunMS, 0)
		}
	}
	if count >= 2 {
		var best *combat.Unit
		bestScore := math.Inf(-1)
		for _, u := range enemies {
			if u.Status(combat.StatusStunned).Active {
				continue
			}
			if score := threatScore(u); score > bestScore {
				bestScore = score
				best = u
			}
		}
		if best != nil {
			best.ApplyStatusEffect(0, combat.StatusStunned, stunMS, 0)
		}
	}
}

func threatScore(u *combat.Unit) float64 {
	cost := float64(max(1, u.Data.Cost))
	starCostItems := cost*u.StarMultiplier + math.Pow(float64(len(u.Items)), 2)
	attackDPS := u.AttackDamage() * u.AttackSpeed()
	magic := (u.AbilityPower() - 90) / 10
	return starCostItems + attackDPS/20 + magic
}
