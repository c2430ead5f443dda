package effects

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"hexbattle/internal/combat"
	"hexbattle/internal/hexgrid"
)

const (
	ArchangelsStaff       = "ArchangelsStaff"
	BansheesClaw          = "BansheesClaw"
	Bloodthirster         = "Bloodthirster"
	BrambleVest           = "BrambleVest"
	ChaliceOfPower        = "ChaliceOfPower"
	DragonsClaw           = "DragonsClaw"
	EdgeOfNight           = "EdgeOfNight"
	FrozenHeart           = "FrozenHeart"
	GargoyleStoneplate    = "GargoyleStoneplate"
	GiantSlayer           = "GiantSlayer"
	GuinsoosRageblade     = "GuinsoosRageblade"
	HandOfJustice         = "HandOfJustice"
	HextechGunblade       = "HextechGunblade"
	IonicSpark            = "IonicSpark"
	JeweledGauntlet       = "JeweledGauntlet"
	LastWhisper           = "LastWhisper"
	LocketOfTheIronSolari = "LocketOfTheIronSolari"
	Morellonomicon        = "Morellonomicon"
	Quicksilver           = "Quicksilver"
	Redemption            = "Redemption"
	RunaansHurricane      = "RunaansHurricane"
	StatikkShiv           = "StatikkShiv"
	SunfireCape           = "SunfireCape"
	TitansResolve         = "TitansResolve"
	ZekesHerald           = "ZekesHerald"
	Zephyr                = "Zephyr"
	ZzRotPortal           = "ZzRotPortal"
)

const (
	burnID = "BURN"

	frozenHeartSlowMS = 500
	ionicSparkShredMS = 250
	dragonsClawRatio  = 0.18
	dragonsClawSpeed  = 500
	runaansBoltSpeed  = 1000
	portalTauntMS     = 4100
	voidSpawnTauntMS  = 500
	voidSpawnName     = "VoidSpawn"
	statikkEveryNth   = 3
	sunfireBurnTicks  = 1
	tauntMultiplier   = 0.5
)

func itemHooks() map[string]*combat.ItemHooks {
	return map[string]*combat.ItemHooks{
		ArchangelsStaff: {
			Innate: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) combat.EffectResults {
				v, ok := itemValues(b, it, "APPerInterval", "IntervalSeconds")
				if !ok {
					return combat.EffectResults{}
				}
				return combat.EffectResults{Scalings: []*combat.BonusScaling{{
					Source:          it.Key,
					Stats:           []combat.BonusKey{combat.StatAbilityPower},
					IntervalAmount:  v[0],
					IntervalSeconds: v[1],
				}}}
			},
		},

		BansheesClaw: {
			AdjacentHexBuff: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit, adjacent []*combat.Unit) {
				v, ok := itemValues(b, it, "DamageCap")
				if !ok {
					return
				}
				for _, o := range append(adjacent, u) {
					o.AddShield(0, &combat.Shield{Source: it.Key, Amount: v[0], IsSpellShield: true})
				}
			},
		},

		Bloodthirster: {
			HPThreshold: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) {
				v, ok := itemValues(b, it, "ShieldHPPercent", "ShieldDuration")
				if !ok {
					return
				}
				now := b.Now()
				u.AddShield(now, &combat.Shield{
					Source:      it.Key,
					Amount:      v[0] / 100 * u.HealthMax,
					ExpiresAtMS: now + v[1]*1000,
				})
			},
		},

		BrambleVest: {
			DamageTaken: func(b *combat.Battle, it *combat.ItemInstance, d combat.DamageInfo) {
				if !d.Original || d.Kind != combat.SourceAttack || !b.CheckCooldown(d.Target, it, true, "") {
					return
				}
				key := fmt.Sprintf("%dStarAoEDamage", d.Target.Star)
				v, ok := itemValues(b, it, key)
				if !ok {
					return
				}
				formula := combat.NewCalculation(key, v[0], combat.DamageMagic, "", 0)
				for _, o := range d.Target.UnitsWithin(1, d.Target.OpposingTeam()) {
					b.ApplyDamage(o, combat.DamageRequest{Source: d.Target, Kind: combat.SourceItem, Formula: formula, Area: true})
				}
			},
		},

		ChaliceOfPower: {
			AdjacentHexBuff: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit, adjacent []*combat.Unit) {
				v, ok := itemValues(b, it, "BonusAP")
				if !ok {
					return
				}
				for _, o := range adjacent {
					o.AddBonuses(it.Key, combat.Var(combat.StatAbilityPower, v[0]))
				}
			},
		},

		DragonsClaw: {
			DamageTaken: func(b *combat.Battle, it *combat.ItemInstance, d combat.DamageInfo) {
				if !d.Original || d.Kind != combat.SourceSpell || d.Type == combat.DamagePhysical {
					return
				}
				if d.Source.Dead || !b.CheckCooldown(d.Target, it, true, "") {
					return
				}
				d.Target.QueueProjectile(b.Now(), combat.ProjectileData{
					MissileSpeed: dragonsClawSpeed,
					Target:       d.Source,
					Formula:      combat.NewCalculation(it.Data.ID, dragonsClawRatio, combat.DamageMagic, combat.StatHealth, 1).OfTarget(),
					Kind:         combat.SourceItem,
				})
			},
		},

		EdgeOfNight: {
			DisabledKeys: []string{string(combat.StatAttackSpeed), string(combat.StatDamageReduction)},
			HPThreshold: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) {
				v, ok := itemValues(b, it, string(combat.StatAttackSpeed), "StealthDuration")
				if !ok {
					return
				}
				now := b.Now()
				stealthMS := v[1] * 1000
				for _, kind := range []combat.StatusKind{combat.StatusArmorReduction, combat.StatusAttackSpeedSlow, combat.StatusGrievousWounds} {
					u.ClearStatusEffect(kind)
				}
				u.ApplyStatusEffect(now, combat.StatusStealth, stealthMS, 0)
				u.QueueBonus(now, stealthMS, it.Key, combat.Var(combat.StatAttackSpeed, v[0]))
			},
		},

		FrozenHeart: {
			Update: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) {
				v, ok := itemValues(b, it, "ASSlow", "HexRadius")
				if !ok {
					return
				}
				for _, o := range u.UnitsWithin(int(v[1]), u.OpposingTeam()) {
					o.ApplyStatusEffect(b.Now(), combat.StatusAttackSpeedSlow, frozenHeartSlowMS, v[0])
				}
			},
		},

		GargoyleStoneplate: {
			Update: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) {
				v, ok := itemValues(b, it, "ArmorPerEnemy", "MRPerEnemy")
				if !ok {
					return
				}
				targeting := 0
				for _, o := range b.AliveUnitsOfTeam(u.OpposingTeam()) {
					if o.IsInteractable() && o.Target() == u {
						targeting++
					}
				}
				n := float64(targeting)
				u.SetBonusesFor(it.Key,
					combat.Var(combat.StatArmor, v[0]*n),
					combat.Var(combat.StatMagicResist, v[1]*n))
			},
		},

		GiantSlayer: {
			ModifyDamage: func(b *combat.Battle, it *combat.ItemInstance, d combat.DamageInfo) float64 {
				if !d.Original || (d.Kind != combat.SourceAttack && d.Kind != combat.SourceSpell) {
					return d.Raw
				}
				v, ok := itemValues(b, it, "HPThreshold", "LargeBonusPct", "SmallBonusPct")
				if !ok {
					return d.Raw
				}
				bonus := v[2]
				if d.Target.HealthMax >= v[0] {
					bonus = v[1]
				}
				return d.Raw * (1 + bonus/100)
			},
		},

		GuinsoosRageblade: {
			BasicAttack: func(b *combat.Battle, it *combat.ItemInstance, target, source *combat.Unit, canReProc bool) {
				if v, ok := itemValues(b, it, "ASPerStack"); ok {
					source.AddBonuses(it.Key, combat.Var(combat.StatAttackSpeed, v[0]))
				}
			},
		},

		HandOfJustice: {
			// The random doubling is averaged: half of the additional value
			// always applies.
			Innate: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) combat.EffectResults {
				v, ok := itemValues(b, it, "AdditionalADAP")
				if !ok {
					return combat.EffectResults{}
				}
				increase := v[0] / 2
				return combat.EffectResults{Variables: []combat.BonusVariable{
					combat.Var(combat.StatAbilityPower, increase),
					combat.Var(combat.StatAttackDamage, increase),
				}}
			},
			DamageDealtByHolder: func(b *combat.Battle, it *combat.ItemInstance, d combat.DamageInfo) {
				if d.Kind != combat.SourceAttack && d.Kind != combat.SourceSpell {
					return
				}
				v, ok := itemValues(b, it, "BaseHeal", "AdditionalHeal")
				if !ok {
					return
				}
				d.Source.GainHealth(d.Taken*(v[0]+v[1]/2)/100, true)
			},
		},

		HextechGunblade: {
			DamageDealtByHolder: func(b *combat.Battle, it *combat.ItemInstance, d combat.DamageInfo) {
				if d.Type == combat.DamagePhysical || d.Taken <= 0 {
					return
				}
				v, ok := itemValues(b, it, string(combat.StatVampSpell))
				if !ok {
					return
				}
				var lowest *combat.Unit
				for _, o := range d.Source.Allies() {
					if lowest == nil || o.Health < lowest.Health {
						lowest = o
					}
				}
				if lowest != nil {
					lowest.GainHealth(d.Taken*v[0]/100, true)
				}
			},
		},

		IonicSpark: {
			Update: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) {
				v, ok := itemValues(b, it, "MRShred", "HexRange")
				if !ok {
					return
				}
				for _, o := range u.UnitsWithin(int(v[1]), u.OpposingTeam()) {
					o.ApplyStatusEffect(b.Now(), combat.StatusMagicResistReduction, ionicSparkShredMS, v[0]/100)
				}
			},
			CastWithinHexRange: func(b *combat.Battle, it *combat.ItemInstance, caster, holder *combat.Unit) {
				if caster.Team == holder.Team {
					return
				}
				v, ok := itemValues(b, it, "ManaRatio")
				if !ok {
					return
				}
				formula := combat.NewCalculation(it.Data.ID, v[0]/100*caster.ManaMax(), combat.DamageMagic, "", 0)
				b.ApplyDamage(caster, combat.DamageRequest{Source: holder, Kind: combat.SourceItem, Formula: formula})
			},
		},

		JeweledGauntlet: {
			Innate: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) combat.EffectResults {
				u.SpellCrit = true
				return combat.EffectResults{}
			},
		},

		LastWhisper: {
			// Crits are averaged into every hit, so the shred follows any
			// damage the holder deals.
			DamageDealtByHolder: func(b *combat.Battle, it *combat.ItemInstance, d combat.DamageInfo) {
				v, ok := itemValues(b, it, "ArmorReductionPercent", "ArmorBreakDuration")
				if !ok {
					return
				}
				d.Target.ApplyStatusEffect(b.Now(), combat.StatusArmorReduction, v[1]*1000, v[0]/100)
			},
		},

		LocketOfTheIronSolari: {
			AdjacentHexBuff: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit, adjacent []*combat.Unit) {
				v, ok := itemValues(b, it, fmt.Sprintf("%dStarShieldValue", u.Star), "ShieldDuration")
				if !ok {
					return
				}
				for _, o := range append(adjacent, u) {
					o.AddShield(0, &combat.Shield{Source: it.Key, Amount: v[0], ExpiresAtMS: v[1] * 1000})
				}
			},
		},

		Morellonomicon: {
			DamageDealtByHolder: func(b *combat.Battle, it *combat.ItemInstance, d combat.DamageInfo) {
				if !d.Original || d.Kind != combat.SourceSpell || (d.Type != combat.DamageMagic && d.Type != combat.DamageTrue) {
					return
				}
				if v, ok := itemValues(b, it, "TicksPerSecond"); ok {
					applyGrievousBurn(b, it, d.Target, d.Source, v[0])
				}
			},
		},

		Quicksilver: {
			Apply: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) combat.EffectResults {
				v, ok := itemValues(b, it, "SpellShieldDuration")
				if !ok {
					return combat.EffectResults{}
				}
				return combat.EffectResults{Shields: []*combat.Shield{{
					Source:        it.Key,
					IsSpellShield: true,
					ExpiresAtMS:   v[0] * 1000,
				}}}
			},
		},

		Redemption: {
			Update: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) {
				if !b.CheckCooldown(u, it, true, "HealTickRate") {
					return
				}
				v, ok := itemValues(b, it, "AoEDamageReduction", "MissingHPHeal", "MaxHeal", "HexRadius", "HealTickRate")
				if !ok {
					return
				}
				tickMS := v[4] * 1000
				u.QueueHexEffect(b.Now(), combat.HexEffectData{
					StartsAfterMS:         tickMS,
					HexDistanceFromSource: int(v[3]),
					Targets:               combat.TargetAllies,
					Kind:                  combat.SourceItem,
					Formula:               combat.NewCalculation(it.Key, v[1]/100, combat.DamageHeal, combat.StatMissingHealth, 1).OfTarget().Capped(v[2]),
					Statuses: map[combat.StatusKind]combat.StatusSpec{
						combat.StatusAoEDamageReduction: {DurationMS: tickMS, Amount: v[0] / 100},
					},
				})
			},
		},

		RunaansHurricane: {
			BasicAttack: func(b *combat.Battle, it *combat.ItemInstance, target, source *combat.Unit, canReProc bool) {
				v, ok := itemValues(b, it, "AdditionalTargets", "MultiplierForDamage")
				if !ok {
					return
				}
				bolts := b.NearestAttackableEnemies(source, map[string]bool{target.ID: true}, hexgrid.Rows+hexgrid.Cols, int(v[0]))
				formula := combat.NewCalculation(it.Key, 1, combat.DamageUnset, combat.StatAttackDamage, v[1]/100)
				for _, o := range bolts {
					source.QueueProjectile(b.Now(), combat.ProjectileData{
						MissileSpeed: runaansBoltSpeed,
						Target:       o,
						Formula:      formula,
						Kind:         combat.SourceAttack,
					})
				}
			},
		},

		StatikkShiv: {
			BasicAttack: func(b *combat.Battle, it *combat.ItemInstance, target, source *combat.Unit, canReProc bool) {
				if !source.IsNthBasicAttack(statikkEveryNth) {
					return
				}
				v, ok := itemValues(b, it, fmt.Sprintf("%dStarBounces", source.Star), "Damage", "MRShredDuration", "MRShred")
				if !ok {
					return
				}
				hit := map[string]bool{}
				var chain []*combat.Unit
				for current := target; current != nil && len(chain) < int(v[0]); {
					chain = append(chain, current)
					hit[current.ID] = true
					current = b.ClosestUnitOfTeamTo(current.Hex, source.OpposingTeam(), hit)
				}
				formula := combat.NewCalculation(it.Key, v[1], combat.DamageMagic, "", 0)
				now := b.Now()
				for _, o := range chain {
					b.ApplyDamage(o, combat.DamageRequest{Source: source, Kind: combat.SourceItem, Formula: formula, Area: true})
					o.ApplyStatusEffect(now, combat.StatusMagicResistReduction, v[2]*1000, v[3]/100)
				}
			},
		},

		SunfireCape: {
			Update: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) {
				if !b.CheckCooldown(u, it, true, "") {
					return
				}
				v, ok := itemValues(b, it, "HexRange")
				if !ok {
					return
				}
				if target := sunfireTarget(u, u.UnitsWithin(int(v[0]), u.OpposingTeam())); target != nil {
					applyGrievousBurn(b, it, target, u, sunfireBurnTicks)
				}
			},
		},

		TitansResolve: {
			BasicAttack: func(b *combat.Battle, it *combat.ItemInstance, target, source *combat.Unit, canReProc bool) {
				stackTitans(b, it, source)
			},
			DamageTaken: func(b *combat.Battle, it *combat.ItemInstance, d combat.DamageInfo) {
				if d.Original {
					stackTitans(b, it, d.Target)
				}
			},
		},

		ZekesHerald: {
			AdjacentHexBuff: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit, adjacent []*combat.Unit) {
				v, ok := itemValues(b, it, "AS")
				if !ok {
					return
				}
				for _, o := range adjacent {
					o.AddBonuses(it.Key, combat.Var(combat.StatAttackSpeed, v[0]))
				}
			},
		},

		Zephyr: {
			Apply: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) combat.EffectResults {
				v, ok := itemValues(b, it, "BanishDuration")
				if !ok {
					return combat.EffectResults{}
				}
				if target := b.ClosestUnitOfTeamTo(hexgrid.Inverse(u.StartHex), u.OpposingTeam(), nil); target != nil {
					target.ApplyStatusEffect(0, combat.StatusBanished, v[0]*1000, 0)
				}
				return combat.EffectResults{}
			},
		},

		ZzRotPortal: {
			Apply: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) combat.EffectResults {
				u.QueueHexEffect(0, combat.HexEffectData{
					StartsAfterMS:         portalTauntMS,
					HexDistanceFromSource: 1,
					DamageMultiplier:      tauntMultiplier,
					Kind:                  combat.SourceItem,
					Taunts:                true,
				})
				return combat.EffectResults{}
			},
			DeathOfHolder: func(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) {
				data, ok := b.Book().Champion(voidSpawnName)
				if !ok {
					b.Logger().Warn("summon data missing", zap.String("item", it.Data.ID), zap.String("champion", voidSpawnName))
					return
				}
				hex, ok := b.ClosestFreeHex(u.Hex, nil)
				if !ok {
					return
				}
				voidling := b.Summon(data, hex, u.Team)
				voidling.QueueHexEffect(b.Now(), combat.HexEffectData{
					StartsAfterMS:         voidSpawnTauntMS,
					HexDistanceFromSource: 1,
					DamageMultiplier:      tauntMultiplier,
					Kind:                  combat.SourceItem,
					Taunts:                true,
				})
			},
		},
	}
}

// sunfireTarget prefers the nearest unit not burning yet, then the one
// whose burn has the fewest ticks left.
func sunfireTarget(holder *combat.Unit, units []*combat.Unit) *combat.Unit {
	var best *combat.Unit
	bestDistance := math.MaxInt
	for _, o := range units {
		if _, burning := o.BleedFrom(burnID); burning {
			continue
		}
		if d := o.HexDistanceTo(holder); d < bestDistance {
			bestDistance = d
			best = o
		}
	}
	if best != nil {
		return best
	}
	fewest := math.MaxInt
	for _, o := range units {
		if bl, ok := o.BleedFrom(burnID); ok && bl.RemainingIterations < fewest {
			fewest = bl.RemainingIterations
			best = o
		}
	}
	return best
}

func stackTitans(b *combat.Battle, it *combat.ItemInstance, u *combat.Unit) {
	v, ok := itemValues(b, it, "StackingAD", "StackingAP", "StackCap", "BonusResistsAtStackCap")
	if !ok {
		return
	}
	stacks := len(u.BonusesFrom(it.Key))
	maxStacks := int(v[2])
	if stacks >= maxStacks {
		return
	}
	vars := []combat.BonusVariable{
		combat.Var(combat.StatAttackDamage, v[0]),
		combat.Var(combat.StatAbilityPower, v[1]),
	}
	if stacks == maxStacks-1 {
		vars = append(vars,
			combat.Var(combat.StatArmor, v[3]),
			combat.Var(combat.StatMagicResist, v[3]))
	}
	u.AddBonuses(it.Key, vars...)
}

// applyGrievousBurn wounds target and starts (or refreshes) a true damage
// burn worth a share of its max health.
func applyGrievousBurn(b *combat.Battle, it *combat.ItemInstance, target, source *combat.Unit, ticksPerSecond float64) {
	v, ok := itemValues(b, it, "GrievousWoundsPercent", "BurnPercent", "BurnDuration")
	if !ok || ticksPerSecond <= 0 {
		return
	}
	now := b.Now()
	target.ApplyStatusEffect(now, combat.StatusGrievousWounds, v[2]*1000, v[0]/100)
	repeatsEveryMS := 1000 / ticksPerSecond
	ticks := v[2] * ticksPerSecond
	if ticks < 1 {
		return
	}
	target.ApplyBleed(combat.Bleed{
		SourceID:            burnID,
		SourceUnitID:        source.ID,
		Formula:             combat.NewCalculation(burnID, v[1]/ticks/100, combat.DamageTrue, combat.StatHealth, 1).OfTarget(),
		ActivatesAtMS:       now + repeatsEveryMS,
		RepeatsEveryMS:      repeatsEveryMS,
		RemainingIterations: int(ticks),
	})
}
