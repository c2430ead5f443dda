package combat

import "math"

const (
	maxAttackSpeed      = 5.0
	hexProportion       = 0.126
	hexMoveLeagueUnits  = 180.0
	defaultMoveSpeed    = 550.0
	mutantSynapticWeb   = "SynapticWeb"
	synapticManaKey     = "MutantSynapticManaCostReduction"
	adAttackSpeedFactor = "ADFromAttackSpeed"
)

func (u *Unit) AttackDamage() float64 {
	ad := u.Data.Stats.Damage*u.StarMultiplier + u.BonusVariants(StatAttackDamage)
	if u.hasFixedAS {
		if mult, ok := u.SpellValue(adAttackSpeedFactor); ok {
			ad += u.bonusAttackSpeed() * 100 * mult
		}
	}
	return ad
}

// AbilityPower is 100 at baseline.
func (u *Unit) AbilityPower() float64 {
	return 100 + u.BonusVariants(StatAbilityPower)
}

func (u *Unit) Armor() float64 {
	return u.Data.Stats.Armor + u.BonusVariants(StatArmor)
}

func (u *Unit) MagicResist() float64 {
	return u.Data.Stats.MagicResist + u.BonusVariants(StatMagicResist)
}

func (u *Unit) bonusAttackSpeed() float64 {
	return u.BonusVariants(StatAttackSpeed) / 100
}

// AttackSpeed is attacks per second, capped at 5, after any slow.
func (u *Unit) AttackSpeed() float64 {
	as := u.Data.Stats.AttackSpeed + u.bonusAttackSpeed()
	if u.hasFixedAS {
		as = u.fixedAS
	}
	as = math.Min(maxAttackSpeed, as)
	if slow := u.status[StatusAttackSpeedSlow]; slow.Active {
		as *= 1 - math.Min(1, slow.Amount/100)
	}
	return as
}

// CritChance may exceed 1; the excess feeds CritMultiplier.
func (u *Unit) CritChance() float64 {
	return u.Data.Stats.CritChance + u.Bonuses(StatCritChance)/100
}

func (u *Unit) CritMultiplier() float64 {
	excess := math.Max(0, u.CritChance()-1)
	return u.Data.Stats.CritMultiplier + excess + u.Bonuses(StatCritMultiplier)/100
}

func (u *Unit) CritReduction() float64 {
	return u.Bonuses(StatCritReduction) / 100
}

func (u *Unit) DodgeChance() float64 {
	return u.Bonuses(StatDodgeChance) / 100
}

func (u *Unit) DodgePrevention() float64 {
	return u.Bonuses(StatDodgePrevention) / 100
}

func (u *Unit) ManaMax() float64 {
	base := u.Data.Stats.Mana
	if u.HasTrait("Mutant") {
		if v, ok := u.MutantBonus(mutantSynapticWeb, synapticManaKey); ok {
			base -= v
		}
	}
	return base * (1 - u.Bonuses(StatManaReduction)/100)
}

func (u *Unit) Range() int {
	return u.Data.Stats.Range + int(u.Bonuses(StatHexRangeIncrease))
}

func (u *Unit) MoveSpeed() float64 {
	ms := u.Data.Stats.MoveSpeed
	if ms <= 0 {
		ms = defaultMoveSpeed
	}
	return ms + u.Bonuses(StatMoveSpeed)
}

// msPerHex is how long one hex step locks movement.
func (u *Unit) msPerHex() float64 {
	return 1000 * u.MoveSpeed() * hexProportion / hexMoveLeagueUnits
}

// Stat resolves a formula stat key against live values.
func (u *Unit) Stat(key BonusKey) float64 {
	switch key {
	case StatAttackDamage:
		return u.AttackDamage()
	case StatAbilityPower:
		return u.AbilityPower()
	case StatArmor:
		return u.Armor()
	case StatMagicResist:
		return u.MagicResist()
	case StatAttackSpeed:
		return u.AttackSpeed()
	case StatHealth:
		return u.HealthMax
	case StatMissingHealth:
		return u.HealthMax - u.Health
	case StatMana:
		return u.ManaMax()
	case StatCritChance:
		return u.CritChance()
	case StatCritMultiplier:
		return u.CritMultiplier()
	}
	return u.BonusVariants(key)
}

// MutantBonus reads a variable of the unit team's active Mutant tier when
// the battle runs the given mutation.
func (u *Unit) MutantBonus(mutation, key string) (float64, bool) {
	if u.battle.mutant != mutation {
		return 0, false
	}
	effect := u.battle.ActiveEffect(u.Team, "Mutant")
	return effect.Var(key)
}

// updateRegen applies per-second health and mana regeneration for one tick.
func (u *Unit) updateRegen(diffMS float64) {
	if diffMS <= 0 {
		return
	}
	if hr := u.Bonuses(StatHealthRegen); hr != 0 {
		u.GainHealth(hr*diffMS/1000, true)
	}
	if mr := u.Bonuses(StatManaRegen); mr != 0 {
		u.GainMana(mr * diffMS / 1000)
	}
}
