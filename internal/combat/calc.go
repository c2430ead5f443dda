package combat

import "math"

// CalcSubpart is one term of a damage formula: a per-star value optionally
// scaled by a stat of the source (or the target when FromTarget is set).
type CalcSubpart struct {
	Variable   string
	StarValues []float64
	Stat       BonusKey
	Ratio      float64
	Max        float64 // 0 means uncapped
	FromTarget bool
}

type CalcPart struct {
	Product  bool
	Subparts []CalcSubpart
}

// SpellCalculation is a formula evaluated against live unit stats when
// the damage it describes resolves.
type SpellCalculation struct {
	Type      DamageType
	AsPercent bool
	Parts     []CalcPart
}

// NewCalculation builds a single-term formula. stat may be empty, in which
// case value is used as is.
func NewCalculation(variable string, value float64, typ DamageType, stat BonusKey, ratio float64) *SpellCalculation {
	return &SpellCalculation{
		Type: typ,
		Parts: []CalcPart{{
			Subparts: []CalcSubpart{{
				Variable:   variable,
				StarValues: []float64{value, value, value, value},
				Stat:       stat,
				Ratio:      ratio,
			}},
		}},
	}
}

// Capped returns c with every subpart limited to max.
func (c *SpellCalculation) Capped(max float64) *SpellCalculation {
	for i := range c.Parts {
		for j := range c.Parts[i].Subparts {
			c.Parts[i].Subparts[j].Max = max
		}
	}
	return c
}

// OfTarget makes every stat lookup read the damaged unit instead of the
// source.
func (c *SpellCalculation) OfTarget() *SpellCalculation {
	for i := range c.Parts {
		for j := range c.Parts[i].Subparts {
			c.Parts[i].Subparts[j].FromTarget = true
		}
	}
	return c
}

func starValue(values []float64, star int) float64 {
	if len(values) == 0 {
		return 0
	}
	idx := star - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return values[idx]
}

// Solve evaluates c for source against target. An attack damage term forces
// physical damage; an ability power term makes untyped damage magic.
func (c *SpellCalculation) Solve(source, target *Unit) (float64, DamageType) {
	if c == nil {
		return 0, DamageUnset
	}
	typ := c.Type
	total := 0.0
	for _, part := range c.Parts {
		acc := 0.0
		if part.Product {
			acc = 1
		}
		for _, sp := range part.Subparts {
			star := 1
			if source != nil {
				star = source.Star
			}
			value := starValue(sp.StarValues, star)
			if sp.Stat != "" {
				switch {
				case sp.Stat == StatAttackDamage:
					typ = DamagePhysical
				case sp.Stat == StatAbilityPower && typ == DamageUnset:
					typ = DamageMagic
				}
				statUnit := source
				if sp.FromTarget {
					statUnit = target
				}
				stat := 0.0
				if statUnit != nil {
					stat = statUnit.Stat(sp.Stat)
				}
				value *= stat * sp.Ratio
			}
			if sp.Max > 0 {
				value = math.Min(sp.Max, value)
			}
			if part.Product {
				acc *= value
			} else {
				acc += value
			}
		}
		total += acc
	}
	if c.AsPercent {
		total *= 100
	}
	return total, typ
}
