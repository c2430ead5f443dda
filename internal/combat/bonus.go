package combat

import "fmt"

// BonusVariable is one stat contribution. ExpiresAtMS of 0 never expires.
type BonusVariable struct {
	Key         BonusKey
	Value       float64
	ExpiresAtMS float64
}

func Var(key BonusKey, value float64) BonusVariable {
	return BonusVariable{Key: key, Value: value}
}

func TimedVar(key BonusKey, value, expiresAtMS float64) BonusVariable {
	return BonusVariable{Key: key, Value: value, ExpiresAtMS: expiresAtMS}
}

type bonusEntry struct {
	source string
	vars   []BonusVariable
}

// BonusScaling grants IntervalAmount to each of Stats every IntervalSeconds
// while active. ExpiresAfterMS of 0 keeps it running for the whole battle.
type BonusScaling struct {
	Source          string
	ActivatedAtMS   float64
	ExpiresAfterMS  float64
	Stats           []BonusKey
	IntervalAmount  float64
	IntervalSeconds float64
}

func (v BonusVariable) live(now float64) bool {
	return v.ExpiresAtMS <= 0 || now < v.ExpiresAtMS
}

// Bonuses sums every unexpired contribution to any of keys.
func (u *Unit) Bonuses(keys ...BonusKey) float64 {
	now := u.battle.Now()
	total := 0.0
	for _, e := range u.bonuses {
		for _, v := range e.vars {
			if !v.live(now) {
				continue
			}
			for _, k := range keys {
				if v.Key == k {
					total += v.Value
					break
				}
			}
		}
	}
	return total
}

// BonusVariants sums key, Bonus<key> and <star>Star<key>.
func (u *Unit) BonusVariants(key BonusKey) float64 {
	return u.Bonuses(key, "Bonus"+key, BonusKey(fmt.Sprintf("%dStar%s", u.Star, key)))
}

func (u *Unit) AddBonuses(source string, vars ...BonusVariable) {
	if len(vars) == 0 {
		return
	}
	u.bonuses = append(u.bonuses, bonusEntry{source: source, vars: append([]BonusVariable(nil), vars...)})
}

// SetBonusesFor replaces every entry from source. With no vars the source
// is cleared.
func (u *Unit) SetBonusesFor(source string, vars ...BonusVariable) {
	kept := u.bonuses[:0]
	for _, e := range u.bonuses {
		if e.source != source {
			kept = append(kept, e)
		}
	}
	u.bonuses = kept
	u.AddBonuses(source, vars...)
}

// BonusesFrom returns the entries attributed to source, one slice per
// AddBonuses call.
func (u *Unit) BonusesFrom(source string) [][]BonusVariable {
	var out [][]BonusVariable
	for _, e := range u.bonuses {
		if e.source == source {
			out = append(out, e.vars)
		}
	}
	return out
}

// QueueBonus adds the bonus once delayMS has passed.
func (u *Unit) QueueBonus(now, delayMS float64, source string, vars ...BonusVariable) {
	u.pending.bonuses = append(u.pending.bonuses, pendingBonus{
		startsAtMS: now + delayMS,
		source:     source,
		vars:       vars,
	})
}

func (u *Unit) AddScaling(s *BonusScaling) {
	u.scalings = append(u.scalings, s)
}

// updateBonuses prunes expired entries and advances scalings.
func (u *Unit) updateBonuses(now float64) {
	kept := u.bonuses[:0]
	for _, e := range u.bonuses {
		vars := e.vars[:0]
		for _, v := range e.vars {
			if v.live(now) {
				vars = append(vars, v)
			}
		}
		if len(vars) > 0 {
			e.vars = vars
			kept = append(kept, e)
		}
	}
	u.bonuses = kept

	scalings := u.scalings[:0]
	for _, s := range u.scalings {
		if s.ExpiresAfterMS > 0 && now >= s.ActivatedAtMS+s.ExpiresAfterMS {
			continue
		}
		scalings = append(scalings, s)
		if s.IntervalSeconds <= 0 || now < s.ActivatedAtMS+s.IntervalSeconds*1000 {
			continue
		}
		for _, stat := range s.Stats {
			switch stat {
			case StatHealth:
				u.GainHealth(s.IntervalAmount, true)
			case StatMana:
				u.GainMana(s.IntervalAmount)
			default:
				u.AddBonuses(s.Source, Var(stat, s.IntervalAmount))
			}
		}
		if s.ExpiresAfterMS > 0 {
			s.ExpiresAfterMS -= now - s.ActivatedAtMS
		}
		s.ActivatedAtMS = now
	}
	u.scalings = scalings
}

func (u *Unit) promotePendingBonuses(now float64) {
	kept := u.pending.bonuses[:0]
	for _, p := range u.pending.bonuses {
		if now >= p.startsAtMS {
			u.AddBonuses(p.source, p.vars...)
			continue
		}
		kept = append(kept, p)
	}
	u.pending.bonuses = kept
}
