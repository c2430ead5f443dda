package combat

// Shield absorbs damage. A spell shield instead blocks one whole enemy
// spell instance and is then removed. Times are battle milliseconds; zero
// ActivatesAtMS means active from the start, zero ExpiresAtMS means no
// expiry. A repeating shield re-arms to its original amount every
// RepeatsEveryMS and stays up for DurationMS after each activation.
type Shield struct {
	Source         string
	Amount         float64
	ActivatesAtMS  float64
	ExpiresAtMS    float64
	DurationMS     float64
	RepeatsEveryMS float64
	IsSpellShield  bool
	// BonusDamage fires at the holder's attack target while the shield is up.
	BonusDamage *SpellCalculation

	activated    bool
	repeatAmount float64
}

func (s *Shield) Active() bool { return s.activated }

// AddShield arms s relative to now.
func (u *Unit) AddShield(now float64, s *Shield) {
	s.repeatAmount = s.Amount
	s.activated = s.ActivatesAtMS <= now
	if s.activated && s.DurationMS > 0 && s.ExpiresAtMS == 0 {
		s.ExpiresAtMS = now + s.DurationMS
	}
	if amp := u.Bonuses(StatHealShieldBoost); amp != 0 && !s.IsSpellShield {
		s.Amount *= 1 + amp/100
		s.repeatAmount = s.Amount
	}
	u.shields = append(u.shields, s)
}

func (u *Unit) Shields() []*Shield { return u.shields }

// ShieldTotal sums the absorbing amount of active shields.
func (u *Unit) ShieldTotal() float64 {
	total := 0.0
	for _, s := range u.shields {
		if s.activated && !s.IsSpellShield {
			total += s.Amount
		}
	}
	return total
}

func (u *Unit) updateShields(now float64) {
	kept := u.shields[:0]
	for _, s := range u.shields {
		if s.RepeatsEveryMS > 0 {
			if now >= s.ActivatesAtMS {
				s.activated = true
				s.Amount = s.repeatAmount
				s.ActivatesAtMS += s.RepeatsEveryMS
				if s.DurationMS > 0 {
					s.ExpiresAtMS = now + s.DurationMS
				}
			}
			if s.ExpiresAtMS > 0 && now >= s.ExpiresAtMS {
				s.activated = false
				s.ExpiresAtMS = 0
			}
			kept = append(kept, s)
			continue
		}
		if !s.activated && now >= s.ActivatesAtMS {
			s.activated = true
			if s.DurationMS > 0 {
				s.ExpiresAtMS = now + s.DurationMS
			}
		}
		if s.ExpiresAtMS > 0 && now >= s.ExpiresAtMS {
			continue
		}
		kept = append(kept, s)
	}
	u.shields = kept
}

// consumeSpellShield removes the first active spell shield.
func (u *Unit) consumeSpellShield() bool {
	for i, s := range u.shields {
		if s.activated && s.IsSpellShield {
			u.shields = append(u.shields[:i], u.shields[i+1:]...)
			return true
		}
	}
	return false
}

// absorb runs amount through active shields in order and returns what is
// left. Spent one-shot shields are dropped; repeating ones wait to re-arm.
func (u *Unit) absorb(amount float64) float64 {
	kept := u.shields[:0]
	for _, s := range u.shields {
		if amount > 0 && s.activated && !s.IsSpellShield && s.Amount > 0 {
			taken := min(s.Amount, amount)
			s.Amount -= taken
			amount -= taken
			if s.Amount <= 0 {
				if s.RepeatsEveryMS <= 0 {
					continue
				}
				s.activated = false
			}
		}
		kept = append(kept, s)
	}
	u.shields = kept
	return amount
}
