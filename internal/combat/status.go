package combat

// StatusEffect is one slot of a unit's status table. Amount is a fraction
// for armor/magic resist reduction, grievous wounds and aoe damage
// reduction, and percent points for attack speed slow.
type StatusEffect struct {
	Active      bool
	ExpiresAtMS float64
	Amount      float64
}

// ApplyStatusEffect activates kind until now+durationMS. An active effect
// is only overwritten by one that lasts strictly longer.
func (u *Unit) ApplyStatusEffect(now float64, kind StatusKind, durationMS, amount float64) {
	if kind < 0 || kind >= statusCount || u.Dead {
		return
	}
	expires := now + durationMS
	slot := &u.status[kind]
	if slot.Active && expires <= slot.ExpiresAtMS {
		return
	}
	slot.Active = true
	slot.ExpiresAtMS = expires
	slot.Amount = amount
	if kind == StatusStealth || kind == StatusBanished {
		u.battle.invalidatePaths()
		u.battle.dropTargetsOn(u)
	}
	u.battle.emit("Status", map[string]any{
		"unit": u.ID, "status": kind.String(), "until": expires, "amount": amount,
	})
}

func (u *Unit) ClearStatusEffect(kind StatusKind) {
	if kind < 0 || kind >= statusCount {
		return
	}
	u.status[kind] = StatusEffect{}
}

func (u *Unit) Status(kind StatusKind) StatusEffect {
	if kind < 0 || kind >= statusCount {
		return StatusEffect{}
	}
	return u.status[kind]
}

func (u *Unit) updateStatusEffects(now float64) {
	for k := range u.status {
		slot := &u.status[k]
		if slot.Active && now >= slot.ExpiresAtMS {
			*slot = StatusEffect{}
			if StatusKind(k) == StatusStealth || StatusKind(k) == StatusBanished {
				u.battle.invalidatePaths()
			}
		}
	}
}
