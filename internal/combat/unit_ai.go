package combat

import (
	"go.uber.org/zap"

	"hexbattle/internal/hexgrid"
)

const (
	backlineJumpMS    = 600
	defaultManaLockMS = 1000
)

// UpdateTarget drops a target that died, became untargetable or left
// range, then acquires the nearest enemy when u has none.
func (u *Unit) UpdateTarget() {
	b := u.battle
	if t := u.Target(); t != nil {
		if !t.IsAttackable() || u.HexDistanceTo(t) > u.Range() {
			u.targetID = ""
		}
	} else {
		u.targetID = ""
	}
	if u.targetID != "" {
		return
	}
	if t := b.pick(b.NearestEnemies(u, u.Range())); t != nil {
		u.SetTarget(t)
		b.emit("Target", map[string]any{"unit": u.ID, "target": t.ID})
	}
}

// UpdateAttack performs a basic attack when the cadence allows. The first
// check against a new target only anchors the cadence.
func (u *Unit) UpdateAttack(now float64) {
	target := u.Target()
	if target == nil {
		return
	}
	b := u.battle
	as := u.AttackSpeed()
	if as <= 0 {
		return
	}
	msBetween := 1000 / as
	if !u.attackAnchored {
		u.attackAnchored = true
		u.attackStartAtMS = now
		return
	}
	if now < u.attackStartAtMS+msBetween {
		return
	}
	formula := NewCalculation("BasicAttack", u.AttackDamage(), DamagePhysical, "", 0)
	if u.instantAttack {
		b.ApplyDamage(target, DamageRequest{Source: u, Kind: SourceAttack, Formula: formula, Original: true})
		u.attackStartAtMS = now
	} else {
		speed := u.Data.BasicAttackMissileSpeed
		if speed <= 0 {
			speed = u.Data.CritAttackMissileSpeed
		}
		u.QueueProjectile(now, ProjectileData{
			StartsAfterMS: msBetween / 4,
			MissileSpeed:  speed,
			Target:        target,
			Formula:       formula,
			Kind:          SourceAttack,
		})
		u.attackStartAtMS = now
	}
	u.basicAttacks++
	b.emit("Attack", map[string]any{"unit": u.ID, "target": target.ID, "n": u.basicAttacks})
	u.GainMana(manaPerAttack)
	u.runBasicAttackHooks(target, true)
}

func (u *Unit) runBasicAttackHooks(target *Unit, canReProc bool) {
	b := u.battle
	for _, it := range u.Items {
		if h := b.reg.item(it.Data.ID); h != nil && h.BasicAttack != nil {
			h.BasicAttack(b, it, target, u, canReProc)
		}
	}
	for _, t := range u.Traits {
		if h := b.reg.trait(t.Name); h != nil && h.BasicAttack != nil {
			if effect := b.ActiveEffect(u.Team, t.Name); effect != nil {
				h.BasicAttack(b, effect, target, u, canReProc)
			}
		}
	}
}

func (u *Unit) ReadyToCast() bool {
	if u.battle.reg.ability(u.Name) == nil {
		return false
	}
	max := u.ManaMax()
	return max > 0 && u.Mana >= max
}

// CastAbility runs the unit's ability, resets mana and notifies holders of
// cast-reactive effects within range.
func (u *Unit) CastAbility(now float64) {
	b := u.battle
	fn := b.reg.ability(u.Name)
	if fn == nil {
		return
	}
	spell := u.CurrentSpell()
	if spell == nil {
		b.log.Warn("ability without spell data", zap.String("champion", u.Name))
		u.Mana = 0
		return
	}
	b.emit("Cast", map[string]any{"unit": u.ID, "spell": spell.Name})
	fn(b, spell, u)
	u.Mana = spell.ManaReset
	u.castWithinHexRange()
}

func (u *Unit) castWithinHexRange() {
	b := u.battle
	for _, holder := range b.units {
		if holder == u || !holder.IsInteractable() {
			continue
		}
		for _, it := range holder.Items {
			h := b.reg.item(it.Data.ID)
			if h == nil || h.CastWithinHexRange == nil {
				continue
			}
			radius, ok := it.Data.Effect("HexRange")
			if !ok {
				b.log.Warn("item hex range missing", zap.String("item", it.Data.ID))
				continue
			}
			if hexgrid.Distance(holder.Hex, u.Hex) <= int(radius) {
				h.CastWithinHexRange(b, it, u, holder)
			}
		}
		for _, t := range holder.Traits {
			h := b.reg.trait(t.Name)
			if h == nil || h.CastWithinHexRange == nil {
				continue
			}
			effect := b.ActiveEffect(holder.Team, t.Name)
			if effect == nil {
				continue
			}
			radius, ok := effect.Var("HexRange")
			if !ok {
				b.log.Warn("trait hex range missing", zap.String("trait", t.Name))
				continue
			}
			if hexgrid.Distance(holder.Hex, u.Hex) <= int(radius) {
				h.CastWithinHexRange(b, effect, u, holder)
			}
		}
	}
}

// UpdateMove takes one step from the pathfinder and locks movement for the
// time a hex takes at u's move speed.
func (u *Unit) UpdateMove(now float64) bool {
	b := u.battle
	next, ok := b.paths.NextHex(b, u)
	if !ok {
		return false
	}
	from := u.Hex
	u.Hex = next
	u.moveUntilMS = now + u.msPerHex()
	b.invalidatePaths()
	b.emit("Move", map[string]any{
		"unit": u.ID, "from": []int{from.Col, from.Row}, "to": []int{next.Col, next.Row},
	})
	return true
}

// JumpToBackline moves an assassin to the free hex nearest the enemy back
// row. The unit stays untargetable until it lands.
func (u *Unit) JumpToBackline(now float64) {
	b := u.battle
	row := 0
	if u.Team == TeamAlly {
		row = hexgrid.Rows - 1
	}
	dest, ok := b.ClosestFreeHex(hexgrid.Hex{Col: u.Hex.Col, Row: row}, u)
	if ok {
		from := u.Hex
		u.Hex = dest
		b.emit("Jump", map[string]any{
			"unit": u.ID, "from": []int{from.Col, from.Row}, "to": []int{dest.Col, dest.Row},
		})
	}
	u.moveUntilMS = now + backlineJumpMS
	u.jumped = true
	b.invalidatePaths()
}

// land ends the untargetable window of a finished backline jump.
func (u *Unit) land(now float64) {
	if u.ghosting && u.jumped && now >= u.moveUntilMS {
		u.ghosting = false
		u.battle.invalidatePaths()
	}
}
