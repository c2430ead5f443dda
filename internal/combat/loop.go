package combat

import (
	"context"
	"time"
)

// TickMS is the fixed simulation quantum (30 Hz).
const TickMS = 1000.0 / 30

const (
	moveLockoutJumpersMS = 500
	moveLockoutMeleeMS   = 1000
)

// Step advances the battle by exactly one tick and reports whether it is
// still running.
func (b *Battle) Step() bool {
	if b.over {
		return false
	}
	if !b.started {
		b.tick(0, 0)
	} else {
		b.tick(b.nowMS+TickMS, TickMS)
	}
	return !b.over
}

// tick runs one ordered pass at elapsed battle time now.
func (b *Battle) tick(now, diffMS float64) {
	b.started = true
	b.nowMS = now
	b.diffMS = diffMS
	b.ticks++
	if now >= moveLockoutJumpersMS && !b.didBacklineJump {
		b.didBacklineJump = true
		for _, u := range b.units {
			if u.ghosting && !u.jumped {
				u.ghosting = false
				b.invalidatePaths()
			}
		}
	}

	for team := range b.synergies {
		for _, syn := range b.synergies[team] {
			if syn.Active == nil {
				continue
			}
			h := b.reg.trait(syn.Trait.Name)
			if h == nil || h.Update == nil {
				continue
			}
			var holders []*Unit
			for _, u := range b.units {
				if !u.Dead && u.Team == team && u.HasTrait(syn.Trait.Name) {
					holders = append(holders, u)
				}
			}
			h.Update(b, syn.Active, holders)
		}
	}

	for _, u := range b.units {
		if u.Dead {
			continue
		}
		u.updateBleeds(now)
		u.updateBonuses(now)
		u.updateRegen(diffMS)
		u.updateShields(now)
		u.updateStatusEffects(now)
		u.land(now)
		for _, it := range u.Items {
			if h := b.reg.item(it.Data.ID); h != nil && h.Update != nil && !u.Dead {
				h.Update(b, it, u)
			}
		}
	}

	for _, u := range b.units {
		if u.Dead {
			continue
		}
		b.promotePending(u, now)
		if b.over || !u.IsInteractable() || u.IsMoving(now) || !u.CanAttack() {
			continue
		}
		if b.didBacklineJump {
			u.UpdateTarget()
		}
		switch {
		case b.didBacklineJump && u.ReadyToCast():
			u.CastAbility(now)
		case u.Target() != nil:
			u.UpdateAttack(now)
		default:
			if now < moveLockoutMeleeMS {
				if !b.didBacklineJump {
					if u.JumpsToBackline() && !u.jumped {
						u.JumpToBackline(now)
					}
					continue
				}
				if u.Range() > 1 {
					continue
				}
			}
			u.UpdateMove(now)
		}
	}

	hexEffects := b.hexEffects[:0]
	for _, h := range b.hexEffects {
		if h.update(b, now) {
			hexEffects = append(hexEffects, h)
		}
	}
	b.hexEffects = hexEffects

	projectiles := b.projectiles[:0]
	for _, p := range b.projectiles {
		if p.update(b, diffMS) {
			projectiles = append(projectiles, p)
		}
	}
	b.projectiles = projectiles
}

// promotePending moves due pending bonuses, hex effects and projectiles of
// u into play.
func (b *Battle) promotePending(u *Unit, now float64) {
	u.promotePendingBonuses(now)
	hexEffects := u.pending.hexEffects[:0]
	for _, h := range u.pending.hexEffects {
		if now >= h.StartsAtMS {
			h.start()
			b.hexEffects = append(b.hexEffects, h)
			continue
		}
		hexEffects = append(hexEffects, h)
	}
	u.pending.hexEffects = hexEffects
	projectiles := u.pending.projectiles[:0]
	for _, p := range u.pending.projectiles {
		if now >= p.StartsAtMS {
			b.projectiles = append(b.projectiles, p)
			continue
		}
		projectiles = append(projectiles, p)
	}
	u.pending.projectiles = projectiles
}

// Scheduler drives a battle from wall-clock frame timestamps. Frames that
// arrive less than one quantum after the previous processed frame are
// skipped, and one call never advances battle time by more than TickMS;
// after a stall the battle falls behind the wall clock instead of jumping.
type Scheduler struct {
	b          *Battle
	started    bool
	previousMS float64
}

func NewScheduler(b *Battle) *Scheduler { return &Scheduler{b: b} }

// Frame offers a frame at frameMS and reports whether a tick ran.
func (s *Scheduler) Frame(frameMS float64) bool {
	if s.b.over {
		return false
	}
	if !s.started {
		s.started = true
		s.previousMS = frameMS
		s.b.tick(0, 0)
		return true
	}
	diff := frameMS - s.previousMS
	if diff < TickMS-1 {
		return false
	}
	step := min(diff, TickMS)
	s.b.tick(s.b.nowMS+step, step)
	s.previousMS = frameMS
	return true
}

// RunRealtime ticks b at 30 Hz until the battle ends, maxMS of battle time
// passes or ctx is cancelled. onTick sees the battle after every tick.
func RunRealtime(ctx context.Context, b *Battle, maxMS float64, onTick func(*Battle)) error {
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()
	start := time.Now()
	s := NewScheduler(b)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			frame := float64(t.Sub(start)) / float64(time.Millisecond)
			if !s.Frame(frame) {
				continue
			}
			if onTick != nil {
				onTick(b)
			}
			if b.over || b.nowMS >= maxMS {
				return nil
			}
		}
	}
}
