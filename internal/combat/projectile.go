package combat

// ProjectileData describes a projectile to queue. Zero values pick
// defaults: the current spell's Damage as magic damage and the unit's
// current target.
type ProjectileData struct {
	StartsAfterMS float64
	// MissileSpeed is in league units per second.
	MissileSpeed float64
	Target       *Unit
	Formula      *SpellCalculation
	Kind         SourceKind
	// Spell marks a spell projectile: it locks the caster's mana and
	// counts as spell damage.
	Spell       bool
	OnCollision func(b *Battle, target *Unit)
}

// Projectile travels from its source to a target captured by ID when it
// was queued. A target that has died or vanished by arrival is ignored.
type Projectile struct {
	SourceID    string
	TargetID    string
	StartsAtMS  float64
	Speed       float64
	Formula     *SpellCalculation
	Kind        SourceKind
	OnCollision func(b *Battle, target *Unit)

	launched bool
	pos      Vec2
}

const instantProjectileHexes = 1.0

// QueueProjectile schedules a projectile owned by u.
func (u *Unit) QueueProjectile(now float64, data ProjectileData) *Projectile {
	target := data.Target
	if target == nil {
		target = u.Target()
	}
	if target == nil {
		return nil
	}
	kind := data.Kind
	if data.Spell {
		kind = SourceSpell
	}
	formula := data.Formula
	if formula == nil {
		formula = u.SpellCalculation("Damage", DamageMagic)
	}
	speed := data.MissileSpeed
	if speed <= 0 {
		if spell := u.CurrentSpell(); data.Spell && spell != nil && spell.MissileSpeed > 0 {
			speed = spell.MissileSpeed
		} else {
			speed = 1000
		}
	}
	p := &Projectile{
		SourceID:    u.ID,
		TargetID:    target.ID,
		StartsAtMS:  now + data.StartsAfterMS,
		Speed:       speed,
		Formula:     formula,
		Kind:        kind,
		OnCollision: data.OnCollision,
	}
	u.pending.projectiles = append(u.pending.projectiles, p)
	u.attackStartAtMS = p.StartsAtMS
	if data.Spell {
		u.manaLockUntilMS = p.StartsAtMS + defaultManaLockMS
	}
	return p
}

func (p *Projectile) Position() Vec2 { return p.pos }

// update advances p by diffMS and reports whether it is still in flight.
func (p *Projectile) update(b *Battle, diffMS float64) bool {
	target, ok := b.Unit(p.TargetID)
	if !ok || target.Dead {
		return false
	}
	source, _ := b.Unit(p.SourceID)
	dest := HexCenter(target.Hex)
	if !p.launched {
		p.launched = true
		if source != nil {
			p.pos = HexCenter(source.Hex)
		} else {
			p.pos = dest
		}
		if dest.Sub(p.pos).Len() <= instantProjectileHexes {
			p.collide(b, source, target)
			return false
		}
	}
	step := p.Speed / hexMoveLeagueUnits * diffMS / 1000
	diff := dest.Sub(p.pos)
	if diff.Len() <= step {
		p.pos = dest
		p.collide(b, source, target)
		return false
	}
	p.pos = p.pos.Add(diff.Norm().Scale(step))
	return true
}

func (p *Projectile) collide(b *Battle, source, target *Unit) {
	b.ApplyDamage(target, DamageRequest{
		Source:   source,
		Kind:     p.Kind,
		Formula:  p.Formula,
		Original: true,
	})
	if p.OnCollision != nil {
		p.OnCollision(b, target)
	}
}
