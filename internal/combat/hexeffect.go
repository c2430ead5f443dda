package combat

import "hexbattle/internal/hexgrid"

type TeamFilter int

const (
	TargetEnemies TeamFilter = iota
	TargetAllies
	TargetAll
)

type StatusSpec struct {
	DurationMS float64
	Amount     float64
}

// HexEffectData describes an area pulse around the caster (or at Hexes
// when given). Zero values pick defaults like ProjectileData.
type HexEffectData struct {
	StartsAfterMS         float64
	HexDistanceFromSource int
	Hexes                 []hexgrid.Hex
	Targets               TeamFilter
	Formula               *SpellCalculation
	NoDamage              bool
	DamageMultiplier      float64
	Kind                  SourceKind
	StunMS                float64
	Statuses              map[StatusKind]StatusSpec
	Taunts                bool
	RepeatsEveryMS        float64
	Repeats               int
}

type HexEffect struct {
	HexEffectData
	SourceID   string
	StartsAtMS float64

	nextAtMS  float64
	remaining int
}

// QueueHexEffect schedules h for u. Spell effects also hold u's attack
// cadence and lock its mana until shortly after they start.
func (u *Unit) QueueHexEffect(now float64, data HexEffectData) *HexEffect {
	if data.Formula == nil && !data.NoDamage {
		data.Formula = u.SpellCalculation("Damage", DamageMagic)
	}
	if data.Kind == SourceAttack {
		data.Kind = SourceSpell
	}
	h := &HexEffect{
		HexEffectData: data,
		SourceID:      u.ID,
		StartsAtMS:    now + data.StartsAfterMS,
	}
	u.pending.hexEffects = append(u.pending.hexEffects, h)
	if data.Kind == SourceSpell {
		u.attackStartAtMS = h.StartsAtMS
		u.manaLockUntilMS = h.StartsAtMS + defaultManaLockMS
	}
	return h
}

func (h *HexEffect) start() {
	h.nextAtMS = h.StartsAtMS
	h.remaining = h.Repeats
}

// update fires the pulse when due and reports whether it should stay
// scheduled.
func (h *HexEffect) update(b *Battle, now float64) bool {
	if now < h.nextAtMS {
		return true
	}
	source, ok := b.Unit(h.SourceID)
	if !ok {
		return false
	}
	h.activate(b, source)
	if h.RepeatsEveryMS > 0 && h.remaining > 0 {
		h.remaining--
		h.nextAtMS += h.RepeatsEveryMS
		return true
	}
	return false
}

func (h *HexEffect) team(source *Unit) int {
	switch h.Targets {
	case TargetAllies:
		return source.Team
	case TargetAll:
		return NoTeam
	}
	return source.OpposingTeam()
}

func (h *HexEffect) affected(b *Battle, source *Unit) []*Unit {
	team := h.team(source)
	if len(h.Hexes) == 0 {
		return b.UnitsWithin(source.Hex, h.HexDistanceFromSource, team)
	}
	var out []*Unit
	for _, u := range b.units {
		if !u.IsInteractable() || (team != NoTeam && u.Team != team) {
			continue
		}
		for _, hex := range h.Hexes {
			if u.Hex == hex {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

func (h *HexEffect) activate(b *Battle, source *Unit) {
	now := b.Now()
	units := h.affected(b, source)
	b.emit("HexEffect", map[string]any{"source": source.ID, "units": len(units)})
	for _, u := range units {
		if h.Formula != nil {
			b.ApplyDamage(u, DamageRequest{
				Source:     source,
				Kind:       h.Kind,
				Formula:    h.Formula,
				Area:       true,
				Multiplier: h.DamageMultiplier,
				Original:   true,
			})
		}
		if u.Dead {
			continue
		}
		if h.StunMS > 0 {
			u.ApplyStatusEffect(now, StatusStunned, h.StunMS, 0)
		}
		for kind := StatusKind(0); kind < statusCount; kind++ {
			if spec, ok := h.Statuses[kind]; ok {
				u.ApplyStatusEffect(now, kind, spec.DurationMS, spec.Amount)
			}
		}
		if h.Taunts && u.Team != source.Team && !source.Dead {
			u.SetTarget(source)
		}
	}
}
