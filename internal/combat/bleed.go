package combat

import "slices"

// Bleed is a finite damage-over-time effect keyed by SourceID.
type Bleed struct {
	SourceID            string
	SourceUnitID        string
	Formula             *SpellCalculation
	ActivatesAtMS       float64
	RepeatsEveryMS      float64
	RemainingIterations int
}

// ApplyBleed adds a bleed, or refreshes the existing one with the same
// SourceID in place.
func (u *Unit) ApplyBleed(bl Bleed) {
	for _, existing := range u.bleeds {
		if existing.SourceID == bl.SourceID {
			existing.RemainingIterations = bl.RemainingIterations
			existing.Formula = bl.Formula
			existing.SourceUnitID = bl.SourceUnitID
			existing.RepeatsEveryMS = bl.RepeatsEveryMS
			return
		}
	}
	u.bleeds = append(u.bleeds, &bl)
}

func (u *Unit) BleedFrom(sourceID string) (*Bleed, bool) {
	for _, bl := range u.bleeds {
		if bl.SourceID == sourceID {
			return bl, true
		}
	}
	return nil, false
}

func (u *Unit) BleedCount() int { return len(u.bleeds) }

// updateBleeds ticks due bleeds. Hooks may apply bleeds to u while one
// resolves, so the sweep walks a copy and prunes finished bleeds afterwards.
func (u *Unit) updateBleeds(now float64) {
	b := u.battle
	for _, bl := range slices.Clone(u.bleeds) {
		if now < bl.ActivatesAtMS || bl.RemainingIterations <= 0 {
			continue
		}
		source, _ := b.Unit(bl.SourceUnitID)
		b.ApplyDamage(u, DamageRequest{
			Source:   source,
			Kind:     SourceBleed,
			Formula:  bl.Formula,
			Original: false,
		})
		if u.Dead {
			u.bleeds = nil
			return
		}
		bl.RemainingIterations--
		if bl.RemainingIterations > 0 {
			bl.ActivatesAtMS = now + bl.RepeatsEveryMS
		}
	}
	u.bleeds = slices.DeleteFunc(u.bleeds, func(bl *Bleed) bool {
		return bl.RemainingIterations <= 0
	})
}
