package combat

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"hexbattle/internal/hexgrid"
)

type pendingBonus struct {
	startsAtMS float64
	source     string
	vars       []BonusVariable
}

// Unit is one combatant. Units are owned by their Battle and refer to each
// other by ID only.
type Unit struct {
	ID             string
	Name           string
	Data           *ChampionData
	Star           int
	StarLocked     bool
	Team           int
	StartHex       hexgrid.Hex
	Hex            hexgrid.Hex
	Items          []*ItemInstance
	Traits         []*TraitData
	Dead           bool
	Health         float64
	HealthMax      float64
	Mana           float64
	StarMultiplier float64
	TransformIndex int
	// SpellCrit lets magic damage from this unit critically strike.
	SpellCrit bool
	// Summoned units do not count toward synergies.
	Summoned bool

	battle          *Battle
	itemIDs         []string
	targetID        string
	fixedAS         float64
	hasFixedAS      bool
	instantAttack   bool
	ghosting        bool
	jumped          bool
	attackAnchored  bool
	attackStartAtMS float64
	moveUntilMS     float64
	manaLockUntilMS float64
	basicAttacks    int
	procCarry       float64

	bonuses  []bonusEntry
	scalings []*BonusScaling
	shields  []*Shield
	bleeds   []*Bleed
	status   [statusCount]StatusEffect
	hpLatch  map[string]float64
	pending  struct {
		bonuses     []pendingBonus
		hexEffects  []*HexEffect
		projectiles []*Projectile
	}
}

func newUnit(b *Battle, id string, data *ChampionData, hex hexgrid.Hex, star int, items []string) *Unit {
	u := &Unit{
		ID:       id,
		Name:     data.Name,
		Data:     data,
		Star:     star,
		StartHex: hex,
		Hex:      hex,
		Team:     hexgrid.TeamOf(hex),
		battle:   b,
		itemIDs:  append([]string(nil), items...),
	}
	if data.StarLocked > 0 {
		u.Star = data.StarLocked
		u.StarLocked = true
	}
	if u.Star < 1 {
		u.Star = 1
	}
	u.instantAttack = data.Stats.Range <= 1
	return u
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s(%s t%d)", u.Name, u.ID, u.Team)
}

func (u *Unit) reset() {
	b := u.battle
	u.StarMultiplier = math.Pow(1.8, float64(u.Star-1))
	u.Dead = false
	u.targetID = ""
	u.Hex = u.StartHex
	u.attackAnchored = false
	u.attackStartAtMS = 0
	u.moveUntilMS = 0
	u.manaLockUntilMS = 0
	u.basicAttacks = 0
	u.procCarry = 0
	u.jumped = false
	u.SpellCrit = false
	u.status = [statusCount]StatusEffect{}
	u.hpLatch = map[string]float64{}
	u.bonuses = nil
	u.scalings = nil
	u.shields = nil
	u.bleeds = nil
	u.pending.bonuses = nil
	u.pending.hexEffects = nil
	u.pending.projectiles = nil

	u.Items = u.Items[:0]
	for i, id := range u.itemIDs {
		data, ok := b.book.Item(id)
		if !ok {
			b.log.Warn("unknown item skipped", zap.String("unit", u.ID), zap.String("item", id))
			continue
		}
		u.Items = append(u.Items, &ItemInstance{Data: data, Key: fmt.Sprintf("%s#%d", id, i)})
	}
	u.Traits = u.Traits[:0]
	for _, name := range u.traitNames() {
		if t, ok := b.book.Trait(name); ok {
			u.Traits = append(u.Traits, t)
		}
	}
	if len(u.Data.Spells) > 1 {
		// Dual-form champions start in their second form on the back two rows.
		row := u.StartHex.Row
		if row >= 2 && row < hexgrid.Rows-2 {
			u.TransformIndex = 0
		} else {
			u.TransformIndex = 1
		}
	} else {
		u.TransformIndex = 0
	}
	u.ghosting = u.JumpsToBackline()
	u.fixedAS, u.hasFixedAS = u.SpellValue("AttackSpeed")
}

// traitNames lists the champion's traits plus those granted by emblems.
func (u *Unit) traitNames() []string {
	seen := map[string]bool{}
	var out []string
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, t := range u.Data.Traits {
		add(t)
	}
	for _, id := range u.itemIDs {
		if it, ok := u.battle.book.Item(id); ok {
			if name, ok := emblemTrait(it.Name); ok {
				add(name)
			}
		}
	}
	return out
}

func emblemTrait(itemName string) (string, bool) {
	const suffix = " Emblem"
	if len(itemName) > len(suffix) && itemName[len(itemName)-len(suffix):] == suffix {
		return itemName[:len(itemName)-len(suffix)], true
	}
	return "", false
}

// finishReset fills vitals once bonuses from items and synergies are known.
func (u *Unit) finishReset() {
	u.Mana = u.Data.Stats.InitialMana + u.Bonuses(StatMana)
	u.Health = u.Data.Stats.HP*u.StarMultiplier + u.BonusVariants(StatHealth)
	u.HealthMax = u.Health
}

func (u *Unit) Battle() *Battle { return u.battle }

func (u *Unit) OpposingTeam() int { return 1 - u.Team }

func (u *Unit) CurrentSpell() *Spell {
	if len(u.Data.Spells) == 0 {
		return nil
	}
	idx := u.TransformIndex
	if idx >= len(u.Data.Spells) {
		idx = 0
	}
	return u.Data.Spells[idx]
}

func (u *Unit) SpellValue(name string) (float64, bool) {
	return u.CurrentSpell().Value(name, u.Star)
}

// SpellCalculation builds an ability-power scaled formula from a spell
// variable, or nil when the spell has no such variable.
func (u *Unit) SpellCalculation(variable string, typ DamageType) *SpellCalculation {
	v, ok := u.SpellValue(variable)
	if !ok {
		return nil
	}
	return NewCalculation(variable, v, typ, StatAbilityPower, 0.01)
}

// Target resolves the current target through the battle arena.
func (u *Unit) Target() *Unit {
	if u.targetID == "" {
		return nil
	}
	t, ok := u.battle.Unit(u.targetID)
	if !ok {
		return nil
	}
	return t
}

func (u *Unit) SetTarget(t *Unit) {
	if t == nil {
		u.targetID = ""
		return
	}
	if t.ID != u.targetID {
		u.attackAnchored = false
	}
	u.targetID = t.ID
}

func (u *Unit) HasItem(id string) bool {
	for _, it := range u.Items {
		if it.Data.ID == id {
			return true
		}
	}
	return false
}

func (u *Unit) HasTrait(name string) bool {
	for _, t := range u.Traits {
		if t.Name == name {
			return true
		}
	}
	return false
}

// HasActive reports whether any bonus entry is attributed to source.
func (u *Unit) HasActive(source string) bool {
	for _, e := range u.bonuses {
		if e.source == source {
			return true
		}
	}
	return false
}

func (u *Unit) JumpsToBackline() bool { return u.HasTrait("Assassin") }

func (u *Unit) IsAttackable() bool {
	return !u.Dead && !u.ghosting && !u.status[StatusStealth].Active && !u.status[StatusBanished].Active
}

// IsInteractable reports whether the unit takes part in the fight at all.
func (u *Unit) IsInteractable() bool {
	return !u.Dead && !u.status[StatusBanished].Active
}

func (u *Unit) HasCollision() bool {
	return !u.Dead && !u.ghosting
}

func (u *Unit) CanAttack() bool {
	return !u.status[StatusStunned].Active
}

func (u *Unit) IsMoving(now float64) bool { return now < u.moveUntilMS }

func (u *Unit) HexDistanceTo(o *Unit) int { return hexgrid.Distance(u.Hex, o.Hex) }

// IsNthBasicAttack reports whether the latest basic attack was a multiple
// of n.
func (u *Unit) IsNthBasicAttack(n int) bool {
	return n > 0 && u.basicAttacks > 0 && u.basicAttacks%n == 0
}

// ResetAttackCadence makes the next cadence check fire immediately.
func (u *Unit) ResetAttackCadence() {
	u.attackStartAtMS = -1e9
}

func (u *Unit) HealthProportion() float64 {
	if u.HealthMax <= 0 {
		return 0
	}
	return u.Health / u.HealthMax
}

// CheckHPThreshold fires once per threshold value: true the first time
// health is at or below threshold (a fraction) since that exact value was
// last latched under id.
func (u *Unit) CheckHPThreshold(id string, threshold float64) bool {
	if u.HealthProportion() > threshold {
		return false
	}
	if last, ok := u.hpLatch[id]; ok && last == threshold {
		return false
	}
	u.hpLatch[id] = threshold
	return true
}

// UnitsWithin returns interactable units of team (NoTeam for any) within
// radius hexes, excluding u.
func (u *Unit) UnitsWithin(radius int, team int) []*Unit {
	var out []*Unit
	for _, o := range u.battle.UnitsWithin(u.Hex, radius, team) {
		if o != u {
			out = append(out, o)
		}
	}
	return out
}

// Allies returns the living units of u's team, u included.
func (u *Unit) Allies() []*Unit {
	return u.battle.AliveUnitsOfTeam(u.Team)
}

// AccumulateProc adds chance (a fraction) to u's proc carry and reports
// whether a whole proc is due. Repeated calls average out to chance per
// call without drawing random numbers.
func (u *Unit) AccumulateProc(chance float64) bool {
	if chance <= 0 {
		return false
	}
	u.procCarry += chance
	if u.procCarry >= 1 {
		u.procCarry--
		return true
	}
	return false
}
