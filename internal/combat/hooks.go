package combat

// EffectResults is what innate/apply/team hooks hand back to the battle at
// reset. Every field is optional.
type EffectResults struct {
	Variables []BonusVariable
	Scalings  []*BonusScaling
	Shields   []*Shield
}

func (r *EffectResults) merge(o EffectResults) {
	r.Variables = append(r.Variables, o.Variables...)
	r.Scalings = append(r.Scalings, o.Scalings...)
	r.Shields = append(r.Shields, o.Shields...)
}

// DamageInfo describes one resolved damage instance for reactive hooks.
type DamageInfo struct {
	Original bool
	Target   *Unit
	Source   *Unit
	Kind     SourceKind
	Raw      float64
	Taken    float64
	Type     DamageType
}

// ItemInstance is an item equipped on a unit. Key is unique per unit and
// slot so two copies of the same item keep separate cooldowns and stacks.
type ItemInstance struct {
	Data *ItemData
	Key  string
}

type ItemHooks struct {
	// DisableDefaults drops every static effect variable; DisabledKeys drops
	// only the listed ones.
	DisableDefaults bool
	DisabledKeys    []string

	Innate              func(b *Battle, item *ItemInstance, u *Unit) EffectResults
	Apply               func(b *Battle, item *ItemInstance, u *Unit) EffectResults
	AdjacentHexBuff     func(b *Battle, item *ItemInstance, u *Unit, adjacent []*Unit)
	Update              func(b *Battle, item *ItemInstance, u *Unit)
	BasicAttack         func(b *Battle, item *ItemInstance, target, source *Unit, canReProc bool)
	ModifyDamage        func(b *Battle, item *ItemInstance, d DamageInfo) float64
	DamageDealtByHolder func(b *Battle, item *ItemInstance, d DamageInfo)
	DamageTaken         func(b *Battle, item *ItemInstance, d DamageInfo)
	CastWithinHexRange  func(b *Battle, item *ItemInstance, caster, holder *Unit)
	HPThreshold         func(b *Battle, item *ItemInstance, u *Unit)
	DeathOfHolder       func(b *Battle, item *ItemInstance, u *Unit)
}

type TraitHooks struct {
	DisableDefaults bool
	DisabledKeys    []string
	// ThresholdKey names the effect variable holding the HP threshold in
	// percent. Empty means "HPThreshold".
	ThresholdKey string

	Innate              func(b *Battle, u *Unit, effect *TraitEffect) EffectResults
	Solo                func(b *Battle, u *Unit, effect *TraitEffect) EffectResults
	Team                func(b *Battle, u *Unit, effect *TraitEffect) EffectResults
	OnceForTeam         func(b *Battle, effect *TraitEffect, team int)
	Update              func(b *Battle, effect *TraitEffect, units []*Unit)
	BasicAttack         func(b *Battle, effect *TraitEffect, target, source *Unit, canReProc bool)
	ModifyDamage        func(b *Battle, effect *TraitEffect, d DamageInfo) float64
	DamageDealtByHolder func(b *Battle, effect *TraitEffect, d DamageInfo)
	HPThreshold         func(b *Battle, effect *TraitEffect, u *Unit)
	AllyDeath           func(b *Battle, effect *TraitEffect, dead *Unit, survivors []*Unit)
	CastWithinHexRange  func(b *Battle, effect *TraitEffect, caster, holder *Unit)
}

func (h *TraitHooks) thresholdKey() string {
	if h.ThresholdKey == "" {
		return "HPThreshold"
	}
	return h.ThresholdKey
}

// AbilityFn performs a champion's spell.
type AbilityFn func(b *Battle, spell *Spell, u *Unit)

// Registry maps item ids, trait names and champion names to their effect
// bundles. A missing entry or a nil hook means "no effect".
type Registry struct {
	Items     map[string]*ItemHooks
	Traits    map[string]*TraitHooks
	Abilities map[string]AbilityFn
}

func NewRegistry() *Registry {
	return &Registry{
		Items:     map[string]*ItemHooks{},
		Traits:    map[string]*TraitHooks{},
		Abilities: map[string]AbilityFn{},
	}
}

func (r *Registry) item(id string) *ItemHooks {
	if r == nil {
		return nil
	}
	return r.Items[id]
}

func (r *Registry) trait(name string) *TraitHooks {
	if r == nil {
		return nil
	}
	return r.Traits[name]
}

func (r *Registry) ability(name string) AbilityFn {
	if r == nil {
		return nil
	}
	return r.Abilities[name]
}

func disabled(all bool, keys []string, key string) bool {
	if all {
		return true
	}
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
