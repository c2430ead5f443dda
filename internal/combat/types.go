package combat

type Event struct {
	T       float64        `json:"t"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

const (
	TeamAlly  = 0
	TeamEnemy = 1
	NoTeam    = -1
)

type DamageType int

const (
	DamageUnset DamageType = iota
	DamagePhysical
	DamageMagic
	DamageTrue
	DamageHeal
)

func (d DamageType) String() string {
	switch d {
	case DamagePhysical:
		return "physical"
	case DamageMagic:
		return "magic"
	case DamageTrue:
		return "true"
	case DamageHeal:
		return "heal"
	}
	return "unset"
}

// SourceKind says what produced a damage instance.
type SourceKind int

const (
	SourceAttack SourceKind = iota
	SourceSpell
	SourceItem
	SourceTrait
	SourceBleed
)

func (s SourceKind) String() string {
	switch s {
	case SourceAttack:
		return "attack"
	case SourceSpell:
		return "spell"
	case SourceItem:
		return "item"
	case SourceTrait:
		return "trait"
	case SourceBleed:
		return "bleed"
	}
	return "unknown"
}

// BonusKey names a stat a bonus contributes to. Percent-style stats
// (AttackSpeed, CritChance, DodgeChance, vamps, ManaReduction) are stored in
// percent points; DamageReduction is a fraction.
type BonusKey string

const (
	StatAttackDamage     BonusKey = "AttackDamage"
	StatAbilityPower     BonusKey = "AbilityPower"
	StatArmor            BonusKey = "Armor"
	StatMagicResist      BonusKey = "MagicResist"
	StatAttackSpeed      BonusKey = "AttackSpeed"
	StatCritChance       BonusKey = "CritChance"
	StatCritMultiplier   BonusKey = "CritMultiplier"
	StatCritReduction    BonusKey = "CritReduction"
	StatDodgeChance      BonusKey = "DodgeChance"
	StatDodgePrevention  BonusKey = "DodgePrevention"
	StatHealth           BonusKey = "Health"
	StatMissingHealth    BonusKey = "MissingHealth"
	StatMana             BonusKey = "Mana"
	StatManaRegen        BonusKey = "ManaRegen"
	StatHealthRegen      BonusKey = "HealthRegen"
	StatManaReduction    BonusKey = "ManaReduction"
	StatHexRangeIncrease BonusKey = "HexRangeIncrease"
	StatDamageReduction  BonusKey = "DamageReduction"
	StatVampOmni         BonusKey = "Omnivamp"
	StatVampPhysical     BonusKey = "LifeSteal"
	StatVampSpell        BonusKey = "SpellVamp"
	StatHealShieldBoost  BonusKey = "HealShieldBoost"
	StatMoveSpeed        BonusKey = "MoveSpeed"
)

// Bonus sources for champion-specific grants.
const (
	SourceKeyInnate = "Innate"
	SourceKeyAS     = "ChampSpecificAS"
	SourceKeyAD     = "ChampSpecificAD"
	SourceKeyAP     = "ChampSpecificAP"
	SourceKeyArmor  = "ChampSpecificArmor"
	SourceKeyMR     = "ChampSpecificMR"
)

type StatusKind int

const (
	StatusStunned StatusKind = iota
	StatusAttackSpeedSlow
	StatusArmorReduction
	StatusMagicResistReduction
	StatusGrievousWounds
	StatusStealth
	StatusAoEDamageReduction
	StatusBanished

	statusCount
)

var statusNames = [statusCount]string{
	"stunned", "attack_speed_slow", "armor_reduction", "magic_resist_reduction",
	"grievous_wounds", "stealth", "aoe_damage_reduction", "banished",
}

func (s StatusKind) String() string {
	if s < 0 || s >= statusCount {
		return "unknown"
	}
	return statusNames[s]
}
