package config

type ChampionsConfig struct {
	Champions []ChampionDef `yaml:"champions"`
}

type ChampionDef struct {
	Name                    string     `yaml:"name"`
	APIName                 string     `yaml:"api_name"`
	Cost                    int        `yaml:"cost"`
	Traits                  []string   `yaml:"traits"`
	StarLocked              int        `yaml:"star_locked"`
	Stats                   StatsDef   `yaml:"stats"`
	BasicAttackMissileSpeed float64    `yaml:"basic_attack_missile_speed"`
	CritAttackMissileSpeed  float64    `yaml:"crit_attack_missile_speed"`
	Spells                  []SpellDef `yaml:"spells"`
	Note                    string     `yaml:"note"`
}

type StatsDef struct {
	HP             float64 `yaml:"hp"`
	Damage         float64 `yaml:"damage"`
	Armor          float64 `yaml:"armor"`
	MagicResist    float64 `yaml:"magic_resist"`
	AttackSpeed    float64 `yaml:"attack_speed"`
	Range          int     `yaml:"range"`
	Mana           float64 `yaml:"mana"`
	InitialMana    float64 `yaml:"initial_mana"`
	CritChance     float64 `yaml:"crit_chance"`
	CritMultiplier float64 `yaml:"crit_multiplier"`
	MoveSpeed      float64 `yaml:"move_speed"`
}

type SpellDef struct {
	Name         string               `yaml:"name"`
	ManaReset    float64              `yaml:"mana_reset"`
	MissileSpeed float64              `yaml:"missile_speed"`
	Variables    map[string][]float64 `yaml:"variables"`
}
