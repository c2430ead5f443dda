package config

type TraitsConfig struct {
	Traits []TraitDef `yaml:"traits"`
}

type TraitDef struct {
	Name       string           `yaml:"name"`
	APIName    string           `yaml:"api_name"`
	TeamEffect TeamEffectDef    `yaml:"team_effect"`
	Effects    []TraitEffectDef `yaml:"effects"`
	Note       string           `yaml:"note"`
}

// TeamEffectDef controls which tier variables reach units that do not carry
// the trait themselves.
//
//	mode "" (default): only trait holders receive the variables
//	mode "prefix":     holders get variables with the Team/<trait> prefix
//	                   stripped, everyone else only the Team* ones
//	mode "multiplier": holders get variables scaled by Multiplier
//	mode "keys":       non-holders also receive the listed keys
type TeamEffectDef struct {
	Mode       string   `yaml:"mode"`
	Multiplier float64  `yaml:"multiplier"`
	Keys       []string `yaml:"keys"`
}

type TraitEffectDef struct {
	MinUnits  int                `yaml:"min_units"`
	MaxUnits  int                `yaml:"max_units"`
	Style     int                `yaml:"style"`
	Variables map[string]float64 `yaml:"variables"`
}
