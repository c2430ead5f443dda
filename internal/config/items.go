package config

type ItemsConfig struct {
	Items []ItemDef `yaml:"items"`
}

type ItemDef struct {
	ID        string             `yaml:"id"`
	Name      string             `yaml:"name"`
	Component bool               `yaml:"component"`
	Unique    bool               `yaml:"unique"`
	Effects   map[string]float64 `yaml:"effects"`
	Note      string             `yaml:"note"`
}
