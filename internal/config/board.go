package config

type BoardConfig struct {
	Name     string      `yaml:"name" json:"name"`
	Mutant   string      `yaml:"mutant" json:"mutant"`
	Augments []int       `yaml:"augments" json:"augments"`
	Units    []BoardUnit `yaml:"units" json:"units"`
}

type BoardUnit struct {
	Name  string   `yaml:"name" json:"name"`
	Col   int      `yaml:"col" json:"col"`
	Row   int      `yaml:"row" json:"row"`
	Star  int      `yaml:"star" json:"star"`
	Items []string `yaml:"items" json:"items"`
}
