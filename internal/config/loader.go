package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownChampion = errors.New("unknown champion")
	ErrUnknownItem     = errors.New("unknown item")
	ErrBadPlacement    = errors.New("bad placement")
)

// Data bundles the read-only static tables a battle consumes.
type Data struct {
	Champions *ChampionsConfig
	Items     *ItemsConfig
	Traits    *TraitsConfig
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func LoadAll(dir string) (*Data, error) {
	var cc ChampionsConfig
	var ic ItemsConfig
	var tc TraitsConfig
	if err := loadYAML(filepath.Join(dir, "champions.yaml"), &cc); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "items.yaml"), &ic); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "traits.yaml"), &tc); err != nil {
		return nil, err
	}
	return &Data{Champions: &cc, Items: &ic, Traits: &tc}, nil
}

func LoadBoard(path string) (*BoardConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	board, err := ParseBoard(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return board, nil
}

// ParseBoard decodes a board from YAML (JSON is accepted as well).
func ParseBoard(b []byte) (*BoardConfig, error) {
	var bc BoardConfig
	if err := yaml.Unmarshal(b, &bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

func (d *Data) Champion(name string) (*ChampionDef, bool) {
	if d == nil || d.Champions == nil {
		return nil, false
	}
	for i := range d.Champions.Champions {
		if d.Champions.Champions[i].Name == name {
			return &d.Champions.Champions[i], true
		}
	}
	return nil, false
}

func (d *Data) Item(id string) (*ItemDef, bool) {
	if d == nil || d.Items == nil {
		return nil, false
	}
	for i := range d.Items.Items {
		if d.Items.Items[i].ID == id {
			return &d.Items.Items[i], true
		}
	}
	return nil, false
}

func (d *Data) Trait(name string) (*TraitDef, bool) {
	if d == nil || d.Traits == nil {
		return nil, false
	}
	for i := range d.Traits.Traits {
		if d.Traits.Traits[i].Name == name {
			return &d.Traits.Traits[i], true
		}
	}
	return nil, false
}

// ValidateBoard checks a placement against the static tables: known
// champions and items, on-board positions, no stacked units, star 1-4.
func (d *Data) ValidateBoard(board *BoardConfig, cols, rows int) error {
	taken := map[[2]int]string{}
	for i, u := range board.Units {
		if _, ok := d.Champion(u.Name); !ok {
			return fmt.Errorf("unit %d %q: %w", i, u.Name, ErrUnknownChampion)
		}
		for _, id := range u.Items {
			if _, ok := d.Item(id); !ok {
				return fmt.Errorf("unit %d %q item %q: %w", i, u.Name, id, ErrUnknownItem)
			}
		}
		if u.Col < 0 || u.Col >= cols || u.Row < 0 || u.Row >= rows {
			return fmt.Errorf("unit %d %q at %d,%d: %w", i, u.Name, u.Col, u.Row, ErrBadPlacement)
		}
		if u.Star < 0 || u.Star > 4 {
			return fmt.Errorf("unit %d %q star %d: %w", i, u.Name, u.Star, ErrBadPlacement)
		}
		key := [2]int{u.Col, u.Row}
		if other, ok := taken[key]; ok {
			return fmt.Errorf("unit %d %q shares %d,%d with %q: %w", i, u.Name, u.Col, u.Row, other, ErrBadPlacement)
		}
		taken[key] = u.Name
	}
	return nil
}
