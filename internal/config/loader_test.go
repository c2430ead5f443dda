package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAllFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "champions.yaml", `
champions:
  - name: Dummy
    traits: [Brute]
    stats: { hp: 500, damage: 40, range: 1, mana: 80 }
    spells:
      - name: Smash
        variables:
          Damage: [100, 200]
`)
	writeFile(t, dir, "items.yaml", `
items:
  - id: Sword
    name: Sword
    component: true
    effects: { AttackDamage: 10 }
`)
	writeFile(t, dir, "traits.yaml", `
traits:
  - name: Brute
    team_effect: { mode: multiplier, multiplier: 2 }
    effects:
      - { min_units: 2, style: 1, variables: { Health: 100 } }
`)

	data, err := LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	c, ok := data.Champion("Dummy")
	if !ok || c.Stats.HP != 500 || c.Spells[0].Variables["Damage"][1] != 200 {
		t.Fatalf("champion=%+v ok=%v", c, ok)
	}
	if it, ok := data.Item("Sword"); !ok || !it.Component || it.Effects["AttackDamage"] != 10 {
		t.Fatalf("item=%+v ok=%v", it, ok)
	}
	if tr, ok := data.Trait("Brute"); !ok || tr.TeamEffect.Mode != "multiplier" || tr.TeamEffect.Multiplier != 2 {
		t.Fatalf("trait=%+v ok=%v", tr, ok)
	}
	if _, ok := data.Champion("Nobody"); ok {
		t.Fatalf("found a champion that does not exist")
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	if _, err := LoadAll(t.TempDir()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v, want not exist", err)
	}
}

func TestLoadAllBadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "champions.yaml", "champions: [\n")
	if _, err := LoadAll(dir); err == nil {
		t.Fatalf("broken yaml accepted")
	}
}

func TestLoadShippedAssets(t *testing.T) {
	data, err := LoadAll("../../assets")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(data.Champions.Champions) == 0 || len(data.Items.Items) == 0 || len(data.Traits.Traits) == 0 {
		t.Fatalf("empty tables")
	}
	for _, c := range data.Champions.Champions {
		for _, tr := range c.Traits {
			if _, ok := data.Trait(tr); !ok {
				t.Errorf("%s lists unknown trait %s", c.Name, tr)
			}
		}
	}
	board, err := LoadBoard("../../assets/boards/demo.yaml")
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if err := data.ValidateBoard(board, 7, 8); err != nil {
		t.Fatalf("demo board: %v", err)
	}
}

func TestParseBoardAcceptsJSON(t *testing.T) {
	board, err := ParseBoard([]byte(`{"name":"j","units":[{"name":"Dummy","col":1,"row":2,"star":2,"items":["Sword"]}]}`))
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if board.Name != "j" || len(board.Units) != 1 || board.Units[0].Star != 2 || board.Units[0].Items[0] != "Sword" {
		t.Fatalf("board=%+v", board)
	}
}

func TestValidateBoard(t *testing.T) {
	data := &Data{
		Champions: &ChampionsConfig{Champions: []ChampionDef{{Name: "Dummy"}}},
		Items:     &ItemsConfig{Items: []ItemDef{{ID: "Sword"}}},
	}
	cases := []struct {
		name string
		unit []BoardUnit
		want error
	}{
		{"ok", []BoardUnit{{Name: "Dummy", Col: 1, Row: 1, Items: []string{"Sword"}}}, nil},
		{"champion", []BoardUnit{{Name: "Nobody"}}, ErrUnknownChampion},
		{"item", []BoardUnit{{Name: "Dummy", Items: []string{"Axe"}}}, ErrUnknownItem},
		{"off board", []BoardUnit{{Name: "Dummy", Col: 7, Row: 0}}, ErrBadPlacement},
		{"star", []BoardUnit{{Name: "Dummy", Star: 5}}, ErrBadPlacement},
		{"stacked", []BoardUnit{{Name: "Dummy"}, {Name: "Dummy"}}, ErrBadPlacement},
	}
	for _, c := range cases {
		err := data.ValidateBoard(&BoardConfig{Units: c.unit}, 7, 8)
		if c.want == nil && err != nil {
			t.Fatalf("%s: unexpected error %v", c.name, err)
		}
		if c.want != nil && !errors.Is(err, c.want) {
			t.Fatalf("%s: err=%v, want %v", c.name, err, c.want)
		}
	}
}
