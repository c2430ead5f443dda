package combat

import (
	"testing"

	"hexbattle/internal/config"
	"hexbattle/internal/hexgrid"
)

func dummyDef(name string, hp, damage, armor, mr float64, rng int) config.ChampionDef {
	return config.ChampionDef{
		Name: name,
		Stats: config.StatsDef{
			HP: hp, Damage: damage, Armor: armor, MagicResist: mr,
			AttackSpeed: 1, Range: rng, Mana: 100,
		},
	}
}

func withTraits(def config.ChampionDef, traits ...string) config.ChampionDef {
	def.Traits = traits
	return def
}

func withSpell(def config.ChampionDef, name string, vars map[string][]float64) config.ChampionDef {
	def.Spells = append(def.Spells, config.SpellDef{Name: name, Variables: vars})
	return def
}

func testData() *config.Data {
	return &config.Data{
		Champions: &config.ChampionsConfig{Champions: []config.ChampionDef{
			dummyDef("Dummy", 1000, 50, 0, 0, 1),
			dummyDef("Tank", 1000, 50, 100, 100, 1),
			dummyDef("Archer", 500, 40, 0, 0, 4),
			withTraits(dummyDef("Brawler", 1000, 50, 0, 0, 1), "Brute"),
			withSpell(withTraits(dummyDef("Mage", 1000, 30, 0, 0, 3), "Mystic"), "Bolt", map[string][]float64{"Damage": {100, 150, 200}}),
			withTraits(dummyDef("Guard", 1000, 50, 0, 0, 1), "Warden"),
			withTraits(dummyDef("Hermit", 1000, 50, 0, 0, 1), "Loner"),
			withTraits(dummyDef("Rogue", 800, 60, 0, 0, 1), "Assassin"),
		}},
		Items: &config.ItemsConfig{Items: []config.ItemDef{
			{ID: "Sword", Name: "Sword", Component: true, Effects: map[string]float64{"AttackDamage": 10}},
			{ID: "Vest", Name: "Vest", Effects: map[string]float64{"Armor": 20, "HPThreshold": 50, "ICD": 2}},
			{ID: "Brute Emblem", Name: "Brute Emblem", Effects: map[string]float64{}},
		}},
		Traits: &config.TraitsConfig{Traits: []config.TraitDef{
			{Name: "Brute", TeamEffect: config.TeamEffectDef{Mode: "multiplier", Multiplier: 2}, Effects: []config.TraitEffectDef{
				{MinUnits: 2, Style: 1, Variables: map[string]float64{"Health": 100}},
			}},
			{Name: "Mystic", TeamEffect: config.TeamEffectDef{Mode: "prefix"}, Effects: []config.TraitEffectDef{
				{MinUnits: 1, Style: 1, Variables: map[string]float64{"TeamArmor": 5, "MysticArmor": 20}},
			}},
			{Name: "Warden", TeamEffect: config.TeamEffectDef{Mode: "keys", Keys: []string{"MagicResist"}}, Effects: []config.TraitEffectDef{
				{MinUnits: 1, Style: 1, Variables: map[string]float64{"MagicResist": 15, "Armor": 30}},
			}},
			{Name: "Assassin", Effects: []config.TraitEffectDef{{MinUnits: 1, Style: 1}}},
			{Name: "Loner", Effects: []config.TraitEffectDef{
				{MinUnits: 1, Style: 1, Variables: map[string]float64{"Armor": 40, "HexRange": 2}},
			}},
		}},
	}
}

func newTestBattle(t *testing.T, reg *Registry) *Battle {
	t.Helper()
	return NewBattle(Options{Seed: 7, Registry: reg, Book: NewBook(testData())})
}

func mustSpawn(t *testing.T, b *Battle, name string, col, row int, items ...string) *Unit {
	t.Helper()
	u, err := b.Spawn(name, hexgrid.Hex{Col: col, Row: row}, 1, items...)
	if err != nil {
		t.Fatalf("spawn %s: %v", name, err)
	}
	return u
}

func flat(value float64, typ DamageType) *SpellCalculation {
	return NewCalculation("Test", value, typ, "", 0)
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}

func hexgridHex(col, row int) hexgrid.Hex { return hexgrid.Hex{Col: col, Row: row} }
