package combat

import "testing"

func TestTrueDamageIgnoresResists(t *testing.T) {
	b := newTestBattle(t, nil)
	src := mustSpawn(t, b, "Dummy", 0, 0)
	tank := mustSpawn(t, b, "Tank", 0, 7)
	b.Reset()

	out := b.ApplyDamage(tank, DamageRequest{Source: src, Kind: SourceSpell, Formula: flat(100, DamageTrue)})
	if !near(out.Taken, 100) || !near(tank.Health, 900) {
		t.Fatalf("taken=%v health=%v, want 100 and 900", out.Taken, tank.Health)
	}
}

func TestArmorMitigatesPhysical(t *testing.T) {
	b := newTestBattle(t, nil)
	src := mustSpawn(t, b, "Dummy", 0, 0)
	tank := mustSpawn(t, b, "Tank", 0, 7)
	b.Reset()

	out := b.ApplyDamage(tank, DamageRequest{Source: src, Kind: SourceItem, Formula: flat(100, DamagePhysical)})
	if !near(out.Taken, 50) {
		t.Fatalf("taken=%v, want 50 against 100 armor", out.Taken)
	}
	if out.Type != DamagePhysical {
		t.Fatalf("type=%v", out.Type)
	}
}

func TestUntypedFormulaDefaultsToMagic(t *testing.T) {
	b := newTestBattle(t, nil)
	src := mustSpawn(t, b, "Dummy", 0, 0)
	tank := mustSpawn(t, b, "Tank", 0, 7)
	b.Reset()

	out := b.ApplyDamage(tank, DamageRequest{Source: src, Kind: SourceItem, Formula: flat(100, DamageUnset)})
	if out.Type != DamageMagic || !near(out.Taken, 50) {
		t.Fatalf("type=%v taken=%v, want magic 50", out.Type, out.Taken)
	}
}

func TestArmorReductionShredsDefense(t *testing.T) {
	b := newTestBattle(t, nil)
	src := mustSpawn(t, b, "Dummy", 0, 0)
	tank := mustSpawn(t, b, "Tank", 0, 7)
	b.Reset()

	tank.ApplyStatusEffect(0, StatusArmorReduction, 1000, 0.5)
	out := b.ApplyDamage(tank, DamageRequest{Source: src, Kind: SourceItem, Formula: flat(150, DamagePhysical)})
	if !near(out.Taken, 100) {
		t.Fatalf("taken=%v, want 100 against 50 effective armor", out.Taken)
	}
}

func TestLethalDamageKillsAndEndsBattle(t *testing.T) {
	b := newTestBattle(t, nil)
	var loser = -2
	b.OnGameOver = func(team int) { loser = team }
	src := mustSpawn(t, b, "Dummy", 0, 0)
	victim := mustSpawn(t, b, "Dummy", 0, 7)
	b.Reset()
	victim.Health = 50

	out := b.ApplyDamage(victim, DamageRequest{Source: src, Kind: SourceItem, Formula: flat(80, DamageTrue)})
	if !out.Killed || !victim.Dead || victim.Health != 0 {
		t.Fatalf("outcome=%+v dead=%v health=%v", out, victim.Dead, victim.Health)
	}
	if !near(out.Taken, 50) {
		t.Fatalf("taken=%v, want the 50 health that was left", out.Taken)
	}
	if !b.Over() || b.Loser() != TeamEnemy || loser != TeamEnemy {
		t.Fatalf("over=%v loser=%v callback=%v", b.Over(), b.Loser(), loser)
	}
	if again := b.ApplyDamage(victim, DamageRequest{Source: src, Formula: flat(10, DamageTrue)}); again.Taken != 0 {
		t.Fatalf("dead unit took damage: %+v", again)
	}
}

func TestShieldAbsorbsBeforeHealth(t *testing.T) {
	b := newTestBattle(t, nil)
	src := mustSpawn(t, b, "Dummy", 0, 0)
	target := mustSpawn(t, b, "Dummy", 0, 7)
	b.Reset()
	target.AddShield(0, &Shield{Amount: 60})

	b.ApplyDamage(target, DamageRequest{Source: src, Kind: SourceItem, Formula: flat(100, DamageTrue)})
	if !near(target.Health, 960) {
		t.Fatalf("health=%v, want 960", target.Health)
	}
	if len(target.Shields()) != 0 {
		t.Fatalf("spent shield kept: %d", len(target.Shields()))
	}
}

func TestSpellShieldBlocksOneEnemySpell(t *testing.T) {
	b := newTestBattle(t, nil)
	enemy := mustSpawn(t, b, "Dummy", 0, 0)
	ally := mustSpawn(t, b, "Dummy", 1, 7)
	target := mustSpawn(t, b, "Dummy", 0, 7)
	b.Reset()
	target.AddShield(0, &Shield{IsSpellShield: true})

	if out := b.ApplyDamage(target, DamageRequest{Source: ally, Kind: SourceSpell, Formula: flat(10, DamageTrue)}); out.Blocked {
		t.Fatalf("allied spell consumed the spell shield")
	}
	if out := b.ApplyDamage(target, DamageRequest{Source: enemy, Kind: SourceAttack, Formula: flat(10, DamageTrue)}); out.Blocked {
		t.Fatalf("attack was blocked by a spell shield")
	}
	if out := b.ApplyDamage(target, DamageRequest{Source: enemy, Kind: SourceSpell, Formula: flat(10, DamageTrue)}); !out.Blocked {
		t.Fatalf("enemy spell not blocked")
	}
	if out := b.ApplyDamage(target, DamageRequest{Source: enemy, Kind: SourceSpell, Formula: flat(10, DamageTrue)}); out.Blocked {
		t.Fatalf("spell shield blocked twice")
	}
}

func TestHealFormulaRestoresHealth(t *testing.T) {
	b := newTestBattle(t, nil)
	src := mustSpawn(t, b, "Dummy", 0, 0)
	b.Reset()
	src.Health = 500
	src.ApplyStatusEffect(0, StatusGrievousWounds, 5000, 0.5)

	out := b.ApplyDamage(src, DamageRequest{Source: src, Kind: SourceItem, Formula: flat(200, DamageHeal)})
	if !near(out.Healed, 100) || !near(src.Health, 600) {
		t.Fatalf("healed=%v health=%v, want 100 and 600", out.Healed, src.Health)
	}
}

func TestDamageGrantsManaCapped(t *testing.T) {
	b := newTestBattle(t, nil)
	src := mustSpawn(t, b, "Dummy", 0, 0)
	target := mustSpawn(t, b, "Dummy", 0, 7)
	b.Reset()

	b.ApplyDamage(target, DamageRequest{Source: src, Kind: SourceItem, Formula: flat(100, DamageTrue)})
	if want := 100*0.01 + 100*0.07; !near(target.Mana, want) {
		t.Fatalf("mana=%v, want %v", target.Mana, want)
	}
	target.Mana = 0
	b.ApplyDamage(target, DamageRequest{Source: src, Kind: SourceItem, Formula: flat(800, DamageTrue)})
	if !near(target.Mana, maxManaFromDamage) {
		t.Fatalf("mana=%v, want cap %v", target.Mana, maxManaFromDamage)
	}
}

func TestHPThresholdFiresOnce(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	reg.Items["Vest"] = &ItemHooks{HPThreshold: func(b *Battle, it *ItemInstance, u *Unit) { calls++ }}
	b := newTestBattle(t, reg)
	src := mustSpawn(t, b, "Dummy", 0, 0)
	holder := mustSpawn(t, b, "Dummy", 0, 7, "Vest")
	b.Reset()

	hit := func() {
		b.ApplyDamage(holder, DamageRequest{Source: src, Kind: SourceItem, Formula: flat(200, DamageTrue)})
	}
	hit()
	if calls != 0 {
		t.Fatalf("fired above threshold")
	}
	hit()
	hit()
	hit()
	if calls != 1 {
		t.Fatalf("calls=%d, want 1", calls)
	}
}

func TestDamageHooksOrder(t *testing.T) {
	reg := NewRegistry()
	var order []string
	reg.Items["Sword"] = &ItemHooks{
		DamageDealtByHolder: func(b *Battle, it *ItemInstance, d DamageInfo) { order = append(order, "dealt") },
		DamageTaken:         func(b *Battle, it *ItemInstance, d DamageInfo) { order = append(order, "taken") },
		ModifyDamage: func(b *Battle, it *ItemInstance, d DamageInfo) float64 {
			order = append(order, "modify")
			return d.Raw * 2
		},
	}
	b := newTestBattle(t, reg)
	src := mustSpawn(t, b, "Dummy", 0, 0, "Sword")
	target := mustSpawn(t, b, "Dummy", 0, 7, "Sword")
	b.Reset()

	out := b.ApplyDamage(target, DamageRequest{Source: src, Kind: SourceItem, Formula: flat(10, DamageTrue)})
	if !near(out.Taken, 20) {
		t.Fatalf("taken=%v, want modified 20", out.Taken)
	}
	want := []string{"modify", "dealt", "taken"}
	if len(order) != len(want) {
		t.Fatalf("order=%v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order=%v, want %v", order, want)
		}
	}
}

func TestPhysicalHitOnBareUnit(t *testing.T) {
	b := newTestBattle(t, nil)
	src := mustSpawn(t, b, "Dummy", 0, 0)
	target := mustSpawn(t, b, "Dummy", 0, 7)
	b.Reset()
	target.Health = 100

	b.ApplyDamage(target, DamageRequest{Source: src, Kind: SourceAttack, Formula: flat(50, DamagePhysical), Original: true})
	if !near(target.Health, 50) {
		t.Fatalf("health=%v, want 50", target.Health)
	}
}

func TestDodgeScalesAttacks(t *testing.T) {
	cases := []struct {
		name       string
		dodge      float64
		prevention float64
		kind       SourceKind
		want       float64
	}{
		{"half dodge", 50, 0, SourceAttack, 50},
		{"prevention offsets", 50, 30, SourceAttack, 80},
		{"prevention above dodge", 20, 40, SourceAttack, 120},
		{"spells are not dodged", 50, 0, SourceSpell, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBattle(t, nil)
			src := mustSpawn(t, b, "Dummy", 0, 0)
			target := mustSpawn(t, b, "Dummy", 0, 7)
			b.Reset()
			target.AddBonuses("test", Var(StatDodgeChance, tc.dodge))
			src.AddBonuses("test", Var(StatDodgePrevention, tc.prevention))

			out := b.ApplyDamage(target, DamageRequest{Source: src, Kind: tc.kind, Formula: flat(100, DamagePhysical), Original: true})
			if !near(out.Taken, tc.want) {
				t.Fatalf("taken=%v, want %v", out.Taken, tc.want)
			}
		})
	}
}

func TestFlatBonusAndMultiplier(t *testing.T) {
	cases := []struct {
		name       string
		flatBonus  float64
		multiplier float64
		want       float64
	}{
		{"flat bonus", 25, 0, 125},
		{"multiplier after flat bonus", 10, 2, 220},
		{"non-positive amount aborts", -150, 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBattle(t, nil)
			src := mustSpawn(t, b, "Dummy", 0, 0)
			target := mustSpawn(t, b, "Dummy", 0, 7)
			b.Reset()
			mana := target.Mana

			out := b.ApplyDamage(target, DamageRequest{
				Source: src, Kind: SourceItem, Formula: flat(100, DamageTrue),
				FlatBonus: tc.flatBonus, Multiplier: tc.multiplier,
			})
			if !near(out.Taken, tc.want) || !near(target.Health, 1000-tc.want) {
				t.Fatalf("taken=%v health=%v, want %v", out.Taken, target.Health, tc.want)
			}
			if tc.want == 0 && target.Mana != mana {
				t.Fatalf("aborted hit still granted mana")
			}
		})
	}
}

func TestCritBonus(t *testing.T) {
	cases := []struct {
		name      string
		crit      float64
		reduction float64
		typ       DamageType
		spellCrit bool
		want      float64
	}{
		{"excess chance feeds multiplier", 150, 0, DamagePhysical, false, 150},
		{"target crit reduction", 150, 50, DamagePhysical, false, 125},
		{"no crit chance", 0, 0, DamagePhysical, false, 100},
		{"magic needs spell crit", 150, 0, DamageMagic, false, 100},
		{"magic with spell crit", 150, 0, DamageMagic, true, 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBattle(t, nil)
			src := mustSpawn(t, b, "Dummy", 0, 0)
			target := mustSpawn(t, b, "Dummy", 0, 7)
			b.Reset()
			src.AddBonuses("test", Var(StatCritChance, tc.crit))
			src.SpellCrit = tc.spellCrit
			target.AddBonuses("test", Var(StatCritReduction, tc.reduction))

			out := b.ApplyDamage(target, DamageRequest{Source: src, Kind: SourceSpell, Formula: flat(100, tc.typ), Original: true})
			if !near(out.Raw, tc.want) || !near(out.Taken, tc.want) {
				t.Fatalf("raw=%v taken=%v, want %v", out.Raw, out.Taken, tc.want)
			}
		})
	}
}

func TestVampByDamageKind(t *testing.T) {
	cases := []struct {
		name string
		key  BonusKey
		kind SourceKind
		typ  DamageType
		want float64
	}{
		{"life steal on attacks", StatVampPhysical, SourceAttack, DamagePhysical, 550},
		{"life steal ignores spells", StatVampPhysical, SourceSpell, DamagePhysical, 500},
		{"spell vamp on spells", StatVampSpell, SourceSpell, DamageMagic, 550},
		{"spell vamp ignores attacks", StatVampSpell, SourceAttack, DamagePhysical, 500},
		{"omnivamp on anything", StatVampOmni, SourceItem, DamageTrue, 550},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBattle(t, nil)
			src := mustSpawn(t, b, "Dummy", 0, 0)
			target := mustSpawn(t, b, "Dummy", 0, 7)
			b.Reset()
			src.Health = 500
			src.AddBonuses("test", Var(tc.key, 50))

			b.ApplyDamage(target, DamageRequest{Source: src, Kind: tc.kind, Formula: flat(100, tc.typ)})
			if !near(src.Health, tc.want) {
				t.Fatalf("source health=%v, want %v", src.Health, tc.want)
			}
		})
	}
}

func TestRetaliationShieldAddsDamageOnce(t *testing.T) {
	b := newTestBattle(t, nil)
	src := mustSpawn(t, b, "Dummy", 0, 0)
	target := mustSpawn(t, b, "Dummy", 0, 7)
	b.Reset()
	src.AddShield(0, &Shield{Source: "test", Amount: 50, BonusDamage: flat(30, DamageTrue)})

	out := b.ApplyDamage(target, DamageRequest{Source: src, Kind: SourceAttack, Formula: flat(100, DamagePhysical), Original: true})
	if !near(out.Taken, 100) || !near(target.Health, 870) {
		t.Fatalf("taken=%v health=%v, want 100 and 870", out.Taken, target.Health)
	}
	if !near(b.DamageDealt()[src.ID], 130) {
		t.Fatalf("dealt=%v, want 130", b.DamageDealt()[src.ID])
	}

	b.ApplyDamage(target, DamageRequest{Source: src, Kind: SourceAttack, Formula: flat(100, DamagePhysical)})
	if !near(target.Health, 770) {
		t.Fatalf("health=%v, derived hit must not trigger the shield", target.Health)
	}
}
