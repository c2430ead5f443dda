package combat

import (
	"context"
	"testing"
	"time"
)

func TestStepStartsAtZero(t *testing.T) {
	b := newTestBattle(t, nil)
	mustSpawn(t, b, "Dummy", 0, 0)
	mustSpawn(t, b, "Dummy", 6, 7)
	b.Reset()

	if !b.Step() || b.Now() != 0 {
		t.Fatalf("first step now=%v", b.Now())
	}
	b.Step()
	if !near(b.Now(), TickMS) {
		t.Fatalf("second step now=%v, want %v", b.Now(), TickMS)
	}
}

func TestSchedulerSkipsShortFrames(t *testing.T) {
	b := newTestBattle(t, nil)
	mustSpawn(t, b, "Dummy", 0, 0)
	mustSpawn(t, b, "Dummy", 6, 7)
	b.Reset()
	s := NewScheduler(b)

	if !s.Frame(1000) || b.Now() != 0 {
		t.Fatalf("first frame now=%v, want 0", b.Now())
	}
	if s.Frame(1010) {
		t.Fatalf("frame 10ms later was processed")
	}
	if !s.Frame(1033) || !near(b.Now(), 33) {
		t.Fatalf("now=%v, want 33", b.Now())
	}
	if b.ticks != 2 {
		t.Fatalf("ticks=%d, want 2", b.ticks)
	}
}

func TestSchedulerAdvancesAtMostOneQuantum(t *testing.T) {
	b := newTestBattle(t, nil)
	mustSpawn(t, b, "Dummy", 0, 0)
	mustSpawn(t, b, "Dummy", 6, 7)
	b.Reset()
	s := NewScheduler(b)

	s.Frame(0)
	if !s.Frame(500) {
		t.Fatalf("late frame was skipped")
	}
	if !near(b.Now(), TickMS) || !near(b.diffMS, TickMS) {
		t.Fatalf("now=%v diff=%v after a 500ms stall, want one quantum", b.Now(), b.diffMS)
	}
	if !s.Frame(1200) || !near(b.Now(), 2*TickMS) {
		t.Fatalf("now=%v, want %v", b.Now(), 2*TickMS)
	}
	if b.ticks != 3 {
		t.Fatalf("ticks=%d, want 3", b.ticks)
	}
}

func TestRangedWaitsWhileMeleeAdvances(t *testing.T) {
	b := newTestBattle(t, nil)
	melee := mustSpawn(t, b, "Dummy", 0, 0)
	archer := mustSpawn(t, b, "Archer", 6, 0)
	mustSpawn(t, b, "Dummy", 0, 7)
	b.Reset()

	for b.Now() < 900 {
		b.Step()
	}
	if melee.Hex == melee.StartHex {
		t.Fatalf("melee unit never moved")
	}
	if archer.Hex != archer.StartHex {
		t.Fatalf("ranged unit moved before the lockout ended")
	}
}

func TestAssassinJumpsAndLands(t *testing.T) {
	b := newTestBattle(t, nil)
	rogue := mustSpawn(t, b, "Rogue", 3, 0)
	mustSpawn(t, b, "Dummy", 3, 7)
	b.Reset()

	if rogue.IsAttackable() {
		t.Fatalf("assassin targetable before its jump")
	}
	b.Step()
	if rogue.Hex.Row < 6 {
		t.Fatalf("assassin at %v, want the enemy back rows", rogue.Hex)
	}
	for b.Now() < backlineJumpMS {
		b.Step()
	}
	if !rogue.IsAttackable() {
		t.Fatalf("assassin still untargetable after landing")
	}
}

func TestBattleRunsToCompletion(t *testing.T) {
	b := newTestBattle(t, nil)
	mustSpawn(t, b, "Dummy", 3, 2)
	mustSpawn(t, b, "Archer", 5, 1)
	mustSpawn(t, b, "Dummy", 3, 5)
	mustSpawn(t, b, "Archer", 1, 6)
	b.Reset()

	for b.Step() {
		for _, u := range b.Units() {
			if u.Health < 0 || u.Health > u.HealthMax+1e-9 {
				t.Fatalf("%v health %v outside [0,%v]", u, u.Health, u.HealthMax)
			}
			if u.Dead && u.Health != 0 {
				t.Fatalf("dead %v has health %v", u, u.Health)
			}
		}
		if b.Now() > DefaultMaxMS {
			t.Fatalf("battle did not finish")
		}
	}
	if !b.Over() || b.Loser() == NoTeam {
		t.Fatalf("over=%v loser=%v", b.Over(), b.Loser())
	}
	if len(b.AliveUnitsOfTeam(b.Loser())) != 0 {
		t.Fatalf("losing team still has living units")
	}
	if b.Step() {
		t.Fatalf("finished battle kept stepping")
	}
}

func TestRunRealtimeHonoursContext(t *testing.T) {
	b := newTestBattle(t, nil)
	mustSpawn(t, b, "Dummy", 0, 0)
	mustSpawn(t, b, "Dummy", 6, 7)
	b.Reset()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	ticks := 0
	err := RunRealtime(ctx, b, DefaultMaxMS, func(*Battle) { ticks++ })
	if err != context.DeadlineExceeded {
		t.Fatalf("err=%v, want deadline exceeded", err)
	}
	if ticks == 0 {
		t.Fatalf("no ticks ran")
	}
}
