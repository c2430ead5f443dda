package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"hexbattle/internal/combat"
)

func TestMemoryStoreSaveGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	rec := Record{ID: "a", Board: "demo", Seed: 9, Result: combat.SimResult{Winner: 1, DurationMS: 1200}}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Seed != 9 || got.Result.Winner != 1 || got.CreatedAt.IsZero() {
		t.Fatalf("record=%+v", got)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, Record{}); err == nil {
		t.Fatalf("empty id accepted")
	}
}

func TestMemoryStoreRecentNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := Record{ID: fmt.Sprintf("r%d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := s.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].ID != "r4" || got[2].ID != "r2" {
		t.Fatalf("recent=%v", ids(got))
	}
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Save(ctx, Record{ID: fmt.Sprintf("c%d", i)})
			_, _ = s.Recent(ctx, 5)
		}(i)
	}
	wg.Wait()
	all, _ := s.Recent(ctx, 0)
	if len(all) != 50 {
		t.Fatalf("records=%d, want 50", len(all))
	}
}

func ids(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
