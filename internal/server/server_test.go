package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"hexbattle/internal/config"
	"hexbattle/internal/effects"
	"hexbattle/internal/store"
)

func newTestServer(t *testing.T, liveMaxMS float64) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	data, err := config.LoadAll("../../assets")
	if err != nil {
		t.Fatalf("load assets: %v", err)
	}
	st := store.NewMemoryStore()
	s := New(Options{
		Data:      data,
		Registry:  effects.NewRegistry(),
		Store:     st,
		Logger:    zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)),
		LiveMaxMS: liveMaxMS,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

const duelJSON = `{
  "seed": 4,
  "board": {
    "name": "duel",
    "units": [
      {"name": "Darius", "col": 3, "row": 3, "star": 2},
      {"name": "Caitlyn", "col": 0, "row": 0},
      {"name": "Singed", "col": 3, "row": 4},
      {"name": "Twitch", "col": 6, "row": 7}
    ]
  }
}`

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, 0)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestCreateAndFetchBattle(t *testing.T) {
	ts, st := newTestServer(t, 0)

	resp, err := http.Post(ts.URL+"/battles", "application/json", strings.NewReader(duelJSON))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var created battleResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Result == nil || created.Result.Meta.Seed != 4 || created.Result.Meta.Board != "duel" {
		t.Fatalf("created=%+v", created)
	}

	get, err := http.Get(ts.URL + "/battles/" + created.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer get.Body.Close()
	var rec store.Record
	if err := json.NewDecoder(get.Body).Decode(&rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if get.StatusCode != http.StatusOK || rec.ID != created.ID || rec.Result.DurationMS != created.Result.DurationMS {
		t.Fatalf("status=%d record=%+v", get.StatusCode, rec)
	}

	list, err := http.Get(ts.URL + "/battles?limit=5")
	if err != nil {
		t.Fatal(err)
	}
	defer list.Body.Close()
	var summaries []map[string]any
	if err := json.NewDecoder(list.Body).Decode(&summaries); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(summaries) != 1 || summaries[0]["id"] != created.ID {
		t.Fatalf("list=%v", summaries)
	}
	if all, _ := st.Recent(context.Background(), 0); len(all) != 1 {
		t.Fatalf("stored=%d", len(all))
	}
}

func TestCreateBattleFromYAML(t *testing.T) {
	ts, _ := newTestServer(t, 0)
	body := `
board:
  name: yaml-duel
  units:
    - { name: Vi, col: 3, row: 3 }
    - { name: Warwick, col: 3, row: 4 }
`
	resp, err := http.Post(ts.URL+"/battles?seed=8", "application/yaml", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var created battleResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated || created.Result.Meta.Seed != 8 || created.Result.Meta.Board != "yaml-duel" {
		t.Fatalf("status=%d created=%+v", resp.StatusCode, created)
	}
}

func TestRejectsBadRequests(t *testing.T) {
	ts, _ := newTestServer(t, 0)
	cases := []struct {
		name string
		body string
		want int
	}{
		{"garbage", "{", http.StatusBadRequest},
		{"empty board", `{"board":{"units":[]}}`, http.StatusBadRequest},
		{"unknown champion", `{"board":{"units":[{"name":"Nobody","col":0,"row":0}]}}`, http.StatusBadRequest},
		{"stacked", `{"board":{"units":[{"name":"Vi","col":0,"row":0},{"name":"Vi","col":0,"row":0}]}}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		resp, err := http.Post(ts.URL+"/battles", "application/json", bytes.NewBufferString(c.body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != c.want {
			t.Fatalf("%s: status=%d, want %d", c.name, resp.StatusCode, c.want)
		}
	}

	resp, err := http.Get(ts.URL + "/battles/does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing battle status=%d", resp.StatusCode)
	}
}

func TestLiveBattleStreamsSnapshots(t *testing.T) {
	ts, _ := newTestServer(t, 300)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/battles/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var req battleRequest
	if err := json.Unmarshal([]byte(duelJSON), &req); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("send board: %v", err)
	}

	snapshots := 0
	lastTick := -1
	for {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var frame liveFrame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read frame after %d snapshots: %v", snapshots, err)
		}
		if frame.Type == "result" {
			if frame.Result == nil || !frame.Result.Draw || frame.Result.Meta.Board != "duel" {
				t.Fatalf("result=%+v", frame.Result)
			}
			break
		}
		if frame.Type != "snapshot" || frame.Snapshot == nil {
			t.Fatalf("frame=%+v", frame)
		}
		if frame.Snapshot.Tick <= lastTick || len(frame.Snapshot.Units) != 4 {
			t.Fatalf("snapshot tick=%d after %d, units=%d", frame.Snapshot.Tick, lastTick, len(frame.Snapshot.Units))
		}
		lastTick = frame.Snapshot.Tick
		snapshots++
	}
	if snapshots < 2 {
		t.Fatalf("snapshots=%d", snapshots)
	}
}

func TestLiveBattleReportsBadBoard(t *testing.T) {
	ts, _ := newTestServer(t, 300)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/battles/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(battleRequest{}); err != nil {
		t.Fatal(err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame liveFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.Type != "error" || frame.Error == "" {
		t.Fatalf("frame=%+v", frame)
	}
}
