package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"hexbattle/internal/combat"
	"hexbattle/internal/config"
	"hexbattle/internal/effects"
	"hexbattle/internal/hexgrid"
	"hexbattle/internal/server"
	"hexbattle/internal/store"
	"hexbattle/internal/util"
)

func main() {
	var cfgDir, boardPath, out, addr string
	var seed int64
	var n int
	var saveLog, debug bool
	var maxMS float64
	flag.StringVar(&cfgDir, "config", "assets", "config dir")
	flag.StringVar(&boardPath, "board", "assets/boards/demo.yaml", "board file")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.Int64Var(&seed, "seed", 12345, "seed")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.BoolVar(&saveLog, "log", true, "save full event log when n==1")
	flag.StringVar(&addr, "serve", "", "serve the battle API on this address instead of simulating")
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.Float64Var(&maxMS, "max-ms", combat.DefaultMaxMS, "battle time limit in ms")
	flag.Parse()

	log, err := util.NewLogger(debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	data, err := config.LoadAll(cfgDir)
	if err != nil {
		log.Fatal("load config", zap.String("dir", cfgDir), zap.Error(err))
	}
	reg := effects.NewRegistry()

	if addr != "" {
		if err := serve(addr, data, reg, maxMS, log); err != nil {
			log.Fatal("serve", zap.Error(err))
		}
		return
	}

	board, err := config.LoadBoard(boardPath)
	if err != nil {
		log.Fatal("load board", zap.String("path", boardPath), zap.Error(err))
	}
	if err := data.ValidateBoard(board, hexgrid.Cols, hexgrid.Rows); err != nil {
		log.Fatal("invalid board", zap.String("path", boardPath), zap.Error(err))
	}
	book := combat.NewBook(data)
	newBattle := func(seed int64, l *zap.Logger) *combat.Battle {
		b, err := combat.NewBattleFromBoard(board, combat.Options{
			Seed: seed, Logger: l, Registry: reg, Book: book,
		})
		if err != nil {
			log.Fatal("build battle", zap.Error(err))
		}
		return b
	}

	if n <= 1 {
		res := combat.RunSingle(newBattle(seed, log), seed, maxMS, saveLog)
		if err := os.WriteFile(out, combat.MarshalPretty(res), 0644); err != nil {
			log.Fatal("write result", zap.String("out", out), zap.Error(err))
		}
		fmt.Printf("Single simsvc finished. Winner=%d, T=%.2fs, ticks=%d -> %s\n",
			res.Winner, res.DurationMS/1000, res.Ticks, out)
		return
	}

	type stat struct {
		Wins       [2]int
		Draws      int
		SumT       float64
		ByChampion map[string]float64
	}
	var st = stat{ByChampion: map[string]float64{}}
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	workers := 8
	jobs := make(chan int, n)
	quiet := log.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				runSeed := seed + int64(i)*7919
				res := combat.RunSingle(newBattle(runSeed, quiet), runSeed, maxMS, false)

				mu.Lock()
				if res.Draw {
					st.Draws++
				} else {
					st.Wins[res.Winner]++
				}
				st.SumT += res.DurationMS
				for k, v := range res.DamageByChampion {
					st.ByChampion[k] += v
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	totalDmg := 0.0
	for _, v := range st.ByChampion {
		totalDmg += v
	}

	percent := func(m map[string]float64) map[string]any {
		out := map[string]any{}
		for k, v := range m {
			share := 0.0
			if totalDmg > 0 {
				share = v / totalDmg
			}
			out[k] = map[string]any{"total": v, "ratio": share}
		}
		return out
	}

	summary := map[string]any{
		"runs":           n,
		"board":          board.Name,
		"win_rate_team0": float64(st.Wins[combat.TeamAlly]) / float64(n),
		"win_rate_team1": float64(st.Wins[combat.TeamEnemy]) / float64(n),
		"draws":          st.Draws,
		"avg_time_ms":    st.SumT / float64(n),
		"total_damage":   totalDmg,
		"by_champion":    percent(st.ByChampion),
	}
	if err := os.WriteFile(out, combat.MarshalPretty(summary), 0644); err != nil {
		log.Fatal("write summary", zap.String("out", out), zap.Error(err))
	}
	fmt.Printf("Batch %d done -> %s\n", n, filepath.Base(out))
}

// serve runs the battle API until SIGINT/SIGTERM. Results go to Postgres
// when DATABASE_URL is set and stay in memory otherwise.
func serve(addr string, data *config.Data, reg *combat.Registry, maxMS float64, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var results store.ResultStore = store.NewMemoryStore()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := store.OpenPostgres(ctx, dsn, log.Named("store"))
		if err != nil {
			return err
		}
		results = pg
		log.Info("storing results in postgres")
	}
	defer results.Close()

	srv := server.New(server.Options{
		Data:     data,
		Registry: reg,
		Store:    results,
		Logger:   log.Named("http"),
		MaxMS:    maxMS,
	})
	return server.ListenAndServe(ctx, addr, srv.Handler(), log)
}
