// Package server exposes battles over HTTP: headless runs that are stored
// and returned whole, and live runs streamed over a websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"hexbattle/internal/combat"
	"hexbattle/internal/config"
	"hexbattle/internal/hexgrid"
	"hexbattle/internal/store"
)

const maxBodyBytes = 1 << 20

type Options struct {
	Data     *config.Data
	Registry *combat.Registry
	Store    store.ResultStore
	Logger   *zap.Logger
	// MaxMS caps headless battles; LiveMaxMS caps streamed ones.
	MaxMS     float64
	LiveMaxMS float64
}

type Server struct {
	data      *config.Data
	book      *combat.Book
	reg       *combat.Registry
	store     store.ResultStore
	log       *zap.Logger
	maxMS     float64
	liveMaxMS float64
	router    *mux.Router
}

func New(opts Options) *Server {
	s := &Server{
		data:      opts.Data,
		book:      combat.NewBook(opts.Data),
		reg:       opts.Registry,
		store:     opts.Store,
		log:       opts.Logger,
		maxMS:     opts.MaxMS,
		liveMaxMS: opts.LiveMaxMS,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.maxMS <= 0 {
		s.maxMS = combat.DefaultMaxMS
	}
	if s.liveMaxMS <= 0 {
		s.liveMaxMS = s.maxMS
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/battles", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/battles", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/battles/live", s.handleLive).Methods(http.MethodGet)
	r.HandleFunc("/battles/{id}", s.handleGet).Methods(http.MethodGet)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// battleRequest is the body of POST /battles and the first message of a
// live session.
type battleRequest struct {
	Board  config.BoardConfig `json:"board" yaml:"board"`
	Seed   int64              `json:"seed" yaml:"seed"`
	Record bool               `json:"record" yaml:"record"`
}

type battleResponse struct {
	ID     string            `json:"id"`
	Result *combat.SimResult `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := s.newBattle(req, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := combat.RunSingle(b, req.Seed, s.maxMS, req.Record)
	rec := store.Record{
		ID:        uuid.NewString(),
		Board:     req.Board.Name,
		Seed:      req.Seed,
		CreatedAt: time.Now().UTC(),
		Result:    res,
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.log.Error("save battle result", zap.String("id", rec.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store the result")
		return
	}
	s.log.Info("battle finished",
		zap.String("id", rec.ID), zap.String("board", rec.Board),
		zap.Int("winner", res.Winner), zap.Float64("duration_ms", res.DurationMS))
	writeJSON(w, http.StatusCreated, battleResponse{ID: rec.ID, Result: &rec.Result})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "battle not found")
		return
	}
	if err != nil {
		s.log.Error("load battle result", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load the result")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	recs, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error("list battle results", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list results")
		return
	}
	type summary struct {
		ID         string    `json:"id"`
		Board      string    `json:"board"`
		Seed       int64     `json:"seed"`
		Winner     int       `json:"winner"`
		DurationMS float64   `json:"duration_ms"`
		CreatedAt  time.Time `json:"created_at"`
	}
	out := make([]summary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, summary{
			ID: rec.ID, Board: rec.Board, Seed: rec.Seed,
			Winner: rec.Result.Winner, DurationMS: rec.Result.DurationMS, CreatedAt: rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// newBattle validates the board against the loaded tables and builds a
// ready battle.
func (s *Server) newBattle(req battleRequest, emit func(combat.Event)) (*combat.Battle, error) {
	if len(req.Board.Units) == 0 {
		return nil, errors.New("board has no units")
	}
	if err := s.data.ValidateBoard(&req.Board, hexgrid.Cols, hexgrid.Rows); err != nil {
		return nil, err
	}
	return combat.NewBattleFromBoard(&req.Board, combat.Options{
		Seed:     req.Seed,
		Logger:   s.log.With(zap.String("board", req.Board.Name)),
		Registry: s.reg,
		Book:     s.book,
		Emit:     emit,
	})
}

// decodeRequest reads a JSON body, or YAML when the content type says so.
func decodeRequest(r *http.Request) (battleRequest, error) {
	var req battleRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("read body: %w", err)
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/yaml", "application/x-yaml", "text/yaml":
		err = yaml.Unmarshal(body, &req)
	default:
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("seed %q: %w", v, err)
		}
		req.Seed = seed
	}
	return req, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

// ListenAndServe serves h on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("listening", zap.String("addr", addr))
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}
