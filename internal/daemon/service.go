// Package daemon provides the long-running budget query service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/logging"
	"github.com/theirongolddev/prorata/internal/source"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
	Source       string // source kind, reported in status
	Precision    int32
}

// Delta counts budget entries that differ between two reloads.
type Delta struct {
	Added   int `json:"added"`
	Changed int `json:"changed"`
	Removed int `json:"removed"`
}

func (d Delta) isZero() bool {
	return d.Added == 0 && d.Changed == 0 && d.Removed == 0
}

// Event is emitted on the first load and whenever the budget set changes.
type Event struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	BudgetCount int       `json:"budget_count"`
	Delta       Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt         time.Time `json:"started_at"`
	LastReloadAt      time.Time `json:"last_reload_at"`
	ReloadIntervalSec int       `json:"reload_interval_sec"`
	ReloadCount       int64     `json:"reload_count"`
	BudgetCount       int       `json:"budget_count"`
	Source            string    `json:"source"`
	LastError         string    `json:"last_error,omitempty"`
	EventCount        int       `json:"event_count"`
	SubscriberCount   int       `json:"subscriber_count"`
}

// MonthResult is one month of a query breakdown.
type MonthResult struct {
	YearMonth   string `json:"year_month"`
	Days        int    `json:"days"`
	DaysInMonth int    `json:"days_in_month"`
	Budget      int64  `json:"budget"`
	Amount      string `json:"amount"`
}

// QueryResult is served at /v1/query. Total is rounded to the configured
// precision; Exact is the unrounded ratio.
type QueryResult struct {
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Total  string        `json:"total"`
	Exact  string        `json:"exact"`
	Months []MonthResult `json:"months,omitempty"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	reader source.Reader

	mu           sync.RWMutex
	startedAt    time.Time
	lastReloadAt time.Time
	reloadCount  int64
	lastError    string
	loaded       bool
	budgets      []budget.MonthlyBudget
	lookup       budget.Lookup
	nextEventID  int64
	events       []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service serving budgets read from r.
func New(cfg Config, r source.Reader) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}

	return &Service{
		cfg:       cfg,
		reader:    r,
		startedAt: time.Now(),
		lookup:    budget.Lookup{},
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the daemon's HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/budgets", s.handleBudgets)
	mux.HandleFunc("/v1/query", s.handleQuery)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run serves the HTTP API and reloads budgets until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	// Seed the snapshot so status is useful immediately.
	s.reload(gctx)

	g.Go(func() error {
		logging.Info("daemon listening", "addr", s.cfg.Addr, "source", s.cfg.Source)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case <-ticker.C:
				s.reload(gctx)
			}
		}
	})

	return g.Wait()
}

// reload fetches the budget set and swaps it in. On error the previous
// snapshot keeps serving.
func (s *Service) reload(ctx context.Context) {
	budgets, err := source.Fetch(ctx, s.reader)
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastReloadAt = now
		s.reloadCount++
		s.mu.Unlock()
		logging.Warn("budget reload failed", "error", err)
		return
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.budgets
	prevExists := s.loaded

	s.loaded = true
	s.budgets = budgets
	s.lookup = budget.NewLookup(budgets)
	s.lastReloadAt = now
	s.reloadCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:          s.nextEventID,
			Type:        "snapshot",
			Timestamp:   now,
			BudgetCount: len(s.lookup),
		}
		publish = true
	} else if delta := diffBudgets(prev, budgets); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:          s.nextEventID,
			Type:        "budgets_changed",
			Timestamp:   now,
			BudgetCount: len(s.lookup),
			Delta:       delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		logging.Debug("budgets reloaded", "event", ev.Type, "count", ev.BudgetCount)
		s.publishEvent(ev)
	}
}

func diffBudgets(prev, curr []budget.MonthlyBudget) Delta {
	before := budget.NewLookup(prev)
	after := budget.NewLookup(curr)

	var d Delta
	for k, b := range after {
		old, ok := before[k]
		switch {
		case !ok:
			d.Added++
		case old.Amount != b.Amount:
			d.Changed++
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			d.Removed++
		}
	}
	return d
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:         s.startedAt,
		LastReloadAt:      s.lastReloadAt,
		ReloadIntervalSec: int(s.cfg.Interval.Seconds()),
		ReloadCount:       s.reloadCount,
		BudgetCount:       len(s.lookup),
		Source:            s.cfg.Source,
		LastError:         s.lastError,
		EventCount:        len(s.events),
		SubscriberCount:   len(s.subs),
	}
}

// query prorates against the current snapshot. The lookup map is replaced
// on reload, never mutated, so it is safe to use outside the lock.
func (s *Service) query(start, end time.Time, breakdown bool) QueryResult {
	s.mu.RLock()
	lookup := s.lookup
	s.mu.RUnlock()

	months := budget.Prorate(start, end, lookup)
	total := budget.Total(months)

	res := QueryResult{
		Start: start.Format(budget.DateLayout),
		End:   end.Format(budget.DateLayout),
		Total: budget.Decimal(total, s.cfg.Precision).StringFixed(s.cfg.Precision),
		Exact: total.RatString(),
	}
	if breakdown {
		res.Months = make([]MonthResult, 0, len(months))
		for _, c := range months {
			res.Months = append(res.Months, MonthResult{
				YearMonth:   c.YearMonth,
				Days:        c.Days,
				DaysInMonth: c.DaysInMonth,
				Budget:      c.Budget,
				Amount:      budget.Decimal(c.Amount, s.cfg.Precision).StringFixed(s.cfg.Precision),
			})
		}
	}
	return res
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleBudgets(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	budgets := make([]budget.MonthlyBudget, len(s.budgets))
	copy(budgets, s.budgets)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, budgets)
}

func (s *Service) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	q := r.URL.Query()
	start, err := budget.ParseDate(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("start: %w", err))
		return
	}
	end, err := budget.ParseDate(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("end: %w", err))
		return
	}

	breakdown := q.Get("breakdown") == "1" || q.Get("breakdown") == "true"
	writeJSON(w, http.StatusOK, s.query(start, end, breakdown))
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current state immediately.
	current := Event{
		Type:        "snapshot",
		Timestamp:   time.Now(),
		BudgetCount: s.snapshotStatus().BudgetCount,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
