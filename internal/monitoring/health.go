package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks the liveness of the evaluation loop. It is updated
// by the pipeline after each cycle and served as JSON.
type HealthChecker struct {
	mu            sync.RWMutex
	lastCycle     time.Time
	lastBar       time.Time
	lastPrice     float64
	lastRegime    string
	cyclesTotal   int64
	staleAfter    time.Duration
	recentErrors  []string
	maxErrorsKept int
}

type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	LastCycle   time.Time `json:"last_cycle"`
	LastBar     time.Time `json:"last_bar"`
	LastPrice   float64   `json:"last_price"`
	LastRegime  string    `json:"last_regime"`
	CyclesTotal int64     `json:"cycles_total"`
	Uptime      string    `json:"uptime"`
	Errors      []string  `json:"errors,omitempty"`
}

func NewHealthChecker(staleAfter time.Duration) *HealthChecker {
	if staleAfter <= 0 {
		staleAfter = 2 * time.Hour
	}
	return &HealthChecker{
		staleAfter:    staleAfter,
		maxErrorsKept: 10,
	}
}

// RecordCycle notes a completed evaluation cycle.
func (h *HealthChecker) RecordCycle(barTime time.Time, price float64, regime string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastCycle = time.Now()
	h.lastBar = barTime
	h.lastPrice = price
	h.lastRegime = regime
	h.cyclesTotal++
}

// RecordError keeps a bounded tail of recent error messages.
func (h *HealthChecker) RecordError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recentErrors = append(h.recentErrors, msg)
	if len(h.recentErrors) > h.maxErrorsKept {
		h.recentErrors = h.recentErrors[len(h.recentErrors)-h.maxErrorsKept:]
	}
}

// Snapshot returns the current health view.
func (h *HealthChecker) Snapshot() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if h.lastCycle.IsZero() || time.Since(h.lastCycle) > h.staleAfter {
		status = "stale"
	}
	if len(h.recentErrors) > 0 {
		status = "degraded"
	}

	errs := make([]string, len(h.recentErrors))
	copy(errs, h.recentErrors)

	return HealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		LastCycle:   h.lastCycle,
		LastBar:     h.lastBar,
		LastPrice:   h.lastPrice,
		LastRegime:  h.lastRegime,
		CyclesTotal: h.cyclesTotal,
		Uptime:      time.Since(startTime).String(),
		Errors:      errs,
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snap := h.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if snap.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(snap)
}
