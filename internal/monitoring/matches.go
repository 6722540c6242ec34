package monitoring

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
)

// MatchMonitor follows every engine it is subscribed to and periodically
// reports how many matches are running, who is winning them, and how many
// goroutines the process holds.
type MatchMonitor struct {
	mu     sync.RWMutex
	logger zerolog.Logger

	interval       time.Duration
	alertThreshold int
	baseline       int
	peak           int

	running     map[string]time.Time
	finished    int
	draws       int
	totalTurns  int
	wins        map[int]int
	eliminated  int
	longestGame time.Duration
}

// MatchMetrics is a point-in-time copy of the monitor counters
type MatchMetrics struct {
	Running      int           `json:"running"`
	Finished     int           `json:"finished"`
	Draws        int           `json:"draws"`
	Eliminations int           `json:"eliminations"`
	AverageTurns float64       `json:"average_turns"`
	Longest      time.Duration `json:"longest"`
	Wins         map[int]int   `json:"wins"`
	Goroutines   int           `json:"goroutines"`
	Baseline     int           `json:"baseline"`
	Peak         int           `json:"peak"`
}

const defaultInterval = 30 * time.Second

// NewMatchMonitor creates a monitor that reports every interval
func NewMatchMonitor(logger zerolog.Logger, interval time.Duration) *MatchMonitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	baseline := runtime.NumGoroutine()
	return &MatchMonitor{
		logger:         logger.With().Str("component", "MatchMonitor").Logger(),
		interval:       interval,
		alertThreshold: 1000,
		baseline:       baseline,
		peak:           baseline,
		running:        make(map[string]time.Time),
		wins:           make(map[int]int),
	}
}

func (m *MatchMonitor) ID() string { return "match-monitor" }

func (m *MatchMonitor) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeGameStarted, events.TypeGameEnded, events.TypePlayerEliminated:
		return true
	}
	return false
}

func (m *MatchMonitor) HandleEvent(event events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch e := event.(type) {
	case *events.GameStartedEvent:
		m.running[e.GameID()] = e.Timestamp()
	case *events.PlayerEliminatedEvent:
		m.eliminated++
	case *events.GameEndedEvent:
		delete(m.running, e.GameID())
		m.finished++
		m.totalTurns += e.FinalTurn
		if e.Winner < 0 {
			m.draws++
		} else {
			m.wins[e.Winner]++
		}
		if e.Duration > m.longestGame {
			m.longestGame = e.Duration
		}
	}
}

// Run reports on every tick until ctx is done, then reports once more
func (m *MatchMonitor) Run(ctx context.Context) {
	m.logger.Info().Int("baseline", m.baseline).Dur("interval", m.interval).Msg("Started match monitoring")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.report()
		case <-ctx.Done():
			m.report()
			return
		}
	}
}

func (m *MatchMonitor) report() {
	metrics := m.Metrics()

	m.logger.Info().
		Int("running", metrics.Running).
		Int("finished", metrics.Finished).
		Int("draws", metrics.Draws).
		Float64("average_turns", metrics.AverageTurns).
		Interface("wins", metrics.Wins).
		Msg("Match metrics")

	m.logger.Debug().
		Int("current", metrics.Goroutines).
		Int("baseline", metrics.Baseline).
		Int("peak", metrics.Peak).
		Msg("Goroutine metrics")

	if metrics.Goroutines > m.alertThreshold {
		m.logger.Warn().
			Int("current", metrics.Goroutines).
			Int("threshold", m.alertThreshold).
			Msg("High goroutine count detected - possible leak")
	}
}

// Metrics samples the goroutine count and returns the current counters
func (m *MatchMonitor) Metrics() MatchMetrics {
	current := runtime.NumGoroutine()

	m.mu.Lock()
	defer m.mu.Unlock()

	if current > m.peak {
		m.peak = current
	}
	metrics := MatchMetrics{
		Running:      len(m.running),
		Finished:     m.finished,
		Draws:        m.draws,
		Eliminations: m.eliminated,
		Longest:      m.longestGame,
		Wins:         make(map[int]int, len(m.wins)),
		Goroutines:   current,
		Baseline:     m.baseline,
		Peak:         m.peak,
	}
	if m.finished > 0 {
		metrics.AverageTurns = float64(m.totalTurns) / float64(m.finished)
	}
	for seat, n := range m.wins {
		metrics.Wins[seat] = n
	}
	return metrics
}
