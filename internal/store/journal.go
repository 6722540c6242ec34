package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
)

const defaultBatchSize = 64

// Journal is an event subscriber that records every event of the games it
// sees. Events are buffered and written in batches; turn ends and game ends
// force a flush.
type Journal struct {
	db        *DB
	logger    zerolog.Logger
	timeout   time.Duration
	batchSize int

	mu      sync.Mutex
	seq     map[string]int
	pending []EventRecord
	err     error
}

// NewJournal creates a journal writing to db
func NewJournal(db *DB, logger zerolog.Logger) *Journal {
	return &Journal{
		db:        db,
		logger:    logger.With().Str("component", "Journal").Logger(),
		timeout:   5 * time.Second,
		batchSize: defaultBatchSize,
		seq:       make(map[string]int),
	}
}

// ID returns the subscriber's unique identifier
func (j *Journal) ID() string { return "journal" }

// InterestedIn returns true for every event type
func (j *Journal) InterestedIn(string) bool { return true }

// HandleEvent records event. Storage errors are logged and kept for Err.
func (j *Journal) HandleEvent(event events.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if e, ok := event.(*events.GameStartedEvent); ok {
		j.record(j.db.SaveGame(ctx, GameRecord{
			ID:        e.GameID(),
			Width:     e.MapWidth,
			Height:    e.MapHeight,
			Players:   e.NumPlayers,
			StartedAt: e.Timestamp().UnixMilli(),
		}))
	}

	payload, err := json.Marshal(event)
	if err != nil {
		j.record(err)
		return
	}
	gameID := event.GameID()
	j.seq[gameID]++
	meta := event.Meta()
	j.pending = append(j.pending, EventRecord{
		GameID:   gameID,
		Seq:      j.seq[gameID],
		Type:     event.Type(),
		Turn:     meta.Turn,
		PlayerID: meta.PlayerID,
		At:       event.Timestamp().UnixMilli(),
		Payload:  string(payload),
	})

	switch e := event.(type) {
	case *events.TurnEndedEvent:
		j.flushLocked(ctx)
	case *events.GameEndedEvent:
		j.flushLocked(ctx)
		j.record(j.db.FinishGame(ctx, e.GameID(), e.Winner, e.FinalTurn, e.Rounds, e.Timestamp()))
		delete(j.seq, gameID)
	default:
		if len(j.pending) >= j.batchSize {
			j.flushLocked(ctx)
		}
	}
}

// Flush writes buffered events
func (j *Journal) Flush(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.flushLocked(ctx)
}

func (j *Journal) flushLocked(ctx context.Context) error {
	if len(j.pending) == 0 {
		return nil
	}
	err := j.db.AppendEvents(ctx, j.pending)
	if err != nil {
		j.record(err)
		return err
	}
	j.logger.Debug().Int("events", len(j.pending)).Msg("Journal flushed")
	j.pending = j.pending[:0]
	return nil
}

func (j *Journal) record(err error) {
	if err == nil {
		return
	}
	j.logger.Error().Err(err).Msg("Journal write failed")
	if j.err == nil {
		j.err = err
	}
}

// Err returns the first storage error the journal hit
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}
