// Package store keeps a journal of played games in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a game id has no journal entry
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite connection holding the game journal
type DB struct {
	conn *sqlx.DB
}

// GameRecord is one row of the games table
type GameRecord struct {
	ID        string        `db:"id"`
	Width     int           `db:"width"`
	Height    int           `db:"height"`
	Players   int           `db:"players"`
	StartedAt int64         `db:"started_at"`
	EndedAt   sql.NullInt64 `db:"ended_at"`
	Winner    sql.NullInt64 `db:"winner"`
	FinalTurn int           `db:"final_turn"`
	Rounds    int           `db:"rounds"`
}

// Started returns the start time of the game
func (g GameRecord) Started() time.Time { return time.UnixMilli(g.StartedAt) }

// Finished reports whether the game reached its end
func (g GameRecord) Finished() bool { return g.EndedAt.Valid }

// EventRecord is one journalled event
type EventRecord struct {
	ID       int64  `db:"id"`
	GameID   string `db:"game_id"`
	Seq      int    `db:"seq"`
	Type     string `db:"type"`
	Turn     int    `db:"turn"`
	PlayerID int    `db:"player_id"`
	At       int64  `db:"at"`
	Payload  string `db:"payload"`
}

// Open opens or creates a SQLite database at the given path
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// sqlite allows one writer at a time
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		players INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER,
		winner INTEGER,
		final_turn INTEGER NOT NULL DEFAULT 0,
		rounds INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		type TEXT NOT NULL,
		turn INTEGER NOT NULL,
		player_id INTEGER NOT NULL,
		at INTEGER NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_game ON events(game_id, seq);
	CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveGame inserts or replaces a game row
func (db *DB) SaveGame(ctx context.Context, g GameRecord) error {
	_, err := db.conn.NamedExecContext(ctx, `INSERT OR REPLACE INTO games
		(id, width, height, players, started_at, ended_at, winner, final_turn, rounds)
		VALUES (:id, :width, :height, :players, :started_at, :ended_at, :winner, :final_turn, :rounds)`, g)
	if err != nil {
		return fmt.Errorf("save game %s: %w", g.ID, err)
	}
	return nil
}

// FinishGame records the result of a game
func (db *DB) FinishGame(ctx context.Context, id string, winner, finalTurn, rounds int, at time.Time) error {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE games SET ended_at = ?, winner = ?, final_turn = ?, rounds = ? WHERE id = ?",
		at.UnixMilli(), winner, finalTurn, rounds, id,
	)
	if err != nil {
		return fmt.Errorf("finish game %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish game %s: %w", id, ErrNotFound)
	}
	return nil
}

// AppendEvents writes a batch of events in one transaction
func (db *DB) AppendEvents(ctx context.Context, records []EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO events
		(game_id, seq, type, turn, player_id, at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.GameID, r.Seq, r.Type, r.Turn, r.PlayerID, r.At, r.Payload); err != nil {
			return fmt.Errorf("insert event %s/%d: %w", r.GameID, r.Seq, err)
		}
	}
	return tx.Commit()
}

// Game returns one game row
func (db *DB) Game(ctx context.Context, id string) (GameRecord, error) {
	var g GameRecord
	err := db.conn.GetContext(ctx, &g, "SELECT * FROM games WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	return g, err
}

// Games lists every journalled game, newest first
func (db *DB) Games(ctx context.Context) ([]GameRecord, error) {
	var games []GameRecord
	err := db.conn.SelectContext(ctx, &games, "SELECT * FROM games ORDER BY started_at DESC, id")
	return games, err
}

// Events returns the events of a game in publish order
func (db *DB) Events(ctx context.Context, gameID string) ([]EventRecord, error) {
	var records []EventRecord
	err := db.conn.SelectContext(ctx, &records,
		"SELECT id, game_id, seq, type, turn, player_id, at, payload FROM events WHERE game_id = ? ORDER BY seq",
		gameID,
	)
	return records, err
}

// EventCounts returns how often each event type occurred in a game
func (db *DB) EventCounts(ctx context.Context, gameID string) (map[string]int, error) {
	var rows []struct {
		Type  string `db:"type"`
		Count int    `db:"n"`
	}
	err := db.conn.SelectContext(ctx, &rows,
		"SELECT type, COUNT(*) AS n FROM events WHERE game_id = ? GROUP BY type",
		gameID,
	)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Type] = r.Count
	}
	return counts, nil
}
