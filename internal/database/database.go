// internal/database/database.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the shared pool. It stays nil when Postgres is not configured and
// every store function is then a no-op.
var DB *pgxpool.Pool

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id            UUID PRIMARY KEY,
	player_count  SMALLINT NOT NULL,
	points_to_win SMALLINT NOT NULL,
	players       JSONB NOT NULL,
	started_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	ended_at      TIMESTAMPTZ,
	winners       JSONB
);

CREATE TABLE IF NOT EXISTS match_rounds (
	match_id   UUID NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
	round      INTEGER NOT NULL,
	summary    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (match_id, round)
);`

// ConnectDB opens the pool, pings it and stores it in DB.
func ConnectDB(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("pinging postgres: %w", err)
	}
	DB = pool
	return nil
}

// Close releases the shared pool, if any.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}

// EnsureSchema creates the result tables when they are missing.
func EnsureSchema(ctx context.Context) error {
	if DB == nil {
		return nil
	}
	if _, err := DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// MatchPlayer is one roster entry as stored with a match.
type MatchPlayer struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Seat int       `json:"seat"`
}

// UpsertMatch records a match and its roster. A rematch on the same id
// resets the end marker.
func UpsertMatch(ctx context.Context, matchID uuid.UUID, pointsToWin int, players []MatchPlayer) error {
	if DB == nil {
		return nil
	}
	roster, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}
	_, err = DB.Exec(ctx, `
		INSERT INTO matches (id, player_count, points_to_win, players, started_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET points_to_win = EXCLUDED.points_to_win,
		    players = EXCLUDED.players,
		    started_at = EXCLUDED.started_at,
		    ended_at = NULL,
		    winners = NULL`,
		matchID, len(players), pointsToWin, roster, time.Now())
	if err != nil {
		return fmt.Errorf("upsert match %s: %w", matchID, err)
	}
	return nil
}

// StoreRoundResult stores one round summary. summary must marshal to JSON.
func StoreRoundResult(ctx context.Context, matchID uuid.UUID, round int, summary interface{}) error {
	if DB == nil {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal round summary: %w", err)
	}
	_, err = DB.Exec(ctx, `
		INSERT INTO match_rounds (match_id, round, summary)
		VALUES ($1, $2, $3)
		ON CONFLICT (match_id, round) DO UPDATE SET summary = EXCLUDED.summary`,
		matchID, round, data)
	if err != nil {
		return fmt.Errorf("store round %d of match %s: %w", round, matchID, err)
	}
	return nil
}

// StoreMatchResult marks a match finished with the given winner ids.
func StoreMatchResult(ctx context.Context, matchID uuid.UUID, winners []uuid.UUID) error {
	if DB == nil {
		return nil
	}
	data, err := json.Marshal(winners)
	if err != nil {
		return fmt.Errorf("marshal winners: %w", err)
	}
	_, err = DB.Exec(ctx, `UPDATE matches SET ended_at = now(), winners = $2 WHERE id = $1`, matchID, data)
	if err != nil {
		return fmt.Errorf("store result of match %s: %w", matchID, err)
	}
	return nil
}
