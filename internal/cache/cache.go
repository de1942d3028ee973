// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// GameActionsQueue is the Redis list the historian consumes.
const GameActionsQueue = "historian:game_actions"

// Rdb is the shared Redis client. It stays nil when Redis is not configured,
// and every publisher checks for that.
var Rdb *redis.Client

// GameActionRecord is one entry of a match's action history.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorUserID   uuid.UUID              `json:"actor_user_id"` // uuid.Nil for game events
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"` // unix millis
}

// ConnectRedis parses url, pings the server and stores the client in Rdb.
func ConnectRedis(ctx context.Context, url string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("pinging redis: %w", err)
	}
	Rdb = client
	return nil
}

// Close releases the shared client, if any.
func Close() error {
	if Rdb == nil {
		return nil
	}
	err := Rdb.Close()
	Rdb = nil
	return err
}

// PublishGameAction appends rec to the historian queue.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	return Rdb.RPush(ctx, GameActionsQueue, data).Err()
}

// RoundsChannel is the pub/sub channel carrying a match's round summaries.
func RoundsChannel(gameID uuid.UUID) string {
	return "game:" + gameID.String() + ":rounds"
}

// PublishRoundSummary announces a finished round to subscribers of the
// match's rounds channel. summary must marshal to JSON.
func PublishRoundSummary(ctx context.Context, gameID uuid.UUID, summary interface{}) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal round summary: %w", err)
	}
	return Rdb.Publish(ctx, RoundsChannel(gameID), data).Err()
}
