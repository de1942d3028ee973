package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStoresWithoutDatabaseAreNoops(t *testing.T) {
	DB = nil
	ctx := context.Background()
	id := uuid.New()

	assert.NoError(t, EnsureSchema(ctx))
	assert.NoError(t, UpsertMatch(ctx, id, 7, []MatchPlayer{{ID: uuid.New(), Name: "alice", Seat: 0}}))
	assert.NoError(t, StoreRoundResult(ctx, id, 1, map[string]string{"title": "alice wins the round!"}))
	assert.NoError(t, StoreMatchResult(ctx, id, []uuid.UUID{uuid.New()}))
	Close()
}

func TestConnectDBRejectsBadURL(t *testing.T) {
	err := ConnectDB(context.Background(), "postgres://%zz")
	assert.Error(t, err)
	assert.Nil(t, DB)
}
