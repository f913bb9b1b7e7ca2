package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/T-One/krang/internal/bot"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(DefaultConfig(filepath.Join(t.TempDir(), "audit.db")))
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	t.Cleanup(func() { database.Close() })
	return database
}

func TestRecordCommand(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAuditRepository(database)
	ctx := context.Background()

	inv := &bot.Invocation{
		ID:        "inv-1",
		Verb:      bot.VerbStart,
		Arg:       "minecraft",
		AuthorID:  "author-1",
		ChannelID: "channel-1",
	}
	require.NoError(t, repo.RecordCommand(ctx, inv, "success", "started"))

	records, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "start", rec.Verb)
	assert.Equal(t, "minecraft", rec.Argument)
	assert.Equal(t, "author-1", rec.AuthorID)
	assert.Equal(t, "channel-1", rec.ChannelID)
	assert.Equal(t, "success", rec.Kind)
	assert.Equal(t, "started", rec.Detail)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAuditRepository(database)
	ctx := context.Background()

	verbs := []bot.Verb{bot.VerbStatus, bot.VerbStart, bot.VerbStop}
	for _, v := range verbs {
		inv := &bot.Invocation{Verb: v, AuthorID: "author-1", ChannelID: "channel-1"}
		require.NoError(t, repo.RecordCommand(ctx, inv, "success", ""))
	}

	records, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMigrateIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	assert.NoError(t, database.Migrate())
}

func TestHealthCheck(t *testing.T) {
	database := setupTestDB(t)
	assert.NoError(t, database.HealthCheck(context.Background()))
}
