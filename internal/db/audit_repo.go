package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/T-One/krang/internal/bot"
)

// AuditRepository persists command audit records.
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// RecordCommand implements bot.Recorder.
func (r *AuditRepository) RecordCommand(ctx context.Context, inv *bot.Invocation, kind, detail string) error {
	rec := CommandRecord{
		ID:        uuid.New().String(),
		Verb:      string(inv.Verb),
		Argument:  inv.Arg,
		AuthorID:  inv.AuthorID,
		ChannelID: inv.ChannelID,
		Kind:      kind,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO command_log (id, verb, argument, author_id, channel_id, kind, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Verb, rec.Argument, rec.AuthorID, rec.ChannelID, rec.Kind, rec.Detail, rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert command record: %w", err)
	}

	return nil
}

// ListRecent returns the most recent audit records, newest first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]CommandRecord, error) {
	query := `
		SELECT id, verb, argument, author_id, channel_id, kind, detail, created_at
		FROM command_log
		ORDER BY created_at DESC
		LIMIT ?`

	var records []CommandRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query command records: %w", err)
	}

	return records, nil
}
