package db

import "time"

// CommandRecord is one audited command invocation. The audit log is
// write-only from the dispatch path; nothing in the bot reads it back.
type CommandRecord struct {
	ID        string    `db:"id"`
	Verb      string    `db:"verb"`
	Argument  string    `db:"argument"`
	AuthorID  string    `db:"author_id"`
	ChannelID string    `db:"channel_id"`
	Kind      string    `db:"kind"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}
