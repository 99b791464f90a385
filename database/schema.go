package database

import (
	"context"
	"log"
)

// EnsureSchema creates the history tables if they do not exist.
func EnsureSchema() {
	if Pool == nil {
		return
	}
	ctx := context.Background()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS uploads (
            id BIGSERIAL PRIMARY KEY,
            session_id TEXT NOT NULL,
            filename TEXT NOT NULL,
            row_count INT NOT NULL,
            columns JSONB NOT NULL DEFAULT '[]'::jsonb,
            kinds JSONB NOT NULL DEFAULT '{}'::jsonb,
            text_only BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS uploads_session_idx ON uploads(session_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS analyses (
            id BIGSERIAL PRIMARY KEY,
            session_id TEXT NOT NULL,
            query TEXT NOT NULL,
            filter_token TEXT,
            filter_column TEXT,
            matched_rows INT NOT NULL,
            total_rows INT NOT NULL,
            insight_source TEXT NOT NULL, -- 'llm', 'fallback' or 'none'
            summary TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS analyses_session_idx ON analyses(session_id, created_at DESC)`,
	}

	for _, s := range stmts {
		if _, err := Pool.Exec(ctx, s); err != nil {
			log.Printf("schema ensure error: %v in stmt: %s", err, s)
		}
	}
}
