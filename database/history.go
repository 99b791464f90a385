package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrDisabled = errors.New("persistence not configured")

type UploadRecord struct {
	ID        int64           `json:"id"`
	SessionID string          `json:"-"`
	Filename  string          `json:"filename"`
	Rows      int             `json:"rows"`
	Columns   json.RawMessage `json:"columns"`
	Kinds     json.RawMessage `json:"kinds"`
	TextOnly  bool            `json:"text_only"`
	CreatedAt time.Time       `json:"created_at"`
}

type AnalysisRecord struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"-"`
	Query         string    `json:"query"`
	FilterToken   *string   `json:"filter_token"`
	FilterColumn  *string   `json:"filter_column"`
	MatchedRows   int       `json:"matched_rows"`
	TotalRows     int       `json:"total_rows"`
	InsightSource string    `json:"insight_source"`
	Summary       string    `json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecordUpload is a no-op without a pool.
func RecordUpload(ctx context.Context, sessionID, filename string, rows int, columns []string, kinds any, textOnly bool) error {
	if Pool == nil {
		return nil
	}
	cb, err := json.Marshal(columns)
	if err != nil {
		return err
	}
	kb, err := json.Marshal(kinds)
	if err != nil {
		return err
	}
	_, err = Pool.Exec(ctx, `INSERT INTO uploads(session_id, filename, row_count, columns, kinds, text_only) VALUES($1,$2,$3,$4::jsonb,$5::jsonb,$6)`,
		sessionID, filename, rows, string(cb), string(kb), textOnly)
	return err
}

// RecordAnalysis is a no-op without a pool.
func RecordAnalysis(ctx context.Context, r AnalysisRecord) error {
	if Pool == nil {
		return nil
	}
	_, err := Pool.Exec(ctx, `INSERT INTO analyses(session_id, query, filter_token, filter_column, matched_rows, total_rows, insight_source, summary) VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.SessionID, r.Query, r.FilterToken, r.FilterColumn, r.MatchedRows, r.TotalRows, r.InsightSource, r.Summary)
	return err
}

func RecentUploads(ctx context.Context, sessionID string, limit int) ([]UploadRecord, error) {
	if Pool == nil {
		return nil, ErrDisabled
	}
	rows, err := Pool.Query(ctx, `
        SELECT id, filename, row_count, columns::text, kinds::text, text_only, created_at
        FROM uploads WHERE session_id=$1
        ORDER BY created_at DESC
        LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []UploadRecord{}
	for rows.Next() {
		u := UploadRecord{SessionID: sessionID}
		var cols, kinds string
		if err := rows.Scan(&u.ID, &u.Filename, &u.Rows, &cols, &kinds, &u.TextOnly, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Columns, u.Kinds = json.RawMessage(cols), json.RawMessage(kinds)
		out = append(out, u)
	}
	return out, rows.Err()
}

func RecentAnalyses(ctx context.Context, sessionID string, limit int) ([]AnalysisRecord, error) {
	if Pool == nil {
		return nil, ErrDisabled
	}
	rows, err := Pool.Query(ctx, `
        SELECT id, query, filter_token, filter_column, matched_rows, total_rows, insight_source, summary, created_at
        FROM analyses WHERE session_id=$1
        ORDER BY created_at DESC
        LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AnalysisRecord{}
	for rows.Next() {
		a := AnalysisRecord{SessionID: sessionID}
		if err := rows.Scan(&a.ID, &a.Query, &a.FilterToken, &a.FilterColumn, &a.MatchedRows, &a.TotalRows, &a.InsightSource, &a.Summary, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
