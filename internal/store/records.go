package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Record is the persisted projection of one successful summarization.
// Written exactly once, never updated.
type Record struct {
	ID        int64
	SourceID  string
	Language  string
	Style     string
	Summary   string
	CreatedAt time.Time
}

// Filter narrows a Query. Zero values mean "no constraint".
type Filter struct {
	Limit       int
	URLContains string
	Style       string
}

// Append inserts one record.
func (s *Store) Append(record Record) error {
	query := `insert into summaries
	(source_id, language, style, summary_text, created_at)
	values (?, ?, ?, ?, ?)`

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := s.db.Exec(query,
		record.SourceID,
		record.Language,
		record.Style,
		record.Summary,
		createdAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert summary record: %w", err)
	}

	s.logger.Info("summary persisted", zap.String("source", record.SourceID))
	return nil
}

// Query returns records newest first, narrowed by the filter.
func (s *Store) Query(filter Filter) ([]Record, error) {
	query := `select id, source_id, language, style, summary_text, created_at
	from summaries`

	var (
		conditions []string
		args       []any
	)
	if filter.URLContains != "" {
		conditions = append(conditions, "source_id like ?")
		args = append(args, "%"+filter.URLContains+"%")
	}
	if filter.Style != "" {
		conditions = append(conditions, "style = ?")
		args = append(args, filter.Style)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " where " + cond
		} else {
			query += " and " + cond
		}
	}

	query += " order by created_at desc, id desc"

	if filter.Limit > 0 {
		query += " limit ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("failed to close rows", zap.Error(cerr))
		}
	}()

	var records []Record
	for rows.Next() {
		var (
			r         Record
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.SourceID, &r.Language, &r.Style, &r.Summary, &createdAt); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		if ts, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
			r.CreatedAt = ts
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary rows: %w", err)
	}

	return records, nil
}
