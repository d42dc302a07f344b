package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// InsertFormArtifact stores a generated form.
func (r *Repository) InsertFormArtifact(ctx context.Context, form *model.FormArtifact) error {
	fields, err := json.Marshal(form.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode form fields: %w", err)
	}

	missing := form.MissingFields
	if missing == nil {
		missing = []string{}
	}

	query := `
		INSERT INTO form_artifacts (id, owner, form_type, title, content, fields, missing_fields, archive_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.Exec(ctx, query,
		form.ID,
		form.Owner,
		form.FormType,
		form.Title,
		form.Content,
		fields,
		pq.Array(missing),
		form.ArchiveKey,
		form.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert form artifact: %w", err)
	}

	return nil
}

// ListFormArtifacts returns the owner's forms, newest first, with a next-page cursor.
func (r *Repository) ListFormArtifacts(ctx context.Context, owner string, filter model.HistoryFilter, cursor string) ([]*model.FormArtifact, string, error) {
	q := newHistoryQuery(`
		SELECT id, owner, form_type, title, content, fields, missing_fields, archive_key, created_at
		FROM form_artifacts
		WHERE owner = $1
	`, owner)

	if err := q.applyCursor(cursor); err != nil {
		return nil, "", err
	}
	q.applyRange(filter)
	if filter.FormType != "" {
		q.where("form_type = $%d", strings.ToUpper(filter.FormType))
	}
	if text := strings.TrimSpace(filter.Query); text != "" {
		q.where("content ILIKE $%d", "%"+escapeLike(text)+"%")
	}

	limit := filter.EffectiveLimit()
	sql, args := q.finish(limit)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list form artifacts: %w", err)
	}
	defer rows.Close()

	var items []*model.FormArtifact
	for rows.Next() {
		form, err := scanFormArtifact(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan form artifact: %w", err)
		}
		items = append(items, form)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating form artifacts: %w", err)
	}

	var next string
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		next = encodeCursor(&PaginationCursor{ID: last.ID, CreatedAt: last.CreatedAt})
	}

	return items, next, nil
}

func scanFormArtifact(rows pgx.Rows) (*model.FormArtifact, error) {
	var (
		form    model.FormArtifact
		fields  []byte
		missing []string
	)
	err := rows.Scan(
		&form.ID,
		&form.Owner,
		&form.FormType,
		&form.Title,
		&form.Content,
		&fields,
		pq.Array(&missing),
		&form.ArchiveKey,
		&form.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &form.Fields); err != nil {
			return nil, fmt.Errorf("decode fields: %w", err)
		}
	}
	form.MissingFields = missing
	return &form, nil
}
