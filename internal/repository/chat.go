package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// InsertChatExchange stores an answered question.
func (r *Repository) InsertChatExchange(ctx context.Context, ex *model.ChatExchange) error {
	query := `
		INSERT INTO chat_exchanges (id, owner, question, language, answer, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		ex.ID,
		ex.Owner,
		ex.Question,
		ex.Language,
		ex.Answer,
		string(ex.Source),
		ex.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat exchange: %w", err)
	}

	return nil
}

// ListChatExchanges returns the owner's exchanges, newest first, and a cursor
// for the next page ("" when there is none).
func (r *Repository) ListChatExchanges(ctx context.Context, owner string, filter model.HistoryFilter, cursor string) ([]*model.ChatExchange, string, error) {
	q := newHistoryQuery(`
		SELECT id, owner, question, language, answer, source, created_at
		FROM chat_exchanges
		WHERE owner = $1
	`, owner)

	if err := q.applyCursor(cursor); err != nil {
		return nil, "", err
	}
	q.applyRange(filter)
	if filter.Language != "" {
		q.where("language = $%d", filter.Language)
	}
	if text := strings.TrimSpace(filter.Query); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		q.whereN(2, "(question ILIKE $%d OR answer ILIKE $%d)", pattern, pattern)
	}

	limit := filter.EffectiveLimit()
	sql, args := q.finish(limit)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list chat exchanges: %w", err)
	}
	defer rows.Close()

	var items []*model.ChatExchange
	for rows.Next() {
		ex, err := scanChatExchange(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan chat exchange: %w", err)
		}
		items = append(items, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating chat exchanges: %w", err)
	}

	var next string
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		next = encodeCursor(&PaginationCursor{ID: last.ID, CreatedAt: last.CreatedAt})
	}

	return items, next, nil
}

func scanChatExchange(rows pgx.Rows) (*model.ChatExchange, error) {
	var (
		ex     model.ChatExchange
		source string
	)
	err := rows.Scan(
		&ex.ID,
		&ex.Owner,
		&ex.Question,
		&ex.Language,
		&ex.Answer,
		&source,
		&ex.CreatedAt,
	)
	ex.Source = model.AnswerSource(source)
	return &ex, err
}

// historyQuery assembles owner-scoped list queries with positional arguments.
type historyQuery struct {
	sql  strings.Builder
	args []any
}

func newHistoryQuery(base, owner string) *historyQuery {
	q := &historyQuery{args: []any{owner}}
	q.sql.WriteString(base)
	return q
}

// where appends " AND <clause>" where clause contains one %d placeholder.
func (q *historyQuery) where(clause string, arg any) {
	q.args = append(q.args, arg)
	q.sql.WriteString(" AND " + fmt.Sprintf(clause, len(q.args)))
}

// whereN appends a clause with n placeholders bound to consecutive args.
func (q *historyQuery) whereN(n int, clause string, args ...any) {
	idx := make([]any, 0, n)
	for i := 0; i < n; i++ {
		q.args = append(q.args, args[i])
		idx = append(idx, len(q.args))
	}
	q.sql.WriteString(" AND " + fmt.Sprintf(clause, idx...))
}

func (q *historyQuery) applyCursor(cursor string) error {
	if cursor == "" {
		return nil
	}
	c, err := decodeCursor(cursor)
	if err != nil {
		return ErrInvalidCursor
	}
	q.whereN(2, "(created_at, id) < ($%d, $%d)", c.CreatedAt, c.ID)
	return nil
}

func (q *historyQuery) applyRange(filter model.HistoryFilter) {
	if filter.Start != nil {
		q.where("created_at >= $%d", *filter.Start)
	}
	if filter.End != nil {
		q.where("created_at <= $%d", *filter.End)
	}
}

// finish adds ordering and a limit one larger than requested so the caller can
// tell whether another page exists.
func (q *historyQuery) finish(limit int) (string, []any) {
	q.args = append(q.args, limit+1)
	q.sql.WriteString(fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(q.args)))
	return q.sql.String(), q.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
