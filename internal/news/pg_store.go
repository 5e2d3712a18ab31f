package news

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akarihousing/news-backend/internal/pkg/logging"
)

const documentsTable = "public.news_documents"

// Schema creates the table PgStore reads and writes.
const Schema = `CREATE TABLE IF NOT EXISTS public.news_documents (
	name       text PRIMARY KEY,
	body       jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// PgStore keeps the collection as a single jsonb row, so each save is one atomic upsert.
type PgStore struct {
	pool *pgxpool.Pool
	name string
}

// NewPgStore creates a PgStore for the document called name.
func NewPgStore(pool *pgxpool.Pool, name string) *PgStore {
	return &PgStore{pool: pool, name: name}
}

// EnsureSchema creates the documents table if it does not exist yet.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create news_documents table failed: %w", err)
	}
	return nil
}

func (s *PgStore) Load(ctx context.Context) []Announcement {
	logger := logging.FromContext(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("body").
		From(documentsTable).
		Where(squirrel.Eq{"name": s.name}).
		ToSql()
	if err != nil {
		logger.Error("build load news query failed", "error", err)
		return []Announcement{}
	}

	var body []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&body); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable:
			logger.Warn("news_documents table missing", "document", s.name)
		default:
			logger.Warn("load news document failed", "document", s.name, "error", err)
		}
		return []Announcement{}
	}

	items, err := DecodeDocument(body)
	if err != nil {
		logger.Warn("news document malformed", "document", s.name, "error", err)
		return []Announcement{}
	}
	return items
}

func (s *PgStore) Save(ctx context.Context, items []Announcement) error {
	body, err := EncodeDocument(items)
	if err != nil {
		return err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert(documentsTable).
		Columns("name", "body").
		Values(s.name, body).
		Suffix("ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save news query failed: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save news document failed: %w", err)
	}
	return nil
}
