package org

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"saasbase.org/internal/ids"
)

// PGStore implements Store on PostgreSQL, keeping the same document shape
// relationally.
//
// Expected schema:
//
//	create table organisations (
//	    id         text primary key,
//	    name       text not null,
//	    slug       text not null unique,
//	    status     text not null,
//	    created_at timestamptz not null,
//	    updated_at timestamptz not null
//	);
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const orgColumns = `id, name, slug, status, created_at, updated_at`

func (s *PGStore) FindAll(ctx context.Context, f Filter) ([]Organisation, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if f.Status != "" {
		rows, err = s.db.QueryContext(ctx,
			`select `+orgColumns+` from organisations where status=$1 order by created_at desc`, f.Status)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`select `+orgColumns+` from organisations order by created_at desc`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Organisation
	for rows.Next() {
		var o Organisation
		if err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PGStore) FindOne(ctx context.Context, f Filter) (*Organisation, error) {
	var row *sql.Row
	switch {
	case f.ID != "":
		row = s.db.QueryRowContext(ctx,
			`select `+orgColumns+` from organisations where id=$1`, f.ID)
	case f.Slug != "" && f.ExcludeID != "":
		row = s.db.QueryRowContext(ctx,
			`select `+orgColumns+` from organisations where slug=$1 and id<>$2`, f.Slug, f.ExcludeID)
	case f.Slug != "":
		row = s.db.QueryRowContext(ctx,
			`select `+orgColumns+` from organisations where slug=$1`, f.Slug)
	default:
		return nil, errors.New("org: empty filter")
	}

	var o Organisation
	if err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *PGStore) Insert(ctx context.Context, o *Organisation) error {
	if o.ID == "" {
		o.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into organisations(id, name, slug, status, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6)`,
		o.ID, o.Name, o.Slug, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func (s *PGStore) FindAndUpdate(ctx context.Context, id string, p Patch) (*Organisation, error) {
	row := s.db.QueryRowContext(ctx,
		`update organisations
		 set name=coalesce($2,name), slug=coalesce($3,slug), status=coalesce($4,status), updated_at=$5
		 where id=$1
		 returning `+orgColumns,
		id, nullable(p.Name), nullable(p.Slug), nullable(p.Status), p.UpdatedAt,
	)
	var o Organisation
	if err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return &o, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from organisations where id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

// isUniqueViolation reports a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
