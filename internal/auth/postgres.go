package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"saasbase.org/internal/ids"
)

// PGUserStore implements UserStore on PostgreSQL.
//
// Expected schema:
//
//	create table users (
//	    id              text primary key,
//	    email           text not null unique,
//	    password_hash   text not null,
//	    status          text not null,
//	    organisation_id text not null default '',
//	    role_id         text not null default '',
//	    designation_id  text not null default '',
//	    mobile          text not null default '',
//	    last_login_at   timestamptz,
//	    created_at      timestamptz not null default now(),
//	    updated_at      timestamptz not null default now()
//	);
type PGUserStore struct {
	db *sql.DB
}

var _ UserStore = (*PGUserStore)(nil)

func NewPGUserStore(db *sql.DB) *PGUserStore {
	return &PGUserStore{db: db}
}

const userColumns = `id, email, password_hash, status, organisation_id, role_id, designation_id, mobile, last_login_at, created_at, updated_at`

func (s *PGUserStore) Insert(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
		u.UpdatedAt = now
	}
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, email, password_hash, status, organisation_id, role_id, designation_id, mobile, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		u.ID, u.Email, u.PasswordHash, u.Status, u.OrganisationID, u.RoleID, u.DesignationID, u.Mobile, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *PGUserStore) Find(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `select `+userColumns+` from users where id=$1`, id)
	return scanUser(row)
}

func (s *PGUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `select `+userColumns+` from users where email=$1`, email)
	return scanUser(row)
}

func (s *PGUserStore) FindByEmailFold(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `select `+userColumns+` from users where lower(email)=lower($1)`, email)
	return scanUser(row)
}

func (s *PGUserStore) RecordLogin(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`update users set last_login_at=$2, updated_at=$2 where id=$1`, id, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u         User
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Status,
		&u.OrganisationID, &u.RoleID, &u.DesignationID, &u.Mobile,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLoginAt = lastLogin.Time
	}
	return &u, nil
}

// isUniqueViolation reports a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
