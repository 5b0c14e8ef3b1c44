package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGUserStoreFindByEmailFold(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "status", "organisation_id",
		"role_id", "designation_id", "mobile", "last_login_at", "created_at", "updated_at",
	}).AddRow("01ARZ3NDEKTSV4RRFFQ69G5FAV", "alice@example.com", "hash", StatusActive,
		"", "", "", "", nil, now, now)

	mock.ExpectQuery("select (.+) from users where lower\\(email\\)=lower\\(\\$1\\)").
		WithArgs("Alice@Example.COM").
		WillReturnRows(rows)

	store := NewPGUserStore(db)
	u, err := store.FindByEmailFold(context.Background(), "Alice@Example.COM")
	if err != nil {
		t.Fatalf("FindByEmailFold: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q", u.Email)
	}
	if !u.LastLoginAt.IsZero() {
		t.Errorf("expected zero last login, got %v", u.LastLoginAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPGUserStoreRecordLoginMissingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	at := time.Now().UTC()
	mock.ExpectExec("update users set last_login_at=\\$2, updated_at=\\$2 where id=\\$1").
		WithArgs("01ARZ3NDEKTSV4RRFFQ69G5FAV", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPGUserStore(db)
	if err := store.RecordLogin(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV", at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
