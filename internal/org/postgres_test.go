package org

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreFindAllStatusFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "slug", "status", "created_at", "updated_at"}).
		AddRow("01BX5ZZKBKACTAV9WEVGEMMVS0", "Beta", "beta", StatusActive, now, now).
		AddRow("01ARZ3NDEKTSV4RRFFQ69G5FAV", "Acme", "acme", StatusActive, now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("select (.+) from organisations where status=\\$1 order by created_at desc").
		WithArgs(StatusActive).
		WillReturnRows(rows)

	store := NewPGStore(db)
	got, err := store.FindAll(context.Background(), Filter{Status: StatusActive})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "beta" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPGStoreFindOneBySlugExcludingSelf(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select (.+) from organisations where slug=\\$1 and id<>\\$2").
		WithArgs("acme", "01ARZ3NDEKTSV4RRFFQ69G5FAV").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "status", "created_at", "updated_at"}))

	store := NewPGStore(db)
	_, err = store.FindOne(context.Background(), Filter{Slug: "acme", ExcludeID: "01ARZ3NDEKTSV4RRFFQ69G5FAV"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPGStoreDeleteReportsMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("delete from organisations where id=\\$1").
		WithArgs("01ARZ3NDEKTSV4RRFFQ69G5FAV").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPGStore(db)
	deleted, err := store.Delete(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Fatal("reported a delete for a missing record")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
