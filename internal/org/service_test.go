package org

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *Memory) {
	t.Helper()
	store := NewMemory()
	svc, err := NewService(store, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func strPtr(s string) *string { return &s }

func TestCreateNormalisesInput(t *testing.T) {
	svc, _ := newTestService(t)
	view, err := svc.Create(context.Background(), CreateInput{Name: "  Acme Corp  ", Slug: "  Acme-Corp "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Name != "Acme Corp" {
		t.Errorf("name = %q", view.Name)
	}
	if view.Slug != "acme-corp" {
		t.Errorf("slug = %q", view.Slug)
	}
	if view.Status != StatusActive {
		t.Errorf("default status = %q", view.Status)
	}
	if view.CreatedAt != view.UpdatedAt {
		t.Errorf("create and update stamps differ: %q vs %q", view.CreatedAt, view.UpdatedAt)
	}
}

func TestCreateRejectsDuplicateSlugAfterNormalisation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "First", Slug: "Acme"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(ctx, CreateInput{Name: "Second", Slug: "acme"})
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestCreateRejectsBadSlugShape(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, slug := range []string{"", "-acme", "acme-", "ac--me", "ac me", "acme_corp", "ühlala"} {
		if _, err := svc.Create(ctx, CreateInput{Name: "X", Slug: slug}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("slug %q: expected ErrInvalidInput, got %v", slug, err)
		}
	}
}

func TestGetByIDErrorTaxonomy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, "not-a-valid-id-format"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("malformed id: expected ErrInvalidID, got %v", err)
	}
	// Well-formed but unassigned.
	if _, err := svc.GetByID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("absent id: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateKeepsOwnSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Acme", Slug: "acme"})
	if err != nil {
		t.Fatal(err)
	}
	// Resubmitting the slug with different casing normalises to itself and
	// must never conflict.
	view, err := svc.Update(ctx, created.ID, UpdateInput{Slug: strPtr("ACME")})
	if err != nil {
		t.Fatalf("no-op slug change failed: %v", err)
	}
	if view.Slug != "acme" {
		t.Errorf("slug = %q", view.Slug)
	}
}

func TestUpdateSlugConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "A", Slug: "alpha"}); err != nil {
		t.Fatal(err)
	}
	b, err := svc.Create(ctx, CreateInput{Name: "B", Slug: "beta"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(ctx, b.ID, UpdateInput{Slug: strPtr("alpha")}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestUpdatePartialAndTimestamp(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	clock := base
	svc, _ := newTestService(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Acme", Slug: "acme"})
	if err != nil {
		t.Fatal(err)
	}

	clock = base.Add(time.Hour)
	view, err := svc.Update(ctx, created.ID, UpdateInput{Name: strPtr("  Acme Ltd ")})
	if err != nil {
		t.Fatal(err)
	}
	if view.Name != "Acme Ltd" {
		t.Errorf("name = %q", view.Name)
	}
	if view.Slug != "acme" || view.Status != StatusActive {
		t.Errorf("untouched fields changed: slug=%q status=%q", view.Slug, view.Status)
	}
	if view.UpdatedAt != clock.Format(time.RFC3339) {
		t.Errorf("updated_at = %q, want %q", view.UpdatedAt, clock.Format(time.RFC3339))
	}
	if view.CreatedAt != base.Format(time.RFC3339) {
		t.Errorf("created_at = %q, want %q", view.CreatedAt, base.Format(time.RFC3339))
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Update(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV", UpdateInput{Name: strPtr("X")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTwice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Acme", Slug: "acme"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirstWithFilter(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	clock := base
	svc, _ := newTestService(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "Old", Slug: "old"}); err != nil {
		t.Fatal(err)
	}
	clock = base.Add(time.Minute)
	if _, err := svc.Create(ctx, CreateInput{Name: "Mid", Slug: "mid", Status: StatusArchived}); err != nil {
		t.Fatal(err)
	}
	clock = base.Add(2 * time.Minute)
	if _, err := svc.Create(ctx, CreateInput{Name: "New", Slug: "new"}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Slug != "new" || all[2].Slug != "old" {
		t.Fatalf("unexpected order: %+v", all)
	}

	archived, err := svc.List(ctx, StatusArchived)
	if err != nil {
		t.Fatal(err)
	}
	if len(archived) != 1 || archived[0].Slug != "mid" {
		t.Fatalf("unexpected filter result: %+v", archived)
	}

	if _, err := svc.List(ctx, "bogus"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}
