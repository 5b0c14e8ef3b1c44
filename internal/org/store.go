package org

import (
	"context"
	"time"
)

// Filter narrows store lookups. Zero fields are ignored; ExcludeID only
// applies together with Slug.
type Filter struct {
	ID        string
	Slug      string
	Status    string
	ExcludeID string
}

// Patch is a partial document update. Nil fields are left unchanged;
// UpdatedAt is always written.
type Patch struct {
	Name      *string
	Slug      *string
	Status    *string
	UpdatedAt time.Time
}

// Store is thin CRUD over the organisation collection. Each call is a single
// atomic storage operation; compound flows such as "check slug then insert"
// are deliberately not transactional (the backends' unique slug constraint is
// the real guarantee).
type Store interface {
	// FindAll returns matches ordered newest-created-first.
	FindAll(ctx context.Context, f Filter) ([]Organisation, error)

	// FindOne returns the first match or ErrNotFound.
	FindOne(ctx context.Context, f Filter) (*Organisation, error)

	// Insert stores a new record. A duplicate slug surfaces as ErrSlugTaken.
	Insert(ctx context.Context, o *Organisation) error

	// FindAndUpdate atomically applies the patch and returns the post-update
	// document, or ErrNotFound when the record no longer exists.
	FindAndUpdate(ctx context.Context, id string, p Patch) (*Organisation, error)

	// Delete removes the record, reporting whether anything was deleted.
	Delete(ctx context.Context, id string) (bool, error)
}
