package org

import (
	"errors"
	"time"
)

// Organisation statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

var (
	// ErrInvalidID marks an identifier that is not well-formed, as opposed
	// to a well-formed one that resolves to no record.
	ErrInvalidID = errors.New("invalid organisation id")

	ErrNotFound     = errors.New("organisation not found")
	ErrSlugTaken    = errors.New("slug already in use")
	ErrInvalidInput = errors.New("invalid input")
)

// Organisation is a tenant record. The slug is lowercase kebab-case and
// globally unique.
type Organisation struct {
	ID        string
	Name      string
	Slug      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// View is the outward-facing representation: string identity and RFC 3339
// timestamps only.
type View struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateInput carries the fields accepted at creation. Status defaults to
// active when empty.
type CreateInput struct {
	Name   string
	Slug   string
	Status string
}

// UpdateInput carries an optional value per updatable field; nil means
// "leave unchanged".
type UpdateInput struct {
	Name   *string
	Slug   *string
	Status *string
}

// ValidStatus reports whether s is a recognised organisation status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusArchived:
		return true
	}
	return false
}

func viewOf(o *Organisation) View {
	return View{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		Status:    o.Status,
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
