package org

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"saasbase.org/internal/ids"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Service enforces the organisation invariants: normalised names and slugs,
// global slug uniqueness, and the invalid-id / not-found distinction.
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the organisation service.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("org: store is required")
	}
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// List returns organisations, optionally filtered by status, newest first.
func (s *Service) List(ctx context.Context, status string) ([]View, error) {
	status = strings.TrimSpace(status)
	if status != "" && !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	records, err := s.store.FindAll(ctx, Filter{Status: status})
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(records))
	for i := range records {
		views = append(views, viewOf(&records[i]))
	}
	return views, nil
}

// GetByID returns one organisation. A malformed id fails with ErrInvalidID;
// a well-formed id with no record fails with ErrNotFound.
func (s *Service) GetByID(ctx context.Context, rawID string) (View, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return View{}, err
	}
	record, err := s.store.FindOne(ctx, Filter{ID: id})
	if err != nil {
		return View{}, err
	}
	return viewOf(record), nil
}

// Create normalises the input, checks slug uniqueness and stores the record.
// Creation and update timestamps are stamped identically.
func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return View{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	slug, err := normaliseSlug(in.Slug)
	if err != nil {
		return View{}, err
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = StatusActive
	} else if !ValidStatus(status) {
		return View{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	if err := s.checkSlugFree(ctx, slug, ""); err != nil {
		return View{}, err
	}

	now := s.now().UTC()
	record := &Organisation{
		ID:        ids.New(),
		Name:      name,
		Slug:      slug,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, record); err != nil {
		return View{}, err
	}
	return viewOf(record), nil
}

// Update applies a partial update. Supplied fields are normalised exactly as
// in Create; a changed slug re-checks uniqueness excluding the record itself,
// so resubmitting the current slug never conflicts. A record vanishing
// between load and update surfaces as ErrNotFound.
func (s *Service) Update(ctx context.Context, rawID string, in UpdateInput) (View, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return View{}, err
	}
	current, err := s.store.FindOne(ctx, Filter{ID: id})
	if err != nil {
		return View{}, err
	}

	patch := Patch{UpdatedAt: s.now().UTC()}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return View{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		patch.Name = &name
	}
	if in.Status != nil {
		status := strings.TrimSpace(*in.Status)
		if !ValidStatus(status) {
			return View{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
		patch.Status = &status
	}
	if in.Slug != nil {
		slug, err := normaliseSlug(*in.Slug)
		if err != nil {
			return View{}, err
		}
		if slug != current.Slug {
			if err := s.checkSlugFree(ctx, slug, id); err != nil {
				return View{}, err
			}
		}
		patch.Slug = &slug
	}

	updated, err := s.store.FindAndUpdate(ctx, id, patch)
	if err != nil {
		return View{}, err
	}
	return viewOf(updated), nil
}

// Delete removes the organisation. No soft-delete, no cascade.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) parseID(raw string) (string, error) {
	id, err := ids.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return id, nil
}

func (s *Service) checkSlugFree(ctx context.Context, slug, excludeID string) error {
	_, err := s.store.FindOne(ctx, Filter{Slug: slug, ExcludeID: excludeID})
	if err == nil {
		return fmt.Errorf("%w: %q", ErrSlugTaken, slug)
	}
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func normaliseSlug(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if slug == "" {
		return "", fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}
	if !slugPattern.MatchString(slug) {
		return "", fmt.Errorf("%w: slug %q must be lowercase kebab-case", ErrInvalidInput, slug)
	}
	return slug, nil
}
