package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vilain-Petit-Canard/API-Films/internal/cache"
	"github.com/vilain-Petit-Canard/API-Films/internal/models"
	"github.com/vilain-Petit-Canard/API-Films/internal/repository"
)

// ListParams is a resolved list query.
type ListParams struct {
	SortField string
	Direction repository.Direction
	Limit     int
}

// ResourceService implements CRUD over one collection. Reads go through the
// cache; every successful write bumps the collection's cache generation.
type ResourceService struct {
	name     string
	col      repository.Collection
	validate func(models.Document) error
	cache    *cache.Cache
	log      zerolog.Logger
}

// NewResourceService builds the service for collection name. validate may be
// nil; when set it runs before every insert.
func NewResourceService(
	store repository.Store,
	name string,
	validate func(models.Document) error,
	c *cache.Cache,
	log zerolog.Logger,
) *ResourceService {
	return &ResourceService{
		name:     name,
		col:      store.Collection(name),
		validate: validate,
		cache:    c,
		log:      log.With().Str("collection", name).Logger(),
	}
}

func (s *ResourceService) generation(ctx context.Context) (int64, bool) {
	gen, err := s.cache.Generation(ctx, s.name)
	if err != nil {
		s.log.Warn().Err(err).Msg("cache generation unavailable")
		return 0, false
	}
	return gen, true
}

// List returns the bodies of at most |Limit| records ordered by SortField.
func (s *ResourceService) List(ctx context.Context, p ListParams) ([]models.Document, error) {
	gen, cacheable := s.generation(ctx)
	key := fmt.Sprintf("%s:list:%d:%s:%s:%d", s.name, gen, p.SortField, p.Direction, p.Limit)

	if cacheable {
		var cached []models.Document
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	recs, err := s.col.List(ctx, p.SortField, p.Direction, p.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.Document, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Data)
	}

	if cacheable {
		if err := s.cache.SetJSON(ctx, key, out); err != nil {
			s.log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return out, nil
}

// Get returns nil, nil when the record does not exist.
func (s *ResourceService) Get(ctx context.Context, id string) (models.Document, error) {
	gen, cacheable := s.generation(ctx)
	key := fmt.Sprintf("%s:doc:%d:%s", s.name, gen, id)

	if cacheable {
		var cached models.Document
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	doc, err := s.col.Get(ctx, id)
	if err != nil || doc == nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetJSON(ctx, key, doc); err != nil {
			s.log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return doc, nil
}

// Create stores doc verbatim and returns its new id.
func (s *ResourceService) Create(ctx context.Context, doc models.Document) (string, error) {
	if s.validate != nil {
		if err := s.validate(doc); err != nil {
			return "", err
		}
	}

	id, err := s.col.Add(ctx, doc)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx)
	return id, nil
}

// Update merges partial into the record. It returns repository.ErrNotFound
// for an unknown id; callers decide whether that matters.
func (s *ResourceService) Update(ctx context.Context, id string, partial models.Document) error {
	if err := s.col.Update(ctx, id, partial); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ResourceService) Delete(ctx context.Context, id string) error {
	if err := s.col.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ResourceService) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx, s.name); err != nil {
		s.log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

// RequireField returns a validator rejecting documents where field is
// missing, null or a blank string.
func RequireField(field string) func(models.Document) error {
	return func(doc models.Document) error {
		if !doc.HasNonEmpty(field) {
			return &ValidationError{Message: field + " field is required"}
		}
		return nil
	}
}
