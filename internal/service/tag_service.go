// internal/service/tag_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/taskforge/taskforge/internal/store"
)

// TagService manages per-user named labels. Tags are owned exclusively by
// one user and only ever resolved within that user's scope.
type TagService struct {
	store *store.Store
}

// NewTagService creates a new tag service
func NewTagService(st *store.Store) *TagService {
	return &TagService{store: st}
}

// Create resolves or creates a tag for the actor. Idempotent: repeated calls
// with the same actor and name return the same tag.
func (s *TagService) Create(ctx context.Context, actor uuid.UUID, name string) (*store.Tag, error) {
	if err := validateTagName(name); err != nil {
		return nil, err
	}

	var tag *store.Tag
	err := s.store.Transact(ctx, func(st *store.Store) error {
		var err error
		tag, err = resolveOrCreateTag(ctx, st, actor, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// List returns the actor's tags.
func (s *TagService) List(ctx context.Context, actor uuid.UUID) ([]store.Tag, error) {
	return s.store.ListTagsByOwner(ctx, actor)
}

// Get returns one of the actor's tags. Another user's tag is reported as
// not found, never as forbidden.
func (s *TagService) Get(ctx context.Context, actor, id uuid.UUID) (*store.Tag, error) {
	tag, err := s.store.TagByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("tag", id)
		}
		return nil, err
	}
	if tag.OwnerID != actor {
		return nil, notFound("tag", id)
	}
	return tag, nil
}

// Rename changes a tag's name.
func (s *TagService) Rename(ctx context.Context, actor, id uuid.UUID, name string) (*store.Tag, error) {
	if err := validateTagName(name); err != nil {
		return nil, err
	}

	tag, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	tag.Name = name
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes a tag and its associations.
func (s *TagService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.store.DeleteTag(ctx, id)
}

// resolveOrCreateTag is the get-or-create primitive scoped to (owner, name).
func resolveOrCreateTag(ctx context.Context, st *store.Store, owner uuid.UUID, name string) (*store.Tag, error) {
	tag, err := st.TagByOwnerAndName(ctx, owner, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	tag = &store.Tag{
		ID:      uuid.New(),
		Name:    name,
		OwnerID: owner,
	}
	if err := st.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// resolveOrCreateTags resolves a submitted tag-name list into tag IDs,
// creating missing tags in the actor's scope. Duplicates collapse.
func resolveOrCreateTags(ctx context.Context, st *store.Store, owner uuid.UUID, names []string) ([]uuid.UUID, error) {
	seen := make(map[string]bool, len(names))
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		if err := validateTagName(name); err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		tag, err := resolveOrCreateTag(ctx, st, owner, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func validateTagName(name string) error {
	if strings.TrimSpace(name) == "" {
		return validationFailed("name", "tag name is required")
	}
	if len(name) > 100 {
		return validationFailed("name", "tag name must not exceed 100 characters")
	}
	return nil
}
