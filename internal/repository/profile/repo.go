package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gradlink/profmatch/internal/db"
	"github.com/gradlink/profmatch/internal/domain"
)

const maxProfiles = 1000

// store is the consumer interface for profiles (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
}

// Repo stores professor profiles as JSON documents with an FT index over
// user_id and is_complete tags.
type Repo struct {
	store store
}

// New creates a profile repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// IndexDefinition returns the FT index this repository queries.
// Created once at startup by the composition root.
func IndexDefinition() *db.IndexDefinition {
	return db.NewIndex(indexName()).
		Prefix(keyPrefix()).
		TagAs("$.user_id", "user_id").
		TagAs("$.is_complete", "is_complete").
		MustBuild()
}

// Save persists a profile, recomputing the derived profile_text and is_complete
// fields so they can never go stale relative to the content fields.
func (r *Repo) Save(ctx context.Context, p *domain.Profile) error {
	if p.ID == "" {
		return fmt.Errorf("profile id is required")
	}

	p.ProfileText = p.RenderText()
	p.IsComplete = p.Complete()
	p.UpdatedAt = time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}

	data, err := json.Marshal(toDTO(p))
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := r.store.JSONSet(ctx, profileKey(p.ID), "$", data); err != nil {
		return fmt.Errorf("json.set profile %s: %w", p.ID, err)
	}
	return nil
}

// GetByID returns a profile by profile id.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	raw, err := r.store.JSONGet(ctx, profileKey(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("json.get profile %s: %w", id, err)
	}
	return parseProfile(id, raw)
}

// GetByUserID returns the profile owned by the given user.
func (r *Repo) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	query := fmt.Sprintf("@user_id:{%s}", db.EscapeTag(userID))
	result, err := r.store.SearchList(ctx, indexName(), query, 0, 1, []string{"$"})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("search profile by user %s: %w", userID, err)
	}
	if result == nil || len(result.Entries) == 0 {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	entry := result.Entries[0]
	return parseProfile(idFromKey(entry.Key), []byte(entry.Fields["$"]))
}

// ListComplete returns every profile with is_complete = true, the corpus input.
func (r *Repo) ListComplete(ctx context.Context) ([]domain.Profile, error) {
	result, err := r.store.SearchList(ctx, indexName(), "@is_complete:{true}", 0, maxProfiles, []string{"$"})
	if err != nil {
		return nil, fmt.Errorf("search complete profiles: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	profiles := make([]domain.Profile, 0, len(result.Entries))
	for _, entry := range result.Entries {
		p, err := parseProfile(idFromKey(entry.Key), []byte(entry.Fields["$"]))
		if err != nil {
			continue // skip malformed documents, keep the corpus usable
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Delete removes a profile.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, profileKey(id)); err != nil {
		return fmt.Errorf("del profile %s: %w", id, err)
	}
	return nil
}

func profileKey(id string) string {
	return keyPrefix() + id
}

func keyPrefix() string {
	return domain.KeyPrefix + "profile:"
}

func indexName() string {
	return domain.KeyPrefix + "profiles:idx"
}

func idFromKey(key string) string {
	prefix := keyPrefix()
	if len(key) > len(prefix) {
		return key[len(prefix):]
	}
	return key
}
