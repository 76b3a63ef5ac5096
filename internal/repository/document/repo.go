package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gradlink/profmatch/internal/db"
	"github.com/gradlink/profmatch/internal/domain"
)

// store is the consumer interface for the document read-model (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Repo reads documents maintained by the upload pipeline. Registration checks
// need ownership; listings need the filename.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type documentDTO struct {
	OwnerID   string    `json:"owner_id"`
	Filename  string    `json:"filename"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GetByID returns a document by id.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Document, error) {
	raw, err := r.store.JSONGet(ctx, documentKey(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Document{}, domain.ErrNotFound
		}
		return domain.Document{}, fmt.Errorf("json.get document %s: %w", id, err)
	}

	var dtos []documentDTO
	if err := json.Unmarshal(raw, &dtos); err != nil || len(dtos) == 0 {
		return domain.Document{}, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	dto := dtos[0]
	return domain.Document{
		ID:        id,
		OwnerID:   dto.OwnerID,
		Filename:  dto.Filename,
		Summary:   dto.Summary,
		CreatedAt: dto.CreatedAt,
	}, nil
}

// Save persists a document. Used by seeding and tests.
func (r *Repo) Save(ctx context.Context, d *domain.Document) error {
	if d.ID == "" {
		return fmt.Errorf("document id is required")
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(documentDTO{
		OwnerID:   d.OwnerID,
		Filename:  d.Filename,
		Summary:   d.Summary,
		CreatedAt: d.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := r.store.JSONSet(ctx, documentKey(d.ID), "$", data); err != nil {
		return fmt.Errorf("json.set document %s: %w", d.ID, err)
	}
	return nil
}

func documentKey(id string) string {
	return domain.KeyPrefix + "document:" + id
}
