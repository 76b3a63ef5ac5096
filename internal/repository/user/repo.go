package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gradlink/profmatch/internal/db"
	"github.com/gradlink/profmatch/internal/domain"
)

// store is the consumer interface for the user read-model (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Repo reads user accounts maintained by the account service. Only identity,
// display name and role are needed here, so this repo never writes anything
// beyond what tests and seeding require.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type userDTO struct {
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// GetByID returns a user by id.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.User, error) {
	raw, err := r.store.JSONGet(ctx, userKey(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("json.get user %s: %w", id, err)
	}

	var dtos []userDTO
	if err := json.Unmarshal(raw, &dtos); err != nil || len(dtos) == 0 {
		return domain.User{}, fmt.Errorf("unmarshal user %s: %w", id, err)
	}
	dto := dtos[0]
	return domain.User{
		ID:        id,
		Name:      dto.Name,
		Email:     dto.Email,
		Role:      domain.Role(dto.Role),
		CreatedAt: dto.CreatedAt,
	}, nil
}

// Save persists a user. Used by seeding and tests.
func (r *Repo) Save(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(userDTO{
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := r.store.JSONSet(ctx, userKey(u.ID), "$", data); err != nil {
		return fmt.Errorf("json.set user %s: %w", u.ID, err)
	}
	return nil
}

func userKey(id string) string {
	return domain.KeyPrefix + "user:" + id
}
