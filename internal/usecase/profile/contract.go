package profile

import (
	"context"

	"github.com/gradlink/profmatch/internal/domain"
)

// Profiles is the storage contract for professor profiles.
type Profiles interface {
	Save(ctx context.Context, p *domain.Profile) error
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (domain.Profile, error)
	Delete(ctx context.Context, id string) error
}

// Users reads user accounts for role checks.
type Users interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}
