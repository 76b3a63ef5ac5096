package registration

import (
	"context"

	"github.com/gradlink/profmatch/internal/domain"
)

// Registrations is the storage contract for registrations.
type Registrations interface {
	Create(ctx context.Context, reg *domain.Registration) error
	GetByID(ctx context.Context, id string) (domain.Registration, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Registration, error)
	ListByProfessor(ctx context.Context, professorID string) ([]domain.Registration, error)
	CountAccepted(ctx context.Context, professorID string) (int, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, notes string) error
	Delete(ctx context.Context, reg *domain.Registration) error
}

// Profiles resolves professor profiles for access checks and enrichment.
type Profiles interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (domain.Profile, error)
}

// Users reads user accounts for role checks and notification text.
type Users interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// Documents reads the document read-model for ownership checks and enrichment.
type Documents interface {
	GetByID(ctx context.Context, id string) (domain.Document, error)
}

// Notifier delivers registration notifications.
type Notifier interface {
	Create(ctx context.Context, n *domain.Notification) error
}
