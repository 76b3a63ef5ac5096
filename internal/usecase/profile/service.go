package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gradlink/profmatch/internal/domain"
)

// Input carries the editable profile fields.
type Input struct {
	Name              string
	Title             string
	Department        string
	Bio               string
	ResearchInterests []string
	ExpertiseAreas    []string
	Education         string
	Publications      string
	ContactEmail      string
}

// Service manages professor profiles: one profile per professor user, derived
// fields recomputed on every save.
type Service struct {
	profiles Profiles
	users    Users
}

// New creates a profile service.
func New(profiles Profiles, users Users) *Service {
	return &Service{profiles: profiles, users: users}
}

// GetMine returns the actor's own profile.
func (s *Service) GetMine(ctx context.Context, userID string) (domain.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// GetByID returns a profile by profile id.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// Upsert creates or updates the actor's profile. Only professors may hold a
// profile. The repository recomputes profile_text and is_complete on save.
func (s *Service) Upsert(ctx context.Context, userID string, in Input) (domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get user: %w", err)
	}
	if user.Role != domain.RoleProfessor {
		return domain.Profile{}, fmt.Errorf("%w: only professors can maintain a profile", domain.ErrInvalidRole)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			return domain.Profile{}, fmt.Errorf("get profile: %w", err)
		}
		p = domain.Profile{ID: uuid.NewString(), UserID: userID}
	}

	p.Name = in.Name
	p.Title = in.Title
	p.Department = in.Department
	p.Bio = in.Bio
	p.ResearchInterests = in.ResearchInterests
	p.ExpertiseAreas = in.ExpertiseAreas
	p.Education = in.Education
	p.Publications = in.Publications
	p.ContactEmail = in.ContactEmail

	if err := s.profiles.Save(ctx, &p); err != nil {
		return domain.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}

// DeleteMine removes the actor's profile.
func (s *Service) DeleteMine(ctx context.Context, userID string) error {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.profiles.Delete(ctx, p.ID)
}
