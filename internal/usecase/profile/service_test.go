package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/gradlink/profmatch/internal/domain"
)

type mockProfiles struct {
	saveFn      func(ctx context.Context, p *domain.Profile) error
	getFn       func(ctx context.Context, id string) (domain.Profile, error)
	getByUserFn func(ctx context.Context, userID string) (domain.Profile, error)
	deleteFn    func(ctx context.Context, id string) error
}

func (m *mockProfiles) Save(ctx context.Context, p *domain.Profile) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, p)
	}
	return nil
}

func (m *mockProfiles) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Profile{}, domain.ErrProfileNotFound
}

func (m *mockProfiles) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	if m.getByUserFn != nil {
		return m.getByUserFn(ctx, userID)
	}
	return domain.Profile{}, domain.ErrProfileNotFound
}

func (m *mockProfiles) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockUsers struct {
	user domain.User
	err  error
}

func (m *mockUsers) GetByID(_ context.Context, _ string) (domain.User, error) {
	return m.user, m.err
}

func TestUpsert_CreatesNewProfile(t *testing.T) {
	var saved *domain.Profile
	profiles := &mockProfiles{
		saveFn: func(_ context.Context, p *domain.Profile) error {
			saved = p
			return nil
		},
	}
	users := &mockUsers{user: domain.User{ID: "u-1", Role: domain.RoleProfessor}}
	svc := New(profiles, users)

	p, err := svc.Upsert(context.Background(), "u-1", Input{
		Name: "TS. Trần", Title: "Phó Giáo sư", Department: "Khoa CNTT",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if p.ID == "" || p.UserID != "u-1" {
		t.Errorf("unexpected profile: %+v", p)
	}
	if saved == nil || saved.Name != "TS. Trần" {
		t.Errorf("unexpected saved profile: %+v", saved)
	}
}

func TestUpsert_UpdatesExistingProfile(t *testing.T) {
	existing := domain.Profile{ID: "p-1", UserID: "u-1", Name: "Old Name"}
	profiles := &mockProfiles{
		getByUserFn: func(_ context.Context, _ string) (domain.Profile, error) {
			return existing, nil
		},
	}
	users := &mockUsers{user: domain.User{ID: "u-1", Role: domain.RoleProfessor}}
	svc := New(profiles, users)

	p, err := svc.Upsert(context.Background(), "u-1", Input{Name: "New Name"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if p.ID != "p-1" {
		t.Errorf("expected existing id kept, got %q", p.ID)
	}
	if p.Name != "New Name" {
		t.Errorf("expected name updated, got %q", p.Name)
	}
}

func TestUpsert_StudentRejected(t *testing.T) {
	users := &mockUsers{user: domain.User{ID: "u-1", Role: domain.RoleStudent}}
	svc := New(&mockProfiles{}, users)

	_, err := svc.Upsert(context.Background(), "u-1", Input{Name: "x"})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestDeleteMine_NoProfile(t *testing.T) {
	svc := New(&mockProfiles{}, &mockUsers{})

	err := svc.DeleteMine(context.Background(), "u-1")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDeleteMine_DeletesByProfileID(t *testing.T) {
	var deletedID string
	profiles := &mockProfiles{
		getByUserFn: func(_ context.Context, _ string) (domain.Profile, error) {
			return domain.Profile{ID: "p-1", UserID: "u-1"}, nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := New(profiles, &mockUsers{})

	if err := svc.DeleteMine(context.Background(), "u-1"); err != nil {
		t.Fatalf("DeleteMine: %v", err)
	}
	if deletedID != "p-1" {
		t.Errorf("expected delete by profile id, got %q", deletedID)
	}
}
