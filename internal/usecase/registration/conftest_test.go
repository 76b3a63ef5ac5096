package registration

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/gradlink/profmatch/internal/domain"
)

type mockRegs struct {
	createFn        func(ctx context.Context, reg *domain.Registration) error
	getFn           func(ctx context.Context, id string) (domain.Registration, error)
	listByStudentFn func(ctx context.Context, studentID string) ([]domain.Registration, error)
	listByProfFn    func(ctx context.Context, professorID string) ([]domain.Registration, error)
	countAcceptedFn func(ctx context.Context, professorID string) (int, error)
	updateStatusFn  func(ctx context.Context, id string, status domain.Status, notes string) error
	deleteFn        func(ctx context.Context, reg *domain.Registration) error
}

func (m *mockRegs) Create(ctx context.Context, reg *domain.Registration) error {
	if m.createFn != nil {
		return m.createFn(ctx, reg)
	}
	return nil
}

func (m *mockRegs) GetByID(ctx context.Context, id string) (domain.Registration, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Registration{}, domain.ErrRegistrationNotFound
}

func (m *mockRegs) ListByStudent(ctx context.Context, studentID string) ([]domain.Registration, error) {
	if m.listByStudentFn != nil {
		return m.listByStudentFn(ctx, studentID)
	}
	return nil, nil
}

func (m *mockRegs) ListByProfessor(ctx context.Context, professorID string) ([]domain.Registration, error) {
	if m.listByProfFn != nil {
		return m.listByProfFn(ctx, professorID)
	}
	return nil, nil
}

func (m *mockRegs) CountAccepted(ctx context.Context, professorID string) (int, error) {
	if m.countAcceptedFn != nil {
		return m.countAcceptedFn(ctx, professorID)
	}
	return 0, nil
}

func (m *mockRegs) UpdateStatus(ctx context.Context, id string, status domain.Status, notes string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, notes)
	}
	return nil
}

func (m *mockRegs) Delete(ctx context.Context, reg *domain.Registration) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, reg)
	}
	return nil
}

type mockProfiles struct {
	getFn       func(ctx context.Context, id string) (domain.Profile, error)
	getByUserFn func(ctx context.Context, userID string) (domain.Profile, error)
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

type mockUsers struct {
	getFn func(ctx context.Context, id string) (domain.User, error)
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (domain.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.User{}, domain.ErrUserNotFound
}

type mockDocs struct {
	getFn func(ctx context.Context, id string) (domain.Document, error)
}

func (m *mockDocs) GetByID(ctx context.Context, id string) (domain.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Document{}, domain.ErrNotFound
}

type mockNotifier struct {
	createFn func(ctx context.Context, n *domain.Notification) error
	created  []domain.Notification
}

func (m *mockNotifier) Create(ctx context.Context, n *domain.Notification) error {
	if m.createFn != nil {
		return m.createFn(ctx, n)
	}
	m.created = append(m.created, *n)
	return nil
}

type testDeps struct {
	regs     *mockRegs
	profiles *mockProfiles
	users    *mockUsers
	docs     *mockDocs
	notifier *mockNotifier
}

func newTestService(t *testing.T) (*Service, *testDeps) {
	t.Helper()
	deps := &testDeps{
		regs:     &mockRegs{},
		profiles: &mockProfiles{},
		users:    &mockUsers{},
		docs:     &mockDocs{},
		notifier: &mockNotifier{},
	}
	svc := New(deps.regs, deps.profiles, deps.users, deps.docs, deps.notifier, zap.NewNop())
	return svc, deps
}

func studentUser(id string) func(ctx context.Context, uid string) (domain.User, error) {
	return func(_ context.Context, uid string) (domain.User, error) {
		if uid == id {
			return domain.User{ID: id, Name: "Nguyễn Văn Học", Role: domain.RoleStudent}, nil
		}
		return domain.User{}, domain.ErrUserNotFound
	}
}

func professorUser(id string) func(ctx context.Context, uid string) (domain.User, error) {
	return func(_ context.Context, uid string) (domain.User, error) {
		if uid == id {
			return domain.User{ID: id, Name: "TS. Trần Minh", Role: domain.RoleProfessor}, nil
		}
		return domain.User{}, domain.ErrUserNotFound
	}
}
