package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gradlink/profmatch/internal/db"
	"github.com/gradlink/profmatch/internal/domain"
)

type mockStore struct {
	jsonSetFn    func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn    func(ctx context.Context, key string, paths ...string) ([]byte, error)
	delFn        func(ctx context.Context, key string) error
	searchListFn func(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) SearchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, index, query, offset, limit, fields)
	}
	return &db.SearchResult{}, nil
}

func TestCreate_DefaultsTimestampAndUnread(t *testing.T) {
	var written []byte
	s := &mockStore{
		jsonSetFn: func(_ context.Context, _, _ string, data []byte) error {
			written = data
			return nil
		},
	}
	repo := New(s)

	n := domain.Notification{
		ID: "n-1", UserID: "u-1",
		Type:  domain.NotificationRegistrationRequest,
		Title: "New registration request",
	}
	if err := repo.Create(context.Background(), &n); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	var dto notificationDTO
	if err := json.Unmarshal(written, &dto); err != nil {
		t.Fatalf("unmarshal written dto: %v", err)
	}
	if dto.Read != "false" {
		t.Errorf("expected read=false tag, got %q", dto.Read)
	}
}

func TestListByUser_UnreadFilter(t *testing.T) {
	var gotQuery string
	s := &mockStore{
		searchListFn: func(_ context.Context, _, query string, _, _ int, _ []string) (*db.SearchResult, error) {
			gotQuery = query
			return &db.SearchResult{}, nil
		},
	}
	repo := New(s)

	if _, err := repo.ListByUser(context.Background(), "u-1", true); err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if gotQuery != `@user_id:{u\-1} @read:{false}` {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestMarkRead_WrongOwner(t *testing.T) {
	stored, _ := json.Marshal([]notificationDTO{toDTO(&domain.Notification{
		UserID: "u-1", Type: domain.NotificationRegistrationAccepted,
	})})

	s := &mockStore{
		jsonGetFn: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return stored, nil
		},
	}
	repo := New(s)

	err := repo.MarkRead(context.Background(), "n-1", "someone-else")
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestMarkRead_FlipsFlag(t *testing.T) {
	stored, _ := json.Marshal([]notificationDTO{toDTO(&domain.Notification{
		UserID: "u-1", Type: domain.NotificationRegistrationAccepted,
	})})

	var written []byte
	s := &mockStore{
		jsonGetFn: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return stored, nil
		},
		jsonSetFn: func(_ context.Context, _, _ string, data []byte) error {
			written = data
			return nil
		},
	}
	repo := New(s)

	if err := repo.MarkRead(context.Background(), "n-1", "u-1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	var dto notificationDTO
	if err := json.Unmarshal(written, &dto); err != nil {
		t.Fatalf("unmarshal written dto: %v", err)
	}
	if dto.Read != "true" {
		t.Errorf("expected read=true, got %q", dto.Read)
	}
}

func TestMarkRead_NotFound(t *testing.T) {
	repo := New(&mockStore{})
	err := repo.MarkRead(context.Background(), "missing", "u-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
