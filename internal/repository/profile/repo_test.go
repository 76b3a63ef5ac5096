package profile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gradlink/profmatch/internal/db"
	"github.com/gradlink/profmatch/internal/domain"
)

// mockStore implements the consumer interface for tests.
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

func TestSave_RecomputesDerivedFields(t *testing.T) {
	var written []byte
	s := &mockStore{
		jsonSetFn: func(_ context.Context, key, path string, data []byte) error {
			if !strings.HasPrefix(key, domain.KeyPrefix+"profile:") {
				t.Errorf("unexpected key %q", key)
			}
			written = data
			return nil
		},
	}
	repo := New(s)

	p := domain.Profile{
		ID: "p-1", UserID: "u-1",
		Name: "Dr. Tran", Title: "Professor", Department: "CS",
		ResearchInterests: []string{"AI"},
		ProfileText:       "stale text",
		IsComplete:        false,
	}
	if err := repo.Save(context.Background(), &p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var dto profileDTO
	if err := json.Unmarshal(written, &dto); err != nil {
		t.Fatalf("unmarshal written dto: %v", err)
	}
	if dto.IsComplete != "true" {
		t.Errorf("expected is_complete recomputed to true, got %q", dto.IsComplete)
	}
	if dto.ProfileText == "stale text" || !strings.Contains(dto.ProfileText, "Research interests: AI") {
		t.Errorf("profile_text not regenerated: %q", dto.ProfileText)
	}
}

func TestSave_MissingID(t *testing.T) {
	repo := New(&mockStore{})
	p := domain.Profile{Name: "x"}
	if err := repo.Save(context.Background(), &p); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := New(&mockStore{})
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGetByID_RoundTrip(t *testing.T) {
	dto := toDTO(&domain.Profile{
		UserID: "u-1", Name: "Dr. Tran", Title: "Professor", Department: "CS",
		ResearchInterests: []string{"AI", "NLP"},
		IsComplete:        true,
	})
	data, _ := json.Marshal([]profileDTO{dto})

	s := &mockStore{
		jsonGetFn: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return data, nil
		},
	}
	repo := New(s)

	p, err := repo.GetByID(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.ID != "p-1" || p.UserID != "u-1" || !p.IsComplete {
		t.Errorf("unexpected profile: %+v", p)
	}
	if len(p.ResearchInterests) != 2 {
		t.Errorf("expected 2 interests, got %v", p.ResearchInterests)
	}
}

func TestGetByUserID_EscapesTag(t *testing.T) {
	var gotQuery string
	s := &mockStore{
		searchListFn: func(_ context.Context, _, query string, _, _ int, _ []string) (*db.SearchResult, error) {
			gotQuery = query
			return &db.SearchResult{}, nil
		},
	}
	repo := New(s)

	_, err := repo.GetByUserID(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound for empty result, got %v", err)
	}
	if gotQuery != `@user_id:{user\-1}` {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestListComplete_SkipsMalformed(t *testing.T) {
	good, _ := json.Marshal([]profileDTO{toDTO(&domain.Profile{
		UserID: "u-1", Name: "A", Title: "Prof", Department: "CS", Bio: "b", IsComplete: true,
	})})

	s := &mockStore{
		searchListFn: func(_ context.Context, _, query string, _, _ int, _ []string) (*db.SearchResult, error) {
			if query != "@is_complete:{true}" {
				t.Errorf("unexpected query %q", query)
			}
			return &db.SearchResult{
				Total: 2,
				Entries: []db.SearchEntry{
					{Key: keyPrefix() + "p-1", Fields: map[string]string{"$": string(good)}},
					{Key: keyPrefix() + "p-2", Fields: map[string]string{"$": "{not json"}},
				},
			}, nil
		},
	}
	repo := New(s)

	profiles, err := repo.ListComplete(context.Background())
	if err != nil {
		t.Fatalf("ListComplete: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	if profiles[0].ID != "p-1" {
		t.Errorf("expected p-1, got %s", profiles[0].ID)
	}
}
