package corpus

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/gradlink/profmatch/internal/domain"
)

type mockProfiles struct {
	listFn func(ctx context.Context) ([]domain.Profile, error)
}

func (m *mockProfiles) ListComplete(ctx context.Context) ([]domain.Profile, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockEmbedder struct {
	batchFn func(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.calls++
	if m.batchFn != nil {
		return m.batchFn(ctx, texts)
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{0.1, 0.2}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings}, nil
}

func newTestService(profiles *mockProfiles, embedder *mockEmbedder) *Service {
	return New(profiles, embedder, nil, nil, zap.NewNop())
}

func TestRefresh_SingleBatchCall(t *testing.T) {
	profiles := &mockProfiles{
		listFn: func(_ context.Context) ([]domain.Profile, error) {
			return []domain.Profile{
				{ID: "p-1", Name: "A", ProfileText: "text a", IsComplete: true},
				{ID: "p-2", Name: "B", ProfileText: "text b", IsComplete: true},
				{ID: "p-3", Name: "C", ProfileText: "text c", IsComplete: true},
			}, nil
		},
	}
	embedder := &mockEmbedder{}
	svc := newTestService(profiles, embedder)

	if svc.Loaded() {
		t.Fatal("expected corpus not loaded before first refresh")
	}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if embedder.calls != 1 {
		t.Errorf("expected 1 batch embed call, got %d", embedder.calls)
	}
	snap := svc.Snapshot()
	if snap == nil || len(snap.Entries) != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Seeded {
		t.Error("expected seeded=false with real profiles")
	}
	if snap.Entries[0].Profile.ID != "p-1" || len(snap.Entries[0].Embedding) != 2 {
		t.Errorf("unexpected first entry: %+v", snap.Entries[0])
	}
}

func TestRefresh_SeedFallback(t *testing.T) {
	profiles := &mockProfiles{} // no complete profiles
	embedder := &mockEmbedder{}
	svc := newTestService(profiles, embedder)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	snap := svc.Snapshot()
	if snap == nil || !snap.Seeded {
		t.Fatal("expected seeded snapshot when no complete profiles exist")
	}
	if len(snap.Entries) != len(SeedProfiles()) {
		t.Errorf("expected %d seed entries, got %d", len(SeedProfiles()), len(snap.Entries))
	}
}

func TestRefresh_FailureKeepsOldSnapshot(t *testing.T) {
	profiles := &mockProfiles{
		listFn: func(_ context.Context) ([]domain.Profile, error) {
			return []domain.Profile{{ID: "p-1", ProfileText: "t", IsComplete: true}}, nil
		},
	}
	embedder := &mockEmbedder{}
	svc := newTestService(profiles, embedder)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	old := svc.Snapshot()

	embedder.batchFn = func(_ context.Context, _ []string) (domain.BatchEmbeddingResult, error) {
		return domain.BatchEmbeddingResult{}, errors.New("provider down")
	}
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected error from failed refresh")
	}

	if svc.Snapshot() != old {
		t.Error("expected old snapshot to stay live after failed refresh")
	}
}

func TestRefresh_VectorCountMismatch(t *testing.T) {
	profiles := &mockProfiles{
		listFn: func(_ context.Context) ([]domain.Profile, error) {
			return []domain.Profile{
				{ID: "p-1", ProfileText: "a", IsComplete: true},
				{ID: "p-2", ProfileText: "b", IsComplete: true},
			}, nil
		},
	}
	embedder := &mockEmbedder{
		batchFn: func(_ context.Context, _ []string) (domain.BatchEmbeddingResult, error) {
			return domain.BatchEmbeddingResult{Embeddings: [][]float32{{0.1}}}, nil
		},
	}
	svc := newTestService(profiles, embedder)

	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected error on vector count mismatch")
	}
	if svc.Loaded() {
		t.Error("expected no snapshot after failed refresh")
	}
}

func TestEnsureLoaded_Idempotent(t *testing.T) {
	profiles := &mockProfiles{
		listFn: func(_ context.Context) ([]domain.Profile, error) {
			return []domain.Profile{{ID: "p-1", ProfileText: "t", IsComplete: true}}, nil
		},
	}
	embedder := &mockEmbedder{}
	svc := newTestService(profiles, embedder)

	for i := 0; i < 3; i++ {
		if err := svc.EnsureLoaded(context.Background()); err != nil {
			t.Fatalf("EnsureLoaded: %v", err)
		}
	}
	if embedder.calls != 1 {
		t.Errorf("expected 1 embed call across repeated EnsureLoaded, got %d", embedder.calls)
	}
}

func TestSeedProfiles_AllComplete(t *testing.T) {
	for _, p := range SeedProfiles() {
		if !p.Complete() {
			t.Errorf("seed profile %s is not complete", p.ID)
		}
		if p.ProfileText == "" {
			t.Errorf("seed profile %s has empty profile text", p.ID)
		}
	}
}
