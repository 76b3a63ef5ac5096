package corpus

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gradlink/profmatch/internal/domain"
)

// Entry pairs a professor profile with the embedding of its profile text.
type Entry struct {
	Profile   domain.Profile
	Embedding []float32
}

// Snapshot is an immutable view of the corpus. Readers hold it for the length
// of one match request; a concurrent refresh swaps in a new snapshot without
// touching snapshots already handed out.
type Snapshot struct {
	Entries     []Entry
	Seeded      bool
	RefreshedAt time.Time
}

// Service builds and owns the in-memory corpus of professor profile embeddings.
type Service struct {
	profiles ProfileLister
	embedder BatchEmbedder
	logger   *zap.Logger

	snap atomic.Pointer[Snapshot]
	mu   sync.Mutex // serializes refreshes

	size         prometheus.Gauge
	refreshTotal *prometheus.CounterVec
}

// New creates a corpus service. size and refreshTotal are passed explicitly
// and may be nil in tests.
func New(
	profiles ProfileLister,
	embedder BatchEmbedder,
	size prometheus.Gauge,
	refreshTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	return &Service{
		profiles:     profiles,
		embedder:     embedder,
		size:         size,
		refreshTotal: refreshTotal,
		logger:       logger,
	}
}

// Loaded reports whether a corpus snapshot is available.
func (s *Service) Loaded() bool {
	return s.snap.Load() != nil
}

// Snapshot returns the current corpus snapshot, or nil before the first
// successful refresh.
func (s *Service) Snapshot() *Snapshot {
	return s.snap.Load()
}

// EnsureLoaded refreshes the corpus only if no snapshot exists yet.
func (s *Service) EnsureLoaded(ctx context.Context) error {
	if s.Loaded() {
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh rebuilds the corpus: lists complete profiles (falling back to the
// seed set when none exist), embeds all profile texts in one batch call, and
// atomically swaps the snapshot. On failure the previous snapshot stays live.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.build(ctx)
	if err != nil {
		s.incRefresh("error")
		return err
	}

	s.snap.Store(snap)
	s.incRefresh("success")
	if s.size != nil {
		s.size.Set(float64(len(snap.Entries)))
	}
	s.logger.Info("Corpus refreshed",
		zap.Int("profiles", len(snap.Entries)),
		zap.Bool("seeded", snap.Seeded),
	)
	return nil
}

func (s *Service) build(ctx context.Context) (*Snapshot, error) {
	profiles, err := s.profiles.ListComplete(ctx)
	if err != nil {
		return nil, fmt.Errorf("list complete profiles: %w", err)
	}

	seeded := false
	if len(profiles) == 0 {
		profiles = SeedProfiles()
		seeded = true
		s.logger.Warn("No complete professor profiles found, using seed corpus",
			zap.Int("seed_profiles", len(profiles)))
	}

	texts := make([]string, len(profiles))
	for i := range profiles {
		text := profiles[i].ProfileText
		if text == "" {
			text = profiles[i].RenderText()
		}
		texts[i] = text
	}

	result, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus texts: %w", err)
	}
	if len(result.Embeddings) != len(profiles) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d profiles",
			len(result.Embeddings), len(profiles))
	}

	entries := make([]Entry, len(profiles))
	for i := range profiles {
		entries[i] = Entry{Profile: profiles[i], Embedding: result.Embeddings[i]}
	}

	return &Snapshot{
		Entries:     entries,
		Seeded:      seeded,
		RefreshedAt: time.Now().UTC(),
	}, nil
}

func (s *Service) incRefresh(status string) {
	if s.refreshTotal != nil {
		s.refreshTotal.WithLabelValues(status).Inc()
	}
}
