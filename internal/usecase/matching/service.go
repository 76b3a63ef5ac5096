package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gradlink/profmatch/internal/domain"
)

// Options bound matching behavior; zero values fall back to sane defaults.
type Options struct {
	MinTextLen  int // report texts shorter than this (in runes) yield an empty result
	DefaultTopK int
	MaxTopK     int // top_k above this is rejected as invalid
}

func (o *Options) applyDefaults() {
	if o.MinTextLen <= 0 {
		o.MinTextLen = 10
	}
	if o.DefaultTopK <= 0 {
		o.DefaultTopK = 5
	}
	if o.MaxTopK <= 0 {
		o.MaxTopK = 20
	}
}

// Service ranks professor profiles against a student report text.
type Service struct {
	corpus    Corpus
	embedder  Embedder
	rationale RationaleGenerator
	opts      Options
	logger    *zap.Logger

	requestsTotal  *prometheus.CounterVec
	duration       prometheus.Histogram
	rationaleTotal *prometheus.CounterVec
}

// New creates a matching service. Metric collectors may be nil in tests.
func New(
	c Corpus,
	embedder Embedder,
	rationale RationaleGenerator,
	opts Options,
	requestsTotal *prometheus.CounterVec,
	duration prometheus.Histogram,
	rationaleTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	opts.applyDefaults()
	return &Service{
		corpus:         c,
		embedder:       embedder,
		rationale:      rationale,
		opts:           opts,
		logger:         logger,
		requestsTotal:  requestsTotal,
		duration:       duration,
		rationaleTotal: rationaleTotal,
	}
}

// DefaultTopK is the result count used when the caller does not specify one.
func (s *Service) DefaultTopK() int {
	return s.opts.DefaultTopK
}

// FindMatches ranks every profile in the corpus by cosine similarity to the
// report text and returns the topK best, optionally with a generated rationale
// per match. topK must be in [1, MaxTopK]; asking for more than the corpus
// holds returns everything. A report shorter than the minimum length, an empty
// corpus, and a corpus that failed to load all yield an empty result without
// consuming embedding tokens.
func (s *Service) FindMatches(
	ctx context.Context, text string, topK int, includeRationale bool,
) ([]domain.Match, error) {
	start := time.Now()
	matches, err := s.findMatches(ctx, text, topK, includeRationale)
	if s.duration != nil {
		s.duration.Observe(time.Since(start).Seconds())
	}

	switch {
	case err != nil:
		s.incRequests("error")
	case len(matches) == 0:
		s.incRequests("empty")
	default:
		s.incRequests("success")
	}
	return matches, err
}

func (s *Service) findMatches(
	ctx context.Context, text string, topK int, includeRationale bool,
) ([]domain.Match, error) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < s.opts.MinTextLen {
		return []domain.Match{}, nil
	}

	if topK <= 0 || topK > s.opts.MaxTopK {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", domain.ErrInvalidTopK, topK, s.opts.MaxTopK)
	}

	// A corpus that cannot be loaded behaves as empty: readers get no
	// matches, not an error.
	if err := s.corpus.EnsureLoaded(ctx); err != nil {
		s.logger.Warn("Corpus load failed, serving empty result", zap.Error(err))
	}

	snap := s.corpus.Snapshot()
	if snap == nil || len(snap.Entries) == 0 {
		return []domain.Match{}, nil
	}

	embResult, err := s.embedder.Embed(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("vectorize report: %w", err)
	}

	matches := make([]domain.Match, len(snap.Entries))
	for i, entry := range snap.Entries {
		score := cosineSimilarity(embResult.Embedding, entry.Embedding)
		matches[i] = domain.Match{
			Profile:    entry.Profile,
			Score:      score,
			Percentage: domain.MatchPercentage(score),
		}
	}

	// Stable: ties keep corpus order, so results are deterministic.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK > len(matches) {
		topK = len(matches)
	}
	matches = matches[:topK]

	if includeRationale {
		s.attachRationales(ctx, trimmed, matches)
	}
	return matches, nil
}

// attachRationales fills in per-match rationales sequentially. A failed
// generation degrades the single match, never the request.
func (s *Service) attachRationales(ctx context.Context, text string, matches []domain.Match) {
	for i := range matches {
		rationale, err := s.rationale.Generate(ctx, text, matches[i].Profile, matches[i].Score)
		if err != nil {
			s.incRationale("error")
			s.logger.Warn("Rationale generation failed",
				zap.String("profile_id", matches[i].Profile.ID),
				zap.Error(err),
			)
			continue
		}
		s.incRationale("success")
		matches[i].Rationale = rationale
		matches[i].RationaleOK = true
	}
}

func (s *Service) incRequests(status string) {
	if s.requestsTotal != nil {
		s.requestsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Service) incRationale(status string) {
	if s.rationaleTotal != nil {
		s.rationaleTotal.WithLabelValues(status).Inc()
	}
}
