package matching

import (
	"context"

	"github.com/gradlink/profmatch/internal/domain"
	"github.com/gradlink/profmatch/internal/usecase/corpus"
)

// Corpus provides the professor embedding snapshot.
type Corpus interface {
	EnsureLoaded(ctx context.Context) error
	Snapshot() *corpus.Snapshot
}

// Embedder vectorizes the report text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// RationaleGenerator explains a single match in natural language.
type RationaleGenerator interface {
	Generate(ctx context.Context, reportText string, profile domain.Profile, score float64) (string, error)
}
