package corpus

import (
	"context"

	"github.com/gradlink/profmatch/internal/domain"
)

// ProfileLister reads the complete professor profiles that form the corpus.
type ProfileLister interface {
	ListComplete(ctx context.Context) ([]domain.Profile, error)
}

// BatchEmbedder vectorizes the corpus texts in a single call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
