package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CorpusChecker reports whether the matching corpus snapshot is loaded.
type CorpusChecker interface {
	Loaded() bool
}
