package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/gradlink/profmatch/internal/domain"
	"github.com/gradlink/profmatch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

type embeddingItem struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// embeddingResponse mirrors the OpenAI-compatible API embedding response.
type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingItem `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func embeddingServer(t *testing.T, items []embeddingItem, tokens int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		resp := embeddingResponse{Object: "list", Model: "test-model", Data: items}
		resp.Usage.PromptTokens = tokens
		resp.Usage.TotalTokens = tokens

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func testEmbedder(baseURL string) *Embedder {
	return NewEmbedder(&EmbedderConfig{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestEmbedder_Embed(t *testing.T) {
	expectedVec := []float32{0.1, 0.2, 0.3, 0.4}
	server := embeddingServer(t, []embeddingItem{
		{Object: "embedding", Embedding: expectedVec, Index: 0},
	}, 10)
	defer server.Close()

	result, err := testEmbedder(server.URL).Embed(context.Background(), "báo cáo về học máy")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(result.Embedding) != len(expectedVec) {
		t.Fatalf("expected %d dimensions, got %d", len(expectedVec), len(result.Embedding))
	}
	for i, v := range result.Embedding {
		if v != expectedVec[i] {
			t.Errorf("vec[%d] = %f, expected %f", i, v, expectedVec[i])
		}
	}
	if result.PromptTokens != 10 || result.TotalTokens != 10 {
		t.Errorf("unexpected usage: %+v", result)
	}
}

func TestEmbedder_BatchEmbed_RestoresOrder(t *testing.T) {
	// Vectors come back out of order; BatchEmbed must restore input order by Index.
	server := embeddingServer(t, []embeddingItem{
		{Object: "embedding", Embedding: []float32{0.3, 0.4}, Index: 1},
		{Object: "embedding", Embedding: []float32{0.1, 0.2}, Index: 0},
	}, 20)
	defer server.Close()

	result, err := testEmbedder(server.URL).BatchEmbed(context.Background(), []string{"hello", "world"})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}

	if len(result.Embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(result.Embeddings))
	}
	if result.Embeddings[0][0] != 0.1 {
		t.Errorf("expected first vec[0]=0.1, got %f", result.Embeddings[0][0])
	}
	if result.Embeddings[1][0] != 0.3 {
		t.Errorf("expected second vec[0]=0.3, got %f", result.Embeddings[1][0])
	}
	if result.TotalTokens != 20 {
		t.Errorf("expected TotalTokens=20, got %d", result.TotalTokens)
	}
}

func TestEmbedder_BatchEmbed_Empty(t *testing.T) {
	emb := testEmbedder("http://unused")

	result, err := emb.BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embeddings != nil {
		t.Errorf("expected nil embeddings for empty input, got %v", result.Embeddings)
	}
}

func TestEmbedder_BatchEmbed_CountMismatch(t *testing.T) {
	server := embeddingServer(t, []embeddingItem{
		{Object: "embedding", Embedding: []float32{0.1}, Index: 0},
	}, 5)
	defer server.Close()

	_, err := testEmbedder(server.URL).BatchEmbed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError for count mismatch, got %v", err)
	}
}

func TestEmbedder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	_, err := testEmbedder(server.URL).Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError for 429 response, got %v", err)
	}
}
