package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/gradlink/profmatch/internal/domain"
)

// reportPreviewLimit caps how much of the report goes into the prompt.
const reportPreviewLimit = 2000

const rationaleSystemPrompt = "Bạn là một trợ lý AI chuyên phân tích và đánh giá sự phù hợp " +
	"giữa bài báo cáo và profile giảng viên. Hãy đưa ra phân tích ngắn gọn, rõ ràng bằng tiếng Việt."

// RationaleGenerator explains matches via the chat completions API.
type RationaleGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// RationaleConfig holds the chat model settings.
type RationaleConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewRationaleGenerator creates a chat-based rationale generator.
func NewRationaleGenerator(cfg *RationaleConfig) *RationaleGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &RationaleGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}
}

// Generate produces a short explanation of why the professor fits the report.
func (g *RationaleGenerator) Generate(
	ctx context.Context, reportText string, profile domain.Profile, score float64,
) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rationaleSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildRationalePrompt(reportText, profile, score)},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion response: %w", domain.ErrEmbeddingProviderError)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildRationalePrompt(reportText string, p domain.Profile, score float64) string {
	profInfo := fmt.Sprintf(`Tên: %s
Chức danh: %s
Khoa: %s
Chuyên môn: %s
Lĩnh vực nghiên cứu: %s
Tiểu sử: %s
Học vấn: %s
Công trình nghiên cứu: %s`,
		orNA(p.Name),
		orNA(p.Title),
		orNA(p.Department),
		orNA(strings.Join(p.ExpertiseAreas, ", ")),
		orNA(strings.Join(p.ResearchInterests, ", ")),
		orNA(p.Bio),
		orNA(p.Education),
		orNA(p.Publications),
	)

	preview := reportText
	if runes := []rune(preview); len(runes) > reportPreviewLimit {
		preview = string(runes[:reportPreviewLimit]) + "..."
	}

	return fmt.Sprintf(`Bạn là một trợ lý AI chuyên phân tích và đánh giá sự phù hợp giữa bài báo cáo của học sinh và profile của giảng viên.

Hãy phân tích tại sao giảng viên này phù hợp với bài báo cáo của học sinh. Phân tích cần:
1. Ngắn gọn, rõ ràng (khoảng 3-5 câu)
2. Chỉ ra các điểm tương đồng cụ thể giữa nội dung báo cáo và chuyên môn của giảng viên
3. Giải thích tại sao giảng viên này có thể hỗ trợ tốt cho học sinh
4. Viết bằng tiếng Việt, thân thiện và dễ hiểu

Thông tin giảng viên:
%s

Nội dung bài báo cáo (trích đoạn):
%s

Điểm khớp: %.2f%%

Hãy đưa ra phân tích ngắn gọn:`, profInfo, preview, score*100)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
