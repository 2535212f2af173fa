package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/assistant"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash-latest"

type generateFunc func(ctx context.Context, model string, req assistant.CompletionRequest) (*genai.GenerateContentResponse, error)

// GeminiProvider creates a client per request so the key is read at call time.
type GeminiProvider struct {
	model    string
	generate generateFunc
	logger   *Logger.Logger
}

// New creates a new GeminiProvider instance.
func New(keys assistant.KeySource, model string, logger *Logger.Logger) *GeminiProvider {
	gen := func(ctx context.Context, model string, req assistant.CompletionRequest) (*genai.GenerateContentResponse, error) {
		key := ""
		if keys != nil {
			key = keys()
		}
		if key == "" {
			return nil, fmt.Errorf("gemini API key is not configured")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(key))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
		}
		defer client.Close()

		m := client.GenerativeModel(model)
		if req.MaxTokens > 0 {
			m.SetMaxOutputTokens(int32(req.MaxTokens))
		}
		return m.GenerateContent(ctx, genai.Text(req.Prompt))
	}
	return newProvider(gen, model, logger)
}

func newProvider(gen generateFunc, model string, logger *Logger.Logger) *GeminiProvider {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiProvider{model: model, generate: gen, logger: logger.Named("gemini")}
}

// Complete implements assistant.Completer.
func (gp *GeminiProvider) Complete(ctx context.Context, req assistant.CompletionRequest) (string, error) {
	resp, err := gp.generate(ctx, gp.model, req)
	if err != nil {
		gp.logger.Errorf("gemini generate failed: %v", err)
		return "", fmt.Errorf("%w: %v", assistant.ErrCompletionFailed, err)
	}
	text := firstCandidateText(resp)
	if text == "" {
		return "", assistant.ErrMalformedCompletion
	}
	return text, nil
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
