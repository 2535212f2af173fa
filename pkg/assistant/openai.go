package assistant

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xpanvictor/linguavox/pkg/Logger"
)

const DefaultOpenAIModel = openai.ChatModelGPT3_5Turbo

type OpenAIConfig struct {
	BaseURL    string // empty means api.openai.com
	Model      string
	Keys       KeySource
	HTTPClient *http.Client
}

type openAIAssistant struct {
	client openai.Client
	model  openai.ChatModel
	keys   KeySource
	logger *Logger.Logger
}

// Complete implements Completer.
func (o openAIAssistant) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Model: o.model,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	var opts []option.RequestOption
	if o.keys != nil {
		opts = append(opts, option.WithAPIKey(o.keys()))
	}

	chatCompletion, err := o.client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		// upstream body stays in the server log only
		o.logger.Errorf("openai completion failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	if len(chatCompletion.Choices) == 0 {
		o.logger.Errorf("openai completion %s returned no choices", chatCompletion.ID)
		return "", ErrMalformedCompletion
	}
	// a choice without a message, or with a null content, decodes to ""
	msg := chatCompletion.Choices[0].Message
	if !msg.JSON.Content.Valid() {
		o.logger.Errorf("openai completion %s returned no message content", chatCompletion.ID)
		return "", ErrMalformedCompletion
	}
	return msg.Content, nil
}

func NewOpenAI(cfg OpenAIConfig, logger *Logger.Logger) Completer {
	opts := []option.RequestOption{
		// a failed translation is terminal for that request
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	model := openai.ChatModel(cfg.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}
	return openAIAssistant{
		client: openai.NewClient(opts...),
		model:  model,
		keys:   cfg.Keys,
		logger: logger.Named("openai"),
	}
}
