package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/assistant"
)

const DefaultModel = "llama3.1:8b-instruct"

// Chatter is the slice of the ollama client used here.
type Chatter interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// OllamaProvider completes prompts on the first online server of a farm.
type OllamaProvider struct {
	pick   func() (Chatter, bool)
	model  string
	logger *Logger.Logger
}

func New(servers []string, model string, logger *Logger.Logger) OllamaProvider {
	farm := ollamafarm.New()
	for _, srv := range servers {
		if err := farm.RegisterURL(srv, nil); err != nil {
			logger.Warnf("ollama server %s not registered: %v", srv, err)
		}
	}
	pick := func() (Chatter, bool) {
		o := farm.First(&ollamafarm.Where{Offline: false})
		if o == nil {
			return nil, false
		}
		return o.Client(), true
	}
	return newProvider(pick, model, logger)
}

// NewWithClient binds the provider to one client, bypassing the farm.
func NewWithClient(c Chatter, model string, logger *Logger.Logger) OllamaProvider {
	return newProvider(func() (Chatter, bool) { return c, true }, model, logger)
}

func newProvider(pick func() (Chatter, bool), model string, logger *Logger.Logger) OllamaProvider {
	if model == "" {
		model = DefaultModel
	}
	return OllamaProvider{pick: pick, model: model, logger: logger.Named("ollama")}
}

// Complete implements assistant.Completer.
func (o OllamaProvider) Complete(ctx context.Context, req assistant.CompletionRequest) (string, error) {
	client, ok := o.pick()
	if !ok {
		return "", fmt.Errorf("%w: no ollama server online for %s", assistant.ErrCompletionFailed, o.model)
	}

	stream := false
	chatReq := api.ChatRequest{
		Model:    o.model,
		Messages: []api.Message{{Role: string(assistant.USER), Content: req.Prompt}},
		Stream:   &stream,
	}
	if req.MaxTokens > 0 {
		chatReq.Options = map[string]interface{}{"num_predict": req.MaxTokens}
	}

	var out strings.Builder
	err := client.Chat(ctx, &chatReq, func(cr api.ChatResponse) error {
		out.WriteString(cr.Message.Content)
		return nil
	})
	if err != nil {
		o.logger.Errorf("ollama chat failed: %v", err)
		return "", fmt.Errorf("%w: %v", assistant.ErrCompletionFailed, err)
	}
	if out.Len() == 0 {
		return "", assistant.ErrMalformedCompletion
	}
	return out.String(), nil
}
