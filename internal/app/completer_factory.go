package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/xpanvictor/linguavox/internal/config"
	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/assistant"
	"github.com/xpanvictor/linguavox/pkg/assistant/providers/gemini"
	"github.com/xpanvictor/linguavox/pkg/assistant/providers/ollama"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// CompleterFactory picks the completion provider named in the settings
type CompleterFactory struct {
	cfg    config.CompletionConfig
	keys   assistant.KeySource
	logger *Logger.Logger
}

// NewCompleterFactory creates a factory; keys is consulted on every request
func NewCompleterFactory(cfg config.CompletionConfig, keys assistant.KeySource, logger *Logger.Logger) *CompleterFactory {
	return &CompleterFactory{cfg: cfg, keys: keys, logger: logger}
}

// CreateCompleter creates the completer for the configured provider
func (f *CompleterFactory) CreateCompleter() (assistant.Completer, error) {
	switch strings.ToLower(f.cfg.Provider) {
	case "", ProviderOpenAI:
		f.logger.Infof("completion provider: openai model=%s", f.cfg.Model)
		return assistant.NewOpenAI(assistant.OpenAIConfig{
			BaseURL: f.cfg.BaseURL,
			Model:   f.cfg.Model,
			Keys:    f.keys,
		}, f.logger), nil

	case ProviderOllama:
		if len(f.cfg.OllamaServers) == 0 {
			return nil, fmt.Errorf("ollama provider needs at least one server")
		}
		for _, srv := range f.cfg.OllamaServers {
			if _, err := url.Parse(srv); err != nil {
				return nil, fmt.Errorf("invalid ollama server %q: %w", srv, err)
			}
		}
		f.logger.Infof("completion provider: ollama servers=%v model=%s", f.cfg.OllamaServers, f.cfg.Model)
		return ollama.New(f.cfg.OllamaServers, f.cfg.Model, f.logger), nil

	case ProviderGemini:
		f.logger.Infof("completion provider: gemini model=%s", f.cfg.Model)
		return gemini.New(f.keys, f.cfg.Model, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown completion provider %q", f.cfg.Provider)
	}
}
