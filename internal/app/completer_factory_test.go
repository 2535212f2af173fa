package app

import (
	"testing"

	"github.com/xpanvictor/linguavox/internal/config"
	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/assistant"
)

func TestCreateCompleter(t *testing.T) {
	keys := assistant.StaticKey("test-key")
	cases := []struct {
		name    string
		cfg     config.CompletionConfig
		wantErr bool
	}{
		{"default is openai", config.CompletionConfig{}, false},
		{"openai", config.CompletionConfig{Provider: "OpenAI", BaseURL: "http://localhost:9999/v1"}, false},
		{"gemini", config.CompletionConfig{Provider: ProviderGemini}, false},
		{"ollama", config.CompletionConfig{Provider: ProviderOllama, OllamaServers: []string{"http://localhost:11434"}}, false},
		{"ollama without servers", config.CompletionConfig{Provider: ProviderOllama}, true},
		{"unknown", config.CompletionConfig{Provider: "bard"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewCompleterFactory(tc.cfg, keys, Logger.NewNop()).CreateCompleter()
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %+v", tc.cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateCompleter() error: %v", err)
			}
			if c == nil {
				t.Error("Expected a completer")
			}
		})
	}
}
