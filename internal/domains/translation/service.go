package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/assistant"
)

// MaxTokens caps every translation; the proxy contract fixes it.
const MaxTokens int64 = 100

var (
	ErrInvalidRequest = errors.New("invalid translation request")
	ErrUpstream       = errors.New("completion service failed")
)

type TranslationService interface {
	Translate(ctx context.Context, req Request) (string, error)
}

type ServiceConfig struct {
	// StrictValidation rejects blank text and values outside the known
	// language and tone sets before the completion service is called.
	StrictValidation bool
}

type translationService struct {
	completer assistant.Completer
	cfg       ServiceConfig
	logger    *Logger.Logger
}

func New(completer assistant.Completer, cfg ServiceConfig, logger *Logger.Logger) TranslationService {
	return &translationService{
		completer: completer,
		cfg:       cfg,
		logger:    logger.Named("translation"),
	}
}

// Translate returns the first completion choice with surrounding whitespace trimmed.
func (s *translationService) Translate(ctx context.Context, req Request) (string, error) {
	if s.cfg.StrictValidation {
		if err := Validate(req); err != nil {
			return "", err
		}
	}

	out, err := s.completer.Complete(ctx, assistant.CompletionRequest{
		Prompt:    BuildPrompt(req),
		MaxTokens: MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.logger.Debugf("translated %s -> %s (%s)", req.SourceLanguage, req.TargetLanguage, req.Tone)
	return strings.TrimSpace(out), nil
}

func Validate(req Request) error {
	if req.IsBlank() {
		return fmt.Errorf("%w: text is empty", ErrInvalidRequest)
	}
	if !req.SourceLanguage.Valid() {
		return fmt.Errorf("%w: unknown source language %q", ErrInvalidRequest, req.SourceLanguage)
	}
	if !req.TargetLanguage.Valid() {
		return fmt.Errorf("%w: unknown target language %q", ErrInvalidRequest, req.TargetLanguage)
	}
	if !req.Tone.Valid() {
		return fmt.Errorf("%w: unknown tone %q", ErrInvalidRequest, req.Tone)
	}
	return nil
}
