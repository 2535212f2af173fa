package assistant

import (
	"context"
	"errors"
)

type Role string

// USER is the only role sent; every completion is a single user turn.
const USER Role = "user"

var (
	// ErrCompletionFailed wraps transport and non-2xx failures of a provider.
	ErrCompletionFailed = errors.New("completion failed")
	// ErrMalformedCompletion means the provider answered without any choice text.
	ErrMalformedCompletion = errors.New("completion carried no content")
)

// CompletionRequest is a single-turn prompt; Prompt becomes the only user message.
type CompletionRequest struct {
	Prompt    string
	MaxTokens int64
}

// KeySource yields the provider secret. It is called once per request.
type KeySource func() string

// StaticKey is a KeySource for a fixed secret.
func StaticKey(key string) KeySource {
	return func() string { return key }
}

type Completer interface {
	// Complete returns the untrimmed text of the first completion choice.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
