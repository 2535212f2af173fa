package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/xpanvictor/linguavox/internal/domains/translation"
	"github.com/xpanvictor/linguavox/pkg/Logger"
)

// FailureDisplay is what the page shows in place of a translation.
const FailureDisplay = "Translation failed"

type Failure string

const (
	FailureNone       Failure = ""
	FailureEmptyInput Failure = "empty_input"
	FailureTransport  Failure = "transport"
	FailureUpstream   Failure = "upstream"
	FailureDecode     Failure = "decode"
	FailureUnknown    Failure = "unknown"
)

// Result is either a translation or a failure category. Only Success
// produces an OK result; the zero value is a failure.
type Result struct {
	Text    string
	Failure Failure
	ok      bool
}

func Success(text string) Result {
	return Result{Text: text, ok: true}
}

func Failed(f Failure) Result {
	if f == FailureNone {
		f = FailureUnknown
	}
	return Result{Failure: f}
}

func (r Result) OK() bool {
	return r.ok
}

// Display returns the value to render; never use it to test for success.
func (r Result) Display() string {
	if r.OK() {
		return r.Text
	}
	return FailureDisplay
}

type Translator interface {
	Translate(ctx context.Context, req translation.Request) Result
}

// Client talks to the /translate proxy endpoint. Calls are independent:
// no retry, no deduplication, no ordering between concurrent calls.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *Logger.Logger
}

// New builds a client for the proxy at baseURL. A nil httpClient means
// http.DefaultClient, so only the platform default timeouts apply.
func New(baseURL string, httpClient *http.Client, logger *Logger.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/translate",
		http:     httpClient,
		logger:   logger.Named("translate-client"),
	}
}

func (c *Client) Translate(ctx context.Context, req translation.Request) Result {
	if req.IsBlank() {
		return Failed(FailureEmptyInput)
	}

	body, err := json.Marshal(req)
	if err != nil {
		c.logger.Errorf("encode translation request: %v", err)
		return Failed(FailureTransport)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.Errorf("build translation request: %v", err)
		return Failed(FailureTransport)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Errorf("translation request failed: %v", err)
		return Failed(FailureTransport)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Errorf("translation proxy returned %d: %s", resp.StatusCode, detail)
		return Failed(FailureUpstream)
	}

	var out translation.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Errorf("decode translation response: %v", err)
		return Failed(FailureDecode)
	}
	return Success(out.Translation)
}
