package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/linguavox/internal/domains/translation"
	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/assistant"
)

const greekRequestBody = `{"text":"ciao mondo","source_lang":"Italian","target_lang":"Greek","tone":"formal"}`

type upstreamStub struct {
	calls   int32
	prompts chan string
	status  int
	body    string
}

func newUpstreamStub(status int, body string) (*upstreamStub, *httptest.Server) {
	stub := &upstreamStub{status: status, body: body, prompts: make(chan string, 8)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&stub.calls, 1)
		var payload struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil && len(payload.Messages) > 0 {
			stub.prompts <- payload.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stub.status)
		_, _ = w.Write([]byte(stub.body))
	}))
	return stub, srv
}

func newProxyRouter(upstreamURL string, strict bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := Logger.NewNop()
	completer := assistant.NewOpenAI(assistant.OpenAIConfig{
		BaseURL: upstreamURL + "/",
		Keys:    assistant.StaticKey("sk-test"),
	}, logger)
	svc := translation.New(completer, translation.ServiceConfig{StrictValidation: strict}, logger)

	r := gin.New()
	r.Use(CORSMiddleware())
	NewTranslationHandler(svc, logger).RegisterRoutes(r)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTranslateProxySuccess(t *testing.T) {
	stub, upstream := newUpstreamStub(http.StatusOK,
		`{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" Γειά σου κόσμε "}}]}`)
	defer upstream.Close()

	w := doRequest(newProxyRouter(upstream.URL, false), http.MethodPost, "/translate", greekRequestBody)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp translation.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Translation != "Γειά σου κόσμε" {
		t.Errorf("Expected trimmed translation, got %q", resp.Translation)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}

	want := `Translate the following text from Italian to Greek with a formal tone: "ciao mondo"`
	select {
	case prompt := <-stub.prompts:
		if prompt != want {
			t.Errorf("Expected prompt %q, got %q", want, prompt)
		}
	default:
		t.Error("Upstream never received a prompt")
	}
}

func TestTranslateProxyUpstreamFailure(t *testing.T) {
	secret := "internal quota detail for org-1234"
	stub, upstream := newUpstreamStub(http.StatusTooManyRequests,
		`{"error":{"message":"`+secret+`","type":"rate_limit"}}`)
	defer upstream.Close()

	w := doRequest(newProxyRouter(upstream.URL, false), http.MethodPost, "/translate", greekRequestBody)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), secret) {
		t.Errorf("Upstream payload leaked: %s", w.Body.String())
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != upstreamFailureMessage || resp.Details != "" {
		t.Errorf("Expected generic error, got %+v", resp)
	}
	if n := atomic.LoadInt32(&stub.calls); n != 1 {
		t.Errorf("Expected a single upstream call, got %d", n)
	}
}

func TestTranslateProxyMalformedUpstream(t *testing.T) {
	bodies := []string{
		`{"id":"x","object":"chat.completion","choices":[]}`,
		`{"id":"x","object":"chat.completion","choices":[{"index":0}]}`,
		`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant"}}]}`,
		`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":null}}]}`,
		`not json`,
	}
	for _, body := range bodies {
		_, upstream := newUpstreamStub(http.StatusOK, body)

		w := doRequest(newProxyRouter(upstream.URL, false), http.MethodPost, "/translate", greekRequestBody)
		upstream.Close()

		if w.Code != http.StatusInternalServerError {
			t.Errorf("upstream %s: expected 500, got %d %s", body, w.Code, w.Body.String())
			continue
		}
		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Error != upstreamFailureMessage {
			t.Errorf("upstream %s: expected generic error, got %s", body, w.Body.String())
		}
	}
}

func TestTranslateProxyMethodNotAllowed(t *testing.T) {
	stub, upstream := newUpstreamStub(http.StatusOK, `{}`)
	defer upstream.Close()
	r := newProxyRouter(upstream.URL, false)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := doRequest(r, method, "/translate", "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, w.Code)
		}
		if got := w.Header().Get("Allow"); got != "POST" {
			t.Errorf("%s: expected Allow: POST, got %q", method, got)
		}
	}
	if n := atomic.LoadInt32(&stub.calls); n != 0 {
		t.Errorf("Expected no upstream calls, got %d", n)
	}
}

func TestTranslateProxyPreflight(t *testing.T) {
	stub, upstream := newUpstreamStub(http.StatusOK, `{}`)
	defer upstream.Close()

	w := doRequest(newProxyRouter(upstream.URL, false), http.MethodOptions, "/translate", "")

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	headers := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, GET, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}
	for k, want := range headers {
		if got := w.Header().Get(k); got != want {
			t.Errorf("Expected %s %q, got %q", k, want, got)
		}
	}
	if n := atomic.LoadInt32(&stub.calls); n != 0 {
		t.Errorf("Pre-flight reached the completion service %d times", n)
	}
}

func TestTranslateProxyBadRequests(t *testing.T) {
	stub, upstream := newUpstreamStub(http.StatusOK, `{}`)
	defer upstream.Close()

	cases := []struct {
		name   string
		strict bool
		body   string
	}{
		{"malformed json", false, `{"text":`},
		{"missing tone", false, `{"text":"ciao","source_lang":"Italian","target_lang":"Greek"}`},
		{"strict unknown tone", true, `{"text":"ciao","source_lang":"Italian","target_lang":"Greek","tone":"sarcastic"}`},
		{"strict blank text", true, `{"text":"   ","source_lang":"Italian","target_lang":"Greek","tone":"formal"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(newProxyRouter(upstream.URL, tc.strict), http.MethodPost, "/translate", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
	if n := atomic.LoadInt32(&stub.calls); n != 0 {
		t.Errorf("Expected no upstream calls, got %d", n)
	}
}
