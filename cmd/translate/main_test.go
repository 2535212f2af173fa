package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xpanvictor/linguavox/internal/config"
	"github.com/xpanvictor/linguavox/internal/domains/translation"
	"github.com/xpanvictor/linguavox/pkg/io/translate"
)

func newProxy(t *testing.T, status int) (*httptest.Server, *[]translation.Request) {
	t.Helper()
	var got []translation.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req translation.Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		got = append(got, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(translation.Response{Translation: "Γειά σου κόσμε"})
			return
		}
		_, _ = w.Write([]byte(`{"error":"Failed to get a valid response from the completion service"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestRunPrintsTranslation(t *testing.T) {
	srv, got := newProxy(t, http.StatusOK)
	var stdout, stderr bytes.Buffer

	code := run(&config.Settings{}, []string{"-proxy", srv.URL}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("Expected exit 0, got %d (%s)", code, stderr.String())
	}
	if strings.TrimSpace(stdout.String()) != "Γειά σου κόσμε" {
		t.Errorf("Unexpected output %q", stdout.String())
	}
	want := translation.Request{Text: "ciao mondo", SourceLanguage: translation.Italian, TargetLanguage: translation.Greek, Tone: translation.Formal}
	if len(*got) != 1 || (*got)[0] != want {
		t.Errorf("Expected request %+v, got %+v", want, *got)
	}
}

func TestRunReportsFailure(t *testing.T) {
	srv, _ := newProxy(t, http.StatusInternalServerError)
	var stdout, stderr bytes.Buffer

	code := run(&config.Settings{}, []string{"-proxy", srv.URL, "-text", "buongiorno"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("Expected exit 1, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected nothing on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), translate.FailureDisplay) || !strings.Contains(stderr.String(), string(translate.FailureUpstream)) {
		t.Errorf("Unexpected stderr %q", stderr.String())
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(&config.Settings{}, []string{"-bogus"}, &stdout, &stderr); code != 2 {
		t.Errorf("Expected exit 2, got %d", code)
	}
}
