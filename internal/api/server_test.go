package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/propdown/propdown/internal/config"
)

const sample = `##title Example
##author A. Person
##date 1 Jan 2024

# First proposition
Some **bold** text.
`

func newTestServer(cfg config.Config) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(log, cfg)
}

func TestHealth(t *testing.T) {
	s := newTestServer(config.Load())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestCompile_Fragments(t *testing.T) {
	s := newTestServer(config.Load())
	req := httptest.NewRequest(http.MethodPost, "/api/compile", strings.NewReader(sample))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["title"] != "Example" {
		t.Errorf("expected title Example, got %q", resp["title"])
	}
	if !strings.Contains(resp["propositions"], "<b>bold</b>") {
		t.Errorf("propositions fragment missing bold: %q", resp["propositions"])
	}
	if resp["appendix"] != "" {
		t.Errorf("expected empty appendix, got %q", resp["appendix"])
	}
}

func TestCompile_Page(t *testing.T) {
	s := newTestServer(config.Load())
	req := httptest.NewRequest(http.MethodPost, "/api/compile?page=true", strings.NewReader(sample))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<h1>Example</h1>") {
		t.Error("page missing rendered title")
	}
}

func TestCompile_QueryOverrides(t *testing.T) {
	s := newTestServer(config.Load())
	src := "# Claim\n"
	req := httptest.NewRequest(http.MethodPost,
		"/api/compile?title=T&author=A&date=D", strings.NewReader(src))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCompile_ErrorKinds(t *testing.T) {
	s := newTestServer(config.Load())
	tests := []struct {
		name, src, kind string
	}{
		{"missing property", "# Claim\n", "missing_property"},
		{"empty document", "##title T\n##author A\n##date D\n\nOnly intro\n", "empty_document"},
		{"structure", "##appendix\n", "structure"},
		{"unclosed span", "##title T\n##author A\n##date D\n\n# C\n\n*open\n", "unclosed_span"},
		{"unknown tag", "#:sidebar text\n", "unknown_tag"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/compile", strings.NewReader(tt.src))
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %d", tt.name, rec.Code)
			continue
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Errorf("%s: invalid json: %v", tt.name, err)
			continue
		}
		if resp["kind"] != tt.kind {
			t.Errorf("%s: expected kind %q, got %q", tt.name, tt.kind, resp["kind"])
		}
	}
}

func TestDecompile(t *testing.T) {
	s := newTestServer(config.Load())
	body := "<p>Some <b>bold</b> text.</p>"
	req := httptest.NewRequest(http.MethodPost, "/api/decompile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Some **bold** text.") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestImport(t *testing.T) {
	s := newTestServer(config.Load())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("A claim.\n\nSome detail.\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	out := rec.Body.String()
	if !strings.Contains(out, "##title notes") || !strings.Contains(out, "# A claim.") {
		t.Errorf("unexpected import output:\n%s", out)
	}
}

func TestImport_UnsupportedExtension(t *testing.T) {
	s := newTestServer(config.Load())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "image.png")
	fw.Write([]byte("not a document"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	cfg := config.Load()
	cfg.APIKey = "secret"
	s := newTestServer(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/compile", strings.NewReader(sample))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/compile", strings.NewReader(sample))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", rec.Code)
	}

	// Health stays public.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected public health endpoint, got %d", rec.Code)
	}
}
