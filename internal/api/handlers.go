package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/propdown/propdown/internal/chunker"
	"github.com/propdown/propdown/internal/compiler"
	"github.com/propdown/propdown/internal/decompile"
	"github.com/propdown/propdown/internal/document"
	"github.com/propdown/propdown/internal/importer"
	"github.com/propdown/propdown/internal/inline"
	"github.com/propdown/propdown/internal/render"
)

// handleCompile compiles dialect source from the request body. Query
// parameters title, author and date act as property overrides; ?page=true
// returns a full HTML page instead of JSON fragments.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxSourceBytes)
	src, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read request body", http.StatusRequestEntityTooLarge)
		return
	}

	overrides := make(map[string]string, len(s.cfg.Properties)+3)
	for k, v := range s.cfg.Properties {
		overrides[k] = v
	}
	for _, name := range []string{"title", "author", "date"} {
		if v := r.URL.Query().Get(name); v != "" {
			overrides[name] = v
		}
	}

	doc, err := compiler.Compile(string(src), overrides)
	if err != nil {
		jsonCompileError(w, err)
		return
	}

	if r.URL.Query().Get("page") == "true" {
		page, err := render.Page(doc, s.cfg.TemplatePath)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, page)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"title":        doc.Title(),
		"author":       doc.Author(),
		"date":         doc.Date(),
		"intro":        doc.IntroHTML(),
		"propositions": doc.PropositionsHTML(),
		"appendix":     doc.AppendixHTML(),
	})
}

// handleDecompile converts HTML in the request body back to approximate
// dialect source. Best effort: it never fails on unrecognized input.
func (s *Server) handleDecompile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxSourceBytes)
	src, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read request body", http.StatusRequestEntityTooLarge)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, decompile.Source(string(src)))
}

// handleImport converts an uploaded foreign document to dialect source.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxSourceBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	imp, err := importer.ForFile(filename)
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	if pdfImp, ok := imp.(*importer.PDFImporter); ok {
		pdfImp.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	src, err := imp.Import(io.LimitReader(file, s.cfg.MaxSourceBytes), filename)
	if err != nil {
		jsonError(w, "import failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, src)
}

// jsonCompileError maps a compilation error to its kind and a 422.
func jsonCompileError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"kind":  errorKind(err),
	})
}

// errorKind names the compiler error category for API clients.
func errorKind(err error) string {
	var (
		grammarErr  *inline.GrammarError
		unclosedErr *inline.UnclosedSpanError
		tagErr      *chunker.UnknownTagError
		structErr   *document.StructureError
		missingErr  *document.MissingPropertyError
		emptyErr    *document.EmptyDocumentError
	)
	switch {
	case errors.As(err, &grammarErr):
		return "grammar"
	case errors.As(err, &unclosedErr):
		return "unclosed_span"
	case errors.As(err, &tagErr):
		return "unknown_tag"
	case errors.As(err, &structErr):
		return "structure"
	case errors.As(err, &missingErr):
		return "missing_property"
	case errors.As(err, &emptyErr):
		return "empty_document"
	}
	return "internal"
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
