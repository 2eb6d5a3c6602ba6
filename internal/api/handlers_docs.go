package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/tref/internal/docstore"
	"github.com/dgallion1/tref/internal/doctree"
	"github.com/dgallion1/tref/internal/forest"
	"github.com/dgallion1/tref/internal/importer"
	"github.com/dgallion1/tref/internal/pathstore"
	"github.com/dgallion1/tref/internal/tref"
	"github.com/go-chi/chi/v5"
)

const defaultFilename = "document.tref"

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": s.store.List()})
}

// handleCreateDocument accepts a multipart "file" upload, or a raw TREF
// body named by the optional filename query parameter.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	// Limit total request size; extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	filename, data, status, err := s.readUpload(r)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	hash := docstore.ContentHashHex(data)
	if r.URL.Query().Get("force") != "true" {
		if existing, ok := s.store.FindByHash(hash); ok {
			writeJSON(w, http.StatusOK, map[string]any{
				"document":  existing.Snapshot(),
				"duplicate": true,
			})
			return
		}
	}

	imp, err := importer.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	levels := s.cfg.BuildLevels || r.URL.Query().Get("levels") == "true"
	log := s.log.With("filename", filename)
	switch p := imp.(type) {
	case *importer.TrefImporter:
		p.Options = append(p.Options, tref.WithLogger(log))
		if levels {
			p.Options = append(p.Options, tref.WithLevels())
		}
	case *importer.PDFImporter:
		p.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	f, err := imp.Import(bytes.NewReader(data), filename)
	if err != nil {
		log.Warn("import failed", "error", err)
		jsonError(w, "import failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if levels {
		for _, t := range f.All() {
			if _, ok := t.Levels(); !ok {
				t.RebuildLevels()
			}
		}
	}

	doc, err := s.store.Add(filename, data, f)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Location", "/api/documents/"+doc.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"document": doc.Snapshot()})
}

func (s *Server) readUpload(r *http.Request) (string, []byte, int, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return "", nil, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, http.StatusBadRequest, fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()
		filename := sanitizeFilename(header.Filename)
		data, status, err := s.readLimited(file, filename)
		return filename, data, status, err
	}

	filename := defaultFilename
	if name := r.URL.Query().Get("filename"); name != "" {
		filename = sanitizeFilename(name)
	}
	data, status, err := s.readLimited(r.Body, filename)
	return filename, data, status, err
}

func (s *Server) readLimited(src io.Reader, filename string) ([]byte, int, error) {
	if !importer.IsSupportedExtension(filename) {
		return nil, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
	data, err := io.ReadAll(io.LimitReader(src, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return data, http.StatusOK, nil
}

// handleGetDocument returns the document as TREF text, or as the nested
// view when format=json|yaml.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	format := r.URL.Query().Get("format")
	var view doctree.Format
	if format != "" && format != "tref" {
		if view, err = doctree.ParseFormat(format); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var buf bytes.Buffer
	contentType := "text/plain; charset=utf-8"
	err = doc.Read(func(f *forest.Forest[string]) error {
		if view == "" {
			_, err := tref.Serialize(f, &buf)
			return err
		}
		contentType = view.ContentType()
		return doctree.Encode(&buf, view, doctree.FromForest(f))
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "docID")); err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport writes one tree, or every tree, of a document to pathstore.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		jsonError(w, "pathstore export is not configured", http.StatusServiceUnavailable)
		return
	}
	doc, err := s.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	var req struct {
		Tree string `json:"tree"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	var results []pathstore.Result
	err = doc.Read(func(f *forest.Forest[string]) error {
		for id, t := range f.All() {
			if req.Tree != "" && id != req.Tree {
				continue
			}
			if t.Len() == 0 && req.Tree == "" {
				continue
			}
			res, err := s.exporter.Export(r.Context(), id, t)
			if err != nil {
				return err
			}
			results = append(results, res)
		}
		if req.Tree != "" && len(results) == 0 {
			return fmt.Errorf("%s: %w", req.Tree, forest.ErrTreeNotFound)
		}
		return nil
	})
	if err != nil {
		status := statusFor(err)
		if pathstore.IsRetryable(err) || errors.Is(err, pathstore.ErrRootMissing) {
			status = http.StatusBadGateway
		}
		s.log.Warn("export failed", "doc_id", doc.ID, "error", err)
		jsonError(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exported": results})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
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
