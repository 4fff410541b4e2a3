package api

import (
	"encoding/json/v2"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ichigoapp/ichigo-server/internal/config"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
)

// registerMediaRoutes wires attachment upload and serving. These are
// chi handlers (not Huma) because Huma doesn't easily support
// multipart forms or streaming file responses.
func (s *Server) registerMediaRoutes(cfg *config.Config) {
	if s.services.Media == nil {
		return
	}

	s.router.Post("/api/v1/media/images", s.handleUploadImage)

	// Serve stored files only when the public base URL is a local
	// path prefix. With S3 the URL points at the bucket directly.
	base := strings.TrimSuffix(cfg.Media.PublicBaseURL, "/")
	if strings.HasPrefix(base, "/") {
		s.router.Get(base+"/*", s.handleServeMedia)
	}
}

// handleUploadImage accepts a multipart image upload.
// POST /api/v1/media/images
// Content-Type: multipart/form-data with "file" field
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := s.services.Auth.RequireCurrentUser(ctx); err != nil {
		s.writeMediaError(w, err)
		return
	}

	const maxFormSize = 16 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		s.writeMediaError(w, domainerrors.Validation("failed to parse form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeMediaError(w, domainerrors.Validation("no file uploaded, use 'file' field in multipart form"))
		return
	}
	defer file.Close()

	result, err := s.services.Media.UploadImage(ctx, header.Filename, file)
	if err != nil {
		s.writeMediaError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	if err := json.MarshalWrite(w, result); err != nil {
		s.logger.Error("Failed to encode upload response", "error", err)
	}
}

// handleServeMedia streams a locally stored attachment.
func (s *Server) handleServeMedia(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" || strings.Contains(path, "..") {
		s.writeMediaError(w, domainerrors.NotFound("attachment not found"))
		return
	}

	rc, err := s.services.Media.Open(r.Context(), path)
	if err != nil {
		s.writeMediaError(w, err)
		return
	}
	defer rc.Close()

	// Sniff the content type from the first chunk.
	head := make([]byte, 512)
	n, _ := io.ReadFull(rc, head)
	head = head[:n]

	w.Header().Set("Content-Type", http.DetectContentType(head))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(head); err != nil {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Debug("Media stream interrupted", "path", path, "error", err)
	}
}

// writeMediaError renders a service error for the non-Huma routes in
// the same shape the Huma error handler produces.
func (s *Server) writeMediaError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL"
	message := "Internal server error"

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		status = domainErr.HTTPStatus()
		code = string(domainErr.Code)
		message = domainErr.Message
	} else if status == http.StatusInternalServerError {
		s.logger.Error("Media request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	body := map[string]string{"code": code, "message": message}
	if err := json.MarshalWrite(w, body); err != nil {
		s.logger.Error("Failed to encode error response", "error", err)
	}
}
