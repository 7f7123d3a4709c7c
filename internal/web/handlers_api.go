package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/PasteImport/internal/core"
	"github.com/go-chi/chi/v5/middleware"
)

// DetectResponse is the JSON body of POST /api/detect.
type DetectResponse struct {
	core.Detection
	Status string `json:"status"`
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := s.service.ListCollections(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collections)
}

func (s *Server) handleListRecordTypes(w http.ResponseWriter, r *http.Request) {
	recordTypes, err := s.service.ListRecordTypes(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordTypes)
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, r, errInvalidRequest)
			return
		}
		limit = n
	}
	entries, err := s.service.ListImports(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodePaste(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	d, err := s.service.Detect(r.Context(), req.Text, req.Delimiter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DetectResponse{
		Detection: d,
		Status:    d.Status(),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, err := s.preview(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	res, err := s.quickImport(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"result":  res,
		"summary": res.Summary(),
	})
}

func (s *Server) handleStage(w http.ResponseWriter, r *http.Request) {
	f, err := s.stage(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) logRenderError(r *http.Request, err error) {
	slog.Error("render failed",
		"path", r.URL.Path,
		"error", err,
		"request_id", middleware.GetReqID(r.Context()),
	)
}
