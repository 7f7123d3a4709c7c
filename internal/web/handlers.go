package web

import (
	"net/http"

	"github.com/JonMunkholm/PasteImport/internal/core"
	"github.com/JonMunkholm/PasteImport/internal/web/views"
	"github.com/a-h/templ"
)

const historyOnPage = 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"activeImports":  s.service.Limiter().ActiveCount(),
		"availableSlots": s.service.Limiter().Available(),
	})
}

// handlePage renders the paste page with pickers and recent history.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	collections, err := s.service.ListCollections(ctx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	recordTypes, err := s.service.ListRecordTypes(ctx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	history, err := s.service.ListImports(ctx, historyOnPage)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, views.PastePage(views.PageData{
		Collections: collections,
		RecordTypes: recordTypes,
		History:     history,
		Delimiter:   "auto",
	}))
}

// handleDetectFragment returns the status line for detect-as-you-type.
// Failures are rendered in the status line itself so the page keeps its
// swap target.
func (s *Server) handleDetectFragment(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodePaste(w, r)
	if err == nil {
		var d core.Detection
		if d, err = s.service.Detect(r.Context(), req.Text, req.Delimiter); err == nil {
			s.render(w, r, http.StatusOK, views.DetectStatus(d))
			return
		}
	}
	status := statusFor(err)
	if errorsAsMaxBytes(err) {
		err = core.ErrPasteTooLarge
	}
	s.render(w, r, status, views.DetectError(core.MapError(err).Message))
}

func (s *Server) handlePreviewFragment(w http.ResponseWriter, r *http.Request) {
	res, err := s.preview(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, views.Preview(res))
}

func (s *Server) handleImportFragment(w http.ResponseWriter, r *http.Request) {
	res, err := s.quickImport(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, views.ImportResult(res))
}

func (s *Server) handleStageFragment(w http.ResponseWriter, r *http.Request) {
	f, err := s.stage(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, views.StagedFile(f))
}

// preview, quickImport and stage decode the shared request and call the
// service. They back both the fragment and the API handlers.

func (s *Server) preview(w http.ResponseWriter, r *http.Request) (*core.PreviewResult, error) {
	req, err := s.decodePaste(w, r)
	if err != nil {
		return nil, err
	}
	rtID, err := parseID("record type", req.RecordTypeID)
	if err != nil {
		return nil, err
	}
	return s.service.Preview(r.Context(), core.PreviewRequest{
		Text:         req.Text,
		Delimiter:    req.Delimiter,
		HasHeader:    req.HasHeader,
		RecordTypeID: rtID,
		Limit:        req.Limit,
	})
}

func (s *Server) quickImport(w http.ResponseWriter, r *http.Request) (*core.ImportResult, error) {
	req, err := s.decodePaste(w, r)
	if err != nil {
		return nil, err
	}
	collectionID, err := parseID("collection", req.CollectionID)
	if err != nil {
		return nil, err
	}
	rtID, err := parseID("record type", req.RecordTypeID)
	if err != nil {
		return nil, err
	}
	return s.service.QuickImport(withRequestMeta(r), core.ImportRequest{
		Text:         req.Text,
		Delimiter:    req.Delimiter,
		HasHeader:    req.HasHeader,
		CollectionID: collectionID,
		RecordTypeID: rtID,
	})
}

func (s *Server) stage(w http.ResponseWriter, r *http.Request) (*core.StagedFile, error) {
	req, err := s.decodePaste(w, r)
	if err != nil {
		return nil, err
	}
	return s.service.StageText(r.Context(), req.Text, req.Delimiter)
}

// render writes an HTML component with the given status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		s.logRenderError(r, err)
	}
}
