package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// formOverhead is the room left for non-text fields on top of the paste limit.
const formOverhead = 64 << 10

// pasteRequest is the body shared by detect, preview, import and stage.
// The API sends JSON; the page posts a url-encoded form.
type pasteRequest struct {
	Text         string `json:"text"`
	Delimiter    string `json:"delimiter"`
	HasHeader    bool   `json:"hasHeader"`
	CollectionID string `json:"collectionId"`
	RecordTypeID string `json:"recordTypeId"`
	Limit        int    `json:"limit"`
}

// decodePaste reads a pasteRequest from the body, bounded by the paste limit.
func (s *Server) decodePaste(w http.ResponseWriter, r *http.Request) (pasteRequest, error) {
	var req pasteRequest
	if limit := s.cfg.Import.MaxPasteBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return req, err
			}
			return req, fmt.Errorf("%w: %v", errInvalidRequest, err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, err
		}
		return req, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	req.Text = r.PostForm.Get("text")
	req.Delimiter = r.PostForm.Get("delimiter")
	req.HasHeader = formBool(r.PostForm.Get("has_header"))
	req.CollectionID = r.PostForm.Get("collection_id")
	req.RecordTypeID = r.PostForm.Get("record_type_id")
	if v := r.PostForm.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: limit %q", errInvalidRequest, v)
		}
		req.Limit = n
	}
	return req, nil
}

// formBool treats checkbox values ("on", "true", "1") as true.
func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// parseID parses an optional uuid; empty yields uuid.Nil.
func parseID(field, v string) (uuid.UUID, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q is not a valid id", errInvalidRequest, field, v)
	}
	return id, nil
}
