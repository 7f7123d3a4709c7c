package web

// errors.go provides unified error response handling for the web layer.
//
// Every handler error goes through respondError, which:
//  1. Maps the error to a user message via core.MapError
//  2. Logs the technical error with the request id
//  3. Renders JSON for /api routes and an HTML alert fragment otherwise

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/PasteImport/internal/core"
	"github.com/JonMunkholm/PasteImport/internal/tabular"
	"github.com/JonMunkholm/PasteImport/internal/web/views"
	"github.com/go-chi/chi/v5/middleware"
)

// errInvalidRequest marks request bodies that could not be decoded.
var errInvalidRequest = errors.New("invalid request")

// ErrorResponse is the JSON body of API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for an error from the core or tabular
// packages.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, core.ErrPasteTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, core.ErrEmptyPaste),
		errors.Is(err, core.ErrNoRows),
		errors.Is(err, tabular.ErrUnsupportedDelimiter):
		return http.StatusBadRequest
	case errors.Is(err, tabular.ErrMalformedQuoting):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrUnknownCollection),
		errors.Is(err, core.ErrUnknownRecordType),
		errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the user-facing response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if errorsAsMaxBytes(err) {
		err = core.ErrPasteTooLarge
	}
	userMsg := core.MapError(err)

	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	if wantsJSON(r) {
		writeJSON(w, status, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	views.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w)
}

// wantsJSON reports whether the client expects a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// errorsAsMaxBytes reports whether err came from http.MaxBytesReader.
func errorsAsMaxBytes(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
