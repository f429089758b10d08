package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the uniform result shape every operation reports.
type Envelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Writer is a single-assignment result slot: once a result has been produced
// for a request, any further attempt to produce one is a no-op rather than a
// double send.
type Writer struct {
	http.ResponseWriter
	wrote bool
}

func NewWriter(w http.ResponseWriter) *Writer {
	return &Writer{ResponseWriter: w}
}

func (w *Writer) WriteHeader(status int) {
	w.wrote = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *Writer) Write(p []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(p)
}

func (w *Writer) Written() bool { return w.wrote }

func (w *Writer) Unwrap() http.ResponseWriter { return w.ResponseWriter }

type written interface{ Written() bool }

// JSON writes an arbitrary payload unless a result was already produced for
// this request.
func JSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if slot, ok := w.(written); ok && slot.Written() {
		slog.DebugContext(r.Context(), "response already written, dropping result",
			"path", r.URL.Path, "status", status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(r.Context(), "encode response", "error", err)
	}
}

// OK reports a successful operation. An empty message is omitted from the body.
func OK(w http.ResponseWriter, r *http.Request, message string) {
	JSON(w, r, http.StatusOK, Envelope{OK: true, Message: message})
}

// Fail reports a failed operation with the given transport status.
func Fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, Envelope{OK: false, Message: message})
}
