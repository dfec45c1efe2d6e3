package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/voxquery/voxquery/pkg/core"
	"github.com/voxquery/voxquery/pkg/gateway/apierror"
	"github.com/voxquery/voxquery/pkg/gateway/config"
	"github.com/voxquery/voxquery/pkg/session"
)

// TextQueryHandler answers a typed question against the active table.
type TextQueryHandler struct {
	Config  config.Config
	Session *session.Session
}

func (h TextQueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	// The session check precedes request parsing, so a malformed request
	// against an empty session still reports the missing upload.
	if h.Session.Empty() {
		writeErrorJSON(w, core.NewNoSession())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxBodyBytes)

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, apierror.Envelope{Error: "Invalid JSON body"})
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeFailure(w, http.StatusBadRequest, apierror.Envelope{Error: "No question provided"})
		return
	}

	writeQueryResult(w, h.Session.Ask(r.Context(), question))
}

// VoiceQueryHandler transcribes the uploaded recording and answers the
// resulting question against the active table.
type VoiceQueryHandler struct {
	Config  config.Config
	Session *session.Session
}

func (h VoiceQueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if h.Session.Empty() {
		writeErrorJSON(w, core.NewNoSession())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxBodyBytes)

	part, _, err := r.FormFile("audio")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, apierror.Envelope{Error: "No audio uploaded"})
		return
	}
	defer part.Close()

	audio, err := io.ReadAll(part)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, apierror.Envelope{Error: "Failed to read audio"})
		return
	}

	writeQueryResult(w, h.Session.AskVoice(r.Context(), audio))
}
