// Package handlers implements the HTTP endpoints: the index page, CSV
// upload, and the two query surfaces.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/voxquery/voxquery/pkg/gateway/apierror"
	"github.com/voxquery/voxquery/pkg/session"
)

// queryResponse is the success body shared by /voice_query and /text_query.
// Audio is base64-encoded and empty when synthesis produced nothing.
type queryResponse struct {
	Success  bool   `json:"success"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Audio    string `json:"audio"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeFailure(w http.ResponseWriter, status int, env apierror.Envelope) {
	env.Success = false
	writeJSON(w, status, env)
}

func writeErrorJSON(w http.ResponseWriter, err error) {
	env, status := apierror.FromError(err)
	writeFailure(w, status, env)
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeFailure(w, http.StatusMethodNotAllowed, apierror.Envelope{Error: "method not allowed"})
}

// writeQueryResult maps a session query outcome to the wire. Failures carry
// the question only when a transcript or submitted question exists.
func writeQueryResult(w http.ResponseWriter, res session.QueryResult) {
	if !res.Success() {
		env, status := apierror.FromError(res.Err)
		env.Question = res.Question
		writeFailure(w, status, env)
		return
	}
	writeJSON(w, http.StatusOK, queryResponse{
		Success:  true,
		Question: res.Question,
		Answer:   res.Answer,
		Audio:    base64.StdEncoding.EncodeToString(res.Audio),
	})
}
