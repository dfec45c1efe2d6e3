package handlers

import (
	_ "embed"
	"net/http"

	"github.com/voxquery/voxquery/pkg/gateway/apierror"
)

//go:embed index.html
var indexPage []byte

// IndexHandler serves the single-page browser client.
type IndexHandler struct{}

func (h IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeFailure(w, http.StatusNotFound, apierror.Envelope{Error: "not found"})
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeMethodNotAllowed(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(indexPage)
	}
}
