package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/voxquery/voxquery/pkg/core"
	"github.com/voxquery/voxquery/pkg/gateway/config"
	"github.com/voxquery/voxquery/pkg/session"
)

// UploadHandler accepts a CSV as multipart field "file" and installs it as
// the active session table.
type UploadHandler struct {
	Config  config.Config
	Session *session.Session
}

type uploadInfo struct {
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnNames []string `json:"column_names"`
}

type uploadResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Info    uploadInfo `json:"info"`
}

func (h UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxBodyBytes)

	part, header, err := r.FormFile("file")
	if err != nil {
		writeErrorJSON(w, core.NewUploadRejected("No file uploaded"))
		return
	}
	defer part.Close()

	if header.Filename == "" {
		writeErrorJSON(w, core.NewUploadRejected("No file selected"))
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeErrorJSON(w, core.NewUploadRejected("Only CSV files are allowed"))
		return
	}

	data, err := io.ReadAll(part)
	if err != nil {
		writeErrorJSON(w, core.Wrap(core.ErrUploadRejected, "Failed to read uploaded file", err))
		return
	}

	info, err := h.Session.Upload(r.Context(), data, header.Filename)
	if err != nil {
		writeErrorJSON(w, err)
		return
	}

	names := info.ColumnNames
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Success: true,
		Message: fmt.Sprintf("CSV loaded successfully! %d rows, %d columns", info.Rows, info.Columns),
		Info: uploadInfo{
			Rows:        info.Rows,
			Columns:     info.Columns,
			ColumnNames: names,
		},
	})
}
