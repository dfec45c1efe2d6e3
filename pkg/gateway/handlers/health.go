package handlers

import (
	"net/http"

	"github.com/voxquery/voxquery/pkg/gateway/config"
	"github.com/voxquery/voxquery/pkg/session"
)

type HealthHandler struct{}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type ReadyHandler struct {
	Config  config.Config
	Session *session.Session
}

func (h ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type readyResp struct {
		OK            bool     `json:"ok"`
		AuthMode      string   `json:"auth_mode"`
		SpeechEnabled bool     `json:"speech_enabled"`
		LimitsEnabled bool     `json:"limits_enabled"`
		TableLoaded   bool     `json:"table_loaded"`
		Issues        []string `json:"issues,omitempty"`
	}

	issues := make([]string, 0, 4)

	switch h.Config.AuthMode {
	case config.AuthModeRequired, config.AuthModeOptional, config.AuthModeDisabled:
	default:
		issues = append(issues, "invalid auth_mode")
	}
	if h.Config.AuthMode == config.AuthModeRequired && len(h.Config.APIKeys) == 0 {
		issues = append(issues, "auth_mode=required but no api keys configured")
	}
	if h.Config.MaxBodyBytes <= 0 {
		issues = append(issues, "max_body_bytes must be > 0")
	}
	if h.Config.PromptRowLimit <= 0 {
		issues = append(issues, "prompt_row_limit must be > 0")
	}
	if h.Config.ReadHeaderTimeout <= 0 || h.Config.ReadTimeout <= 0 || h.Config.HandlerTimeout <= 0 {
		issues = append(issues, "timeouts must be > 0")
	}

	limitsEnabled := (h.Config.LimitRPS > 0 && h.Config.LimitBurst > 0) ||
		h.Config.LimitMaxConcurrentRequests > 0

	ok := len(issues) == 0
	status := http.StatusOK
	if !ok {
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, readyResp{
		OK:            ok,
		AuthMode:      string(h.Config.AuthMode),
		SpeechEnabled: h.Config.SpeechEnabled(),
		LimitsEnabled: limitsEnabled,
		TableLoaded:   h.Session != nil && !h.Session.Empty(),
		Issues:        issues,
	})
}
