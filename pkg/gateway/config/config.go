// Package config loads gateway configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AuthMode string

const (
	AuthModeRequired AuthMode = "required"
	AuthModeOptional AuthMode = "optional"
	AuthModeDisabled AuthMode = "disabled"
)

type Config struct {
	Addr string

	// OpenAIAPIKey is the single upstream credential. Absence disables the
	// speech and reasoning features but not file upload.
	OpenAIAPIKey string

	AuthMode AuthMode
	APIKeys  map[string]struct{}

	MaxBodyBytes int64

	// Fixed upstream identifiers.
	AgentModel string
	STTModel   string
	TTSModel   string
	TTSVoice   string
	TTSFormat  string

	// Data rows embedded in the agent prompt.
	PromptRowLimit int

	// CORS
	CORSAllowedOrigins map[string]struct{} // empty => disabled

	// In-memory limits (per principal).
	LimitRPS                   float64
	LimitBurst                 int
	LimitMaxConcurrentRequests int

	// Operational defaults
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	HandlerTimeout      time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                       ":" + envOr("PORT", "5000"),
		OpenAIAPIKey:               strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		AuthMode:                   AuthMode(envOr("VOXQUERY_AUTH_MODE", string(AuthModeDisabled))),
		APIKeys:                    make(map[string]struct{}),
		MaxBodyBytes:               envInt64Or("VOXQUERY_MAX_BODY_BYTES", 16<<20), // 16 MiB
		AgentModel:                 envOr("VOXQUERY_AGENT_MODEL", "gpt-4o-mini"),
		STTModel:                   envOr("VOXQUERY_STT_MODEL", "whisper-1"),
		TTSModel:                   envOr("VOXQUERY_TTS_MODEL", "tts-1"),
		TTSVoice:                   envOr("VOXQUERY_TTS_VOICE", "alloy"),
		TTSFormat:                  envOr("VOXQUERY_TTS_FORMAT", "mp3"),
		PromptRowLimit:             envIntOr("VOXQUERY_PROMPT_ROW_LIMIT", 200),
		CORSAllowedOrigins:         make(map[string]struct{}),
		LimitRPS:                   envFloat64Or("VOXQUERY_RATE_LIMIT_RPS", 0),
		LimitBurst:                 envIntOr("VOXQUERY_RATE_LIMIT_BURST", 0),
		LimitMaxConcurrentRequests: envIntOr("VOXQUERY_MAX_CONCURRENT_REQUESTS", 0),
		ReadHeaderTimeout:          envDurationOr("VOXQUERY_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:                envDurationOr("VOXQUERY_READ_TIMEOUT", 60*time.Second),
		HandlerTimeout:             envDurationOr("VOXQUERY_REQUEST_TIMEOUT", 2*time.Minute),
		ShutdownGracePeriod:        envDurationOr("VOXQUERY_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}

	port := strings.TrimPrefix(cfg.Addr, ":")
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return Config{}, fmt.Errorf("PORT must be a port number, got %q", port)
	}

	switch cfg.AuthMode {
	case AuthModeRequired, AuthModeOptional, AuthModeDisabled:
	default:
		return Config{}, fmt.Errorf("VOXQUERY_AUTH_MODE must be one of required|optional|disabled")
	}

	for _, key := range splitCSV(os.Getenv("VOXQUERY_API_KEYS")) {
		cfg.APIKeys[key] = struct{}{}
	}
	for _, origin := range splitCSV(os.Getenv("VOXQUERY_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("VOXQUERY_MAX_BODY_BYTES must be > 0")
	}
	if cfg.PromptRowLimit <= 0 {
		return Config{}, fmt.Errorf("VOXQUERY_PROMPT_ROW_LIMIT must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("VOXQUERY_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ReadTimeout <= 0 {
		return Config{}, fmt.Errorf("VOXQUERY_READ_TIMEOUT must be > 0")
	}
	if cfg.HandlerTimeout <= 0 {
		return Config{}, fmt.Errorf("VOXQUERY_REQUEST_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("VOXQUERY_SHUTDOWN_GRACE_PERIOD must be > 0")
	}
	if cfg.LimitRPS < 0 {
		return Config{}, fmt.Errorf("VOXQUERY_RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.LimitBurst < 0 {
		return Config{}, fmt.Errorf("VOXQUERY_RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.LimitMaxConcurrentRequests < 0 {
		return Config{}, fmt.Errorf("VOXQUERY_MAX_CONCURRENT_REQUESTS must be >= 0")
	}

	if cfg.AuthMode == AuthModeRequired && len(cfg.APIKeys) == 0 {
		return Config{}, fmt.Errorf("VOXQUERY_API_KEYS must be set when VOXQUERY_AUTH_MODE=required")
	}

	return cfg, nil
}

// SpeechEnabled reports whether the upstream credential is configured.
func (c Config) SpeechEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64Or(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envIntOr(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envFloat64Or(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
