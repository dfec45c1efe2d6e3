// Package server wires the session, adapters, and middleware chain into a
// single http.Handler.
package server

import (
	"log/slog"
	"net/http"

	"github.com/voxquery/voxquery/pkg/agent"
	"github.com/voxquery/voxquery/pkg/gateway/config"
	"github.com/voxquery/voxquery/pkg/gateway/handlers"
	"github.com/voxquery/voxquery/pkg/gateway/mw"
	"github.com/voxquery/voxquery/pkg/gateway/ratelimit"
	"github.com/voxquery/voxquery/pkg/session"
	"github.com/voxquery/voxquery/pkg/voice/stt"
	"github.com/voxquery/voxquery/pkg/voice/tts"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux

	session *session.Session
	limiter *ratelimit.Limiter
}

func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	// Without the upstream credential, upload still works but no agent is
	// bound; the speech adapters report the missing key themselves.
	var binder session.Binder
	if cfg.SpeechEnabled() {
		binder = agent.NewOpenAI(cfg.OpenAIAPIKey, cfg.AgentModel, cfg.PromptRowLimit)
	}
	transcriber := stt.NewOpenAI(cfg.OpenAIAPIKey, cfg.STTModel)
	synthesizer := tts.NewOpenAI(cfg.OpenAIAPIKey, cfg.TTSModel, cfg.TTSVoice, cfg.TTSFormat)

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		mux:     http.NewServeMux(),
		session: session.New(binder, transcriber, synthesizer, logger),
		limiter: ratelimit.New(ratelimit.Config{
			RPS:                   cfg.LimitRPS,
			Burst:                 cfg.LimitBurst,
			MaxConcurrentRequests: cfg.LimitMaxConcurrentRequests,
		}),
	}

	s.routes()
	return s
}

// Session exposes the active session, primarily for tests and readiness.
func (s *Server) Session() *session.Session {
	return s.session
}

func (s *Server) routes() {
	s.mux.Handle("/healthz", handlers.HealthHandler{})
	s.mux.Handle("/readyz", handlers.ReadyHandler{Config: s.cfg, Session: s.session})

	s.mux.Handle("/", handlers.IndexHandler{})
	s.mux.Handle("/upload_csv", handlers.UploadHandler{Config: s.cfg, Session: s.session})
	s.mux.Handle("/voice_query", handlers.VoiceQueryHandler{Config: s.cfg, Session: s.session})
	s.mux.Handle("/text_query", handlers.TextQueryHandler{Config: s.cfg, Session: s.session})
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.Timeout(s.cfg.HandlerTimeout, h)
	h = mw.RateLimit(s.limiter, h)
	h = mw.Auth(s.cfg, h)
	h = mw.CORS(s.cfg, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}
