// Package session holds the process-wide (table, agent) pair and sequences
// upload, transcription, query, and synthesis for each request.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/voxquery/voxquery/pkg/core"
	"github.com/voxquery/voxquery/pkg/dataset"
)

// Agent answers natural-language questions about the table it was bound to.
type Agent interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Binder constructs an Agent over a freshly loaded table.
type Binder interface {
	Bind(ctx context.Context, table *dataset.Table) (Agent, error)
}

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer converts answer text to encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Session is the single active (table, agent) pair. Mutation and binding
// reads are guarded by mu; blocking upstream calls run against an immutable
// snapshot taken under the lock, stamped with the generation that produced
// it, so an in-flight query can never observe a torn pair.
type Session struct {
	binder Binder
	stt    Transcriber
	tts    Synthesizer
	logger *slog.Logger

	mu    sync.Mutex
	gen   uint64
	table *dataset.Table
	agent Agent
}

// New creates an empty session. binder may be nil when no credential is
// configured; upload still works, queries then report an unbound agent.
func New(binder Binder, stt Transcriber, tts Synthesizer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{binder: binder, stt: stt, tts: tts, logger: logger}
}

// UploadInfo describes the table installed by a successful upload.
type UploadInfo struct {
	Rows        int
	Columns     int
	ColumnNames []string
	Generation  uint64
}

// QueryResult is the outcome of one question. Err is nil on success; Audio
// may be empty even on success when synthesis is unavailable.
type QueryResult struct {
	Question   string
	Answer     string
	Audio      []byte
	Generation uint64
	Err        error
}

// Success reports whether the query produced an answer.
func (r QueryResult) Success() bool {
	return r.Err == nil
}

// Upload replaces the current table/agent pair with one built from data.
// The previous pair is discarded before the new one is attempted; any
// failure leaves the session empty.
func (s *Session) Upload(ctx context.Context, data []byte, filename string) (UploadInfo, error) {
	s.clear()

	table, err := dataset.Load(data, filename)
	if err != nil {
		return UploadInfo{}, err
	}

	var agent Agent
	if s.binder != nil {
		agent, err = s.binder.Bind(ctx, table)
		if err != nil {
			return UploadInfo{}, err
		}
	}

	s.mu.Lock()
	s.table = table
	s.agent = agent
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.logger.Info("table loaded",
		"file", table.Name(),
		"rows", table.Rows(),
		"columns", table.Cols(),
		"generation", gen,
	)

	return UploadInfo{
		Rows:        table.Rows(),
		Columns:     table.Cols(),
		ColumnNames: table.ColumnNames(),
		Generation:  gen,
	}, nil
}

// Ask answers a text question against the current binding. The session state
// is unchanged regardless of per-question success or failure.
func (s *Session) Ask(ctx context.Context, question string) QueryResult {
	question = strings.TrimSpace(question)
	res := QueryResult{Question: question}

	agent, gen, hasTable := s.binding()
	if !hasTable {
		res.Err = core.NewNoSession()
		return res
	}
	if agent == nil {
		res.Err = core.New(core.ErrAgentBind, "Agent not initialized")
		return res
	}
	res.Generation = gen

	answer, err := agent.Ask(ctx, question)
	if err != nil {
		res.Err = asKind(err, core.ErrAgentInvocation)
		return res
	}
	res.Answer = answer
	res.Audio = s.speak(ctx, answer)
	return res
}

// AskVoice transcribes audio and then behaves like Ask. An empty session
// short-circuits before the transcriber is touched; transcription failure or
// an empty transcript short-circuits without touching the agent.
func (s *Session) AskVoice(ctx context.Context, audio []byte) QueryResult {
	if s.Empty() {
		return QueryResult{Err: core.NewNoSession()}
	}
	if s.stt == nil {
		return QueryResult{Err: core.New(core.ErrTranscription, "Speech recognition failed: transcription is not configured")}
	}

	question, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		return QueryResult{Err: recognitionFailure(err)}
	}
	if strings.TrimSpace(question) == "" {
		return QueryResult{Err: core.New(core.ErrTranscription, "Speech recognition failed: no speech detected")}
	}

	return s.Ask(ctx, question)
}

// Empty reports whether no table is loaded.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table == nil
}

// Generation returns the identifier of the current binding; zero when no
// upload has ever succeeded.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Session) clear() {
	s.mu.Lock()
	s.table = nil
	s.agent = nil
	s.mu.Unlock()
}

func (s *Session) binding() (agent Agent, gen uint64, hasTable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent, s.gen, s.table != nil
}

// speak synthesizes answer audio on a best-effort basis. Synthesis failure
// degrades to a text-only answer.
func (s *Session) speak(ctx context.Context, text string) []byte {
	if s.tts == nil {
		return nil
	}
	audio, err := s.tts.Synthesize(ctx, text)
	if err != nil {
		s.logger.Warn("answer synthesis failed, returning text only", "error", err)
		return nil
	}
	return audio
}

func recognitionFailure(err error) error {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return core.Wrap(core.ErrTranscription, fmt.Sprintf("Speech recognition failed: %s", coreErr.Message), coreErr.Err)
	}
	return core.Wrap(core.ErrTranscription, "Speech recognition failed", err)
}

func asKind(err error, kind core.ErrorKind) error {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr
	}
	return core.Wrap(kind, "", err)
}
