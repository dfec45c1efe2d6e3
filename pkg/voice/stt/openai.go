// Package stt transcribes recorded audio through OpenAI's speech-to-text API.
package stt

import (
	"context"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/voxquery/voxquery/internal/tmpfile"
	"github.com/voxquery/voxquery/pkg/core"
)

// DefaultModel is the transcription model used when none is configured.
const DefaultModel = "whisper-1"

// OpenAIProvider implements speech-to-text over the OpenAI API.
type OpenAIProvider struct {
	client openai.Client
	model  string
	hasKey bool
}

// NewOpenAI creates a provider. An empty apiKey yields a provider whose
// Transcribe always reports the missing credential without any network call.
func NewOpenAI(apiKey, model string, extra ...option.RequestOption) *OpenAIProvider {
	apiKey = strings.TrimSpace(apiKey)
	if model == "" {
		model = DefaultModel
	}
	opts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, extra...)
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
		hasKey: apiKey != "",
	}
}

// Transcribe stages audio to a temp file, submits it, and returns the
// recognized text. The staged file is removed on every exit path.
func (p *OpenAIProvider) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if !p.hasKey {
		return "", core.New(core.ErrTranscription, "OpenAI API key not configured")
	}

	var text string
	err := tmpfile.Run("voxquery-audio-*.wav", audio, func(path string) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		resp, err := p.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
			File:  f,
			Model: openai.AudioModel(p.model),
		})
		if err != nil {
			return err
		}
		text = resp.Text
		return nil
	})
	if err != nil {
		return "", core.Wrap(core.ErrTranscription, "Speech-to-text error", err)
	}
	return text, nil
}
