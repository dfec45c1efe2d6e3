// Package tts synthesizes spoken answers through OpenAI's text-to-speech API.
package tts

import (
	"context"
	"io"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/voxquery/voxquery/pkg/core"
)

// Defaults applied when the corresponding config value is empty.
const (
	DefaultModel  = "tts-1"
	DefaultVoice  = "alloy"
	DefaultFormat = "mp3"
)

// OpenAIProvider implements text-to-speech over the OpenAI API with a fixed
// voice and output format.
type OpenAIProvider struct {
	client openai.Client
	model  string
	voice  string
	format string
	hasKey bool
}

// NewOpenAI creates a provider. An empty apiKey yields a provider whose
// Synthesize always reports the missing credential without any network call.
func NewOpenAI(apiKey, model, voice, format string, extra ...option.RequestOption) *OpenAIProvider {
	apiKey = strings.TrimSpace(apiKey)
	if model == "" {
		model = DefaultModel
	}
	if voice == "" {
		voice = DefaultVoice
	}
	if format == "" {
		format = DefaultFormat
	}
	opts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, extra...)
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
		voice:  voice,
		format: format,
		hasKey: apiKey != "",
	}
}

// Synthesize returns the encoded audio for text. Callers treat any error as
// "no audio available" and degrade to a text-only answer.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !p.hasKey {
		return nil, core.New(core.ErrSynthesis, "OpenAI API key not configured")
	}

	res, err := p.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(p.model),
		Voice:          openai.AudioSpeechNewParamsVoice(p.voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormat(p.format),
	})
	if err != nil {
		return nil, core.Wrap(core.ErrSynthesis, "speech synthesis request failed", err)
	}
	defer res.Body.Close()

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, core.Wrap(core.ErrSynthesis, "read synthesized audio", err)
	}
	if len(audio) == 0 {
		return nil, core.New(core.ErrSynthesis, "speech synthesis returned no audio")
	}
	return audio, nil
}
