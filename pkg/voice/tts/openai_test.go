package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3/option"

	"github.com/voxquery/voxquery/pkg/core"
)

func TestSynthesize_MissingKeyFailsWithoutNetwork(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	p := NewOpenAI("", "", "", "", option.WithBaseURL(srv.URL))
	_, err := p.Synthesize(context.Background(), "hello")

	var coreErr *core.Error
	if !errors.As(err, &coreErr) || coreErr.Kind != core.ErrSynthesis {
		t.Fatalf("err = %v, want synthesis_failure", err)
	}
	if calls != 0 {
		t.Fatal("missing-credential failure must not contact the service")
	}
}

func TestSynthesize_ReturnsEncodedAudio(t *testing.T) {
	mp3 := []byte{0x49, 0x44, 0x33, 0x04, 0x00}
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("request body: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(mp3)
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", "", "", "", option.WithBaseURL(srv.URL))
	audio, err := p.Synthesize(context.Background(), "the answer is three")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(audio, mp3) {
		t.Fatalf("audio = %v, want raw body bytes", audio)
	}

	if captured["model"] != "tts-1" {
		t.Fatalf("model = %v", captured["model"])
	}
	if captured["voice"] != "alloy" {
		t.Fatalf("voice = %v", captured["voice"])
	}
	if captured["response_format"] != "mp3" {
		t.Fatalf("response_format = %v", captured["response_format"])
	}
	if captured["input"] != "the answer is three" {
		t.Fatalf("input = %v", captured["input"])
	}
}

func TestSynthesize_ServiceFaultIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited","type":"rate_limit_error"}}`)
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", "", "", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	_, err := p.Synthesize(context.Background(), "hello")

	var coreErr *core.Error
	if !errors.As(err, &coreErr) || coreErr.Kind != core.ErrSynthesis {
		t.Fatalf("err = %v, want synthesis_failure", err)
	}
}

func TestSynthesize_EmptyBodyIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", "", "", "", option.WithBaseURL(srv.URL))
	_, err := p.Synthesize(context.Background(), "hello")

	var coreErr *core.Error
	if !errors.As(err, &coreErr) || coreErr.Kind != core.ErrSynthesis {
		t.Fatalf("err = %v, want synthesis_failure", err)
	}
}
