// Package transcribe converts voice audio to text through the Whisper API.
package transcribe

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"taskdesk/pkg/logx"
)

// Transcriber converts audio bytes to text. Failure surfaces as an error
// with no fallback; the pipeline reports it to the user directly.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// Whisper implements Transcriber over the OpenAI transcription endpoint,
// pinned to a single language.
type Whisper struct {
	client   openai.Client
	language string
	logger   *logx.Logger
}

// NewWhisper creates a language-pinned Whisper transcriber.
func NewWhisper(apiKey, language string) *Whisper {
	return &Whisper{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		language: language,
		logger:   logx.NewLogger("transcribe"),
	}
}

// Transcribe implements the Transcriber interface.
func (w *Whisper) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	resp, err := w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model:    openai.AudioModelWhisper1,
		File:     audio,
		Language: openai.String(w.language),
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	if resp.Text == "" {
		return "", fmt.Errorf("transcription returned empty text")
	}

	w.logger.Info("voice transcribed: %d chars", len(resp.Text))
	return resp.Text, nil
}
