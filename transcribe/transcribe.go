// Package transcribe turns recorded deal calls into narrative text for
// the analysis pipeline.
package transcribe

import (
	"context"

	"go.uber.org/zap"

	"dealflow/deal"
)

// Transcriber converts an audio recording into narrative text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// DemoTranscriber returns a canned multifamily narrative instead of
// calling a speech-to-text provider. It never fails, which keeps demo
// runs deterministic end to end.
type DemoTranscriber struct {
	log *zap.Logger
}

func NewDemoTranscriber(log *zap.Logger) *DemoTranscriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &DemoTranscriber{log: log}
}

func (t *DemoTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	t.log.Info("demo transcription served", zap.String("audio_path", audioPath))
	return deal.ExampleMultifamilyAustin, nil
}
