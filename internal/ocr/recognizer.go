// Package ocr turns pictures of math problems into text with a
// vision-capable LLM.
package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/mathsolver/internal/llm"
	"github.com/abhisek/mathsolver/internal/logger"
)

// Purpose labels OCR requests in the LLM event log.
const Purpose = "ocr"

// DefaultMinConfidence is the confidence below which a transcription is
// flagged as unreliable.
const DefaultMinConfidence = 0.6

// Recognition is the text read from an image.
type Recognition struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`

	// LowConfidence is set when Confidence is below the configured minimum.
	// The text is still usable.
	LowConfidence bool `json:"low_confidence"`
}

// Recognizer reads the math problem in an image.
type Recognizer interface {
	Recognize(ctx context.Context, img Image) (Recognition, error)
}

// Config controls an LLMRecognizer.
type Config struct {
	MinConfidence float64
	MaxTokens     int

	// Timeout bounds one Recognize call. Zero means no extra deadline.
	Timeout time.Duration
}

// DefaultConfig returns the recognizer defaults.
func DefaultConfig() Config {
	return Config{
		MinConfidence: DefaultMinConfidence,
		MaxTokens:     512,
		Timeout:       60 * time.Second,
	}
}

// LLMRecognizer implements Recognizer on top of an llm.Provider.
type LLMRecognizer struct {
	provider llm.Provider
	config   Config
}

// NewLLMRecognizer creates an LLMRecognizer.
func NewLLMRecognizer(provider llm.Provider, cfg Config) *LLMRecognizer {
	return &LLMRecognizer{provider: provider, config: cfg}
}

type recognitionOutput struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func (r *LLMRecognizer) Recognize(ctx context.Context, img Image) (Recognition, error) {
	ctx = llm.WithPurpose(ctx, Purpose)
	if img.Name != "" {
		ctx = llm.WithSubject(ctx, img.Name)
	}
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	req := llm.ImageRequest(systemPrompt, userPrompt, ResultSchema, r.config.MaxTokens, img.toLLM())

	logger.Debug("ocr: sending %s (%d bytes) to %s", img.MIMEType, len(img.Data), r.provider.ModelID())
	resp, err := r.provider.Generate(ctx, req)
	if err != nil {
		return Recognition{}, fmt.Errorf("text recognition failed: %w", err)
	}

	var raw recognitionOutput
	if err := llm.Decode(resp, &raw); err != nil {
		return Recognition{}, fmt.Errorf("text recognition failed: %w", err)
	}

	rec := Recognition{
		Text:       strings.TrimSpace(raw.Text),
		Confidence: raw.Confidence,
	}
	if rec.Text == "" {
		return rec, ErrNoText
	}
	if rec.Confidence < r.config.MinConfidence {
		rec.LowConfidence = true
		logger.Warn("low OCR confidence %.2f for %q", rec.Confidence, rec.Text)
	}
	logger.Debug("ocr: text=%q confidence=%.2f", rec.Text, rec.Confidence)
	return rec, nil
}
