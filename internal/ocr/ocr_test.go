package ocr

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsolver/internal/llm"
	"github.com/abhisek/mathsolver/internal/logger"
)

var (
	pngData  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegData = []byte("\xFF\xD8\xFF\xE0\x00\x10JFIF\x00")
	webpData = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
	gifData  = []byte("GIF89a\x01\x00\x01\x00")
)

func TestValidateImage_SniffsFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		mime string
	}{
		{"png", pngData, "image/png"},
		{"jpeg", jpegData, "image/jpeg"},
		{"webp", webpData, "image/webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ValidateImage(Image{Data: tt.data}, DefaultLimits())
			require.NoError(t, err)
			assert.Equal(t, tt.mime, img.MIMEType)
		})
	}
}

func TestValidateImage_Rejects(t *testing.T) {
	tests := []struct {
		name string
		img  Image
		lim  Limits
		want error
	}{
		{"empty", Image{}, DefaultLimits(), ErrEmptyImage},
		{"gif", Image{Data: gifData}, DefaultLimits(), ErrUnsupportedFormat},
		{"text", Image{Data: []byte("2x+5=13")}, DefaultLimits(), ErrUnsupportedFormat},
		{"declared pdf", Image{MIMEType: "application/pdf", Data: pngData}, DefaultLimits(), ErrUnsupportedFormat},
		{"too large", Image{Data: pngData}, Limits{MaxBytes: 4}, ErrImageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateImage(tt.img, tt.lim)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateImage_DeclaredJPGAccepted(t *testing.T) {
	img, err := ValidateImage(Image{MIMEType: "image/jpg", Data: jpegData}, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, "jpg", img.Format())
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.png")
	require.NoError(t, os.WriteFile(path, pngData, 0o644))

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "problem.png", img.Name)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, pngData, img.Data)

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func quietLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}

func TestRecognize(t *testing.T) {
	quietLogs(t)
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{"text": "  2x + 5 = 13\n", "confidence": 0.93}))
	r := NewLLMRecognizer(mock, DefaultConfig())

	rec, err := r.Recognize(context.Background(), Image{MIMEType: "image/png", Data: pngData})
	require.NoError(t, err)
	assert.Equal(t, "2x + 5 = 13", rec.Text)
	assert.InDelta(t, 0.93, rec.Confidence, 1e-9)
	assert.False(t, rec.LowConfidence)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, ResultSchema, req.Schema)
	require.Len(t, req.Messages, 1)
	require.Len(t, req.Messages[0].Images, 1)
	assert.Equal(t, "image/png", req.Messages[0].Images[0].MIMEType)
}

func TestRecognize_LowConfidenceWarns(t *testing.T) {
	buf := quietLogs(t)
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{"text": "3y-4=11", "confidence": 0.4}))
	r := NewLLMRecognizer(mock, DefaultConfig())

	rec, err := r.Recognize(context.Background(), Image{MIMEType: "image/png", Data: pngData})
	require.NoError(t, err)
	assert.True(t, rec.LowConfidence)
	assert.Contains(t, buf.String(), "low OCR confidence 0.40")
}

func TestRecognize_NoText(t *testing.T) {
	quietLogs(t)
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{"text": "   ", "confidence": 0}))
	r := NewLLMRecognizer(mock, DefaultConfig())

	_, err := r.Recognize(context.Background(), Image{MIMEType: "image/png", Data: pngData})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestRecognize_ProviderError(t *testing.T) {
	quietLogs(t)
	cause := &llm.ErrProviderUnavailable{Err: errors.New("offline")}
	mock := llm.NewMockProvider(llm.MockResponse{Err: cause})
	r := NewLLMRecognizer(mock, DefaultConfig())

	_, err := r.Recognize(context.Background(), Image{MIMEType: "image/png", Data: pngData})
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

func TestRecognize_SchemaViolation(t *testing.T) {
	quietLogs(t)
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{"text": "1+1", "confidence": 3}))
	r := NewLLMRecognizer(mock, DefaultConfig())

	_, err := r.Recognize(context.Background(), Image{MIMEType: "image/png", Data: pngData})
	var invalid *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

// deadlineProvider records the deadline and purpose it was called with.
type deadlineProvider struct {
	deadline time.Time
	purpose  string
	subject  string
}

func (p *deadlineProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.deadline, _ = ctx.Deadline()
	p.purpose = llm.PurposeFrom(ctx)
	p.subject = llm.SubjectFrom(ctx)
	return &llm.Response{Content: []byte(`{"text":"1+1","confidence":1}`)}, nil
}

func (p *deadlineProvider) ModelID() string { return "deadline" }

func TestRecognize_TimeoutAndPurpose(t *testing.T) {
	quietLogs(t)
	p := &deadlineProvider{}
	cfg := DefaultConfig()
	cfg.Timeout = time.Minute
	r := NewLLMRecognizer(p, cfg)

	start := time.Now()
	_, err := r.Recognize(context.Background(), Image{Name: "page1.png", MIMEType: "image/png", Data: pngData})
	require.NoError(t, err)
	assert.Equal(t, Purpose, p.purpose)
	assert.Equal(t, "page1.png", p.subject)
	assert.WithinDuration(t, start.Add(time.Minute), p.deadline, 5*time.Second)
}
