package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/mathsolver/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"text":"1+1","confidence":0.9}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockJSON(map[string]any{"text": "2x=4", "confidence": 0.7}),
	)

	resp1, err := mock.Generate(context.Background(), Request{Schema: testOCRSchema()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Schema: testOCRSchema()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct{ Text string }
	if err := json.Unmarshal(resp2.Content, &got); err != nil || got.Text != "2x=4" {
		t.Fatalf("second response = %s (%v)", resp2.Content, err)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string]any{"text": "1+1"}))
	_, err := mock.Generate(context.Background(), Request{Schema: testOCRSchema()})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	img := Image{MIMEType: "image/png", Data: []byte("png")}
	_, _ = mock.Generate(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "read", Images: []Image{img}}},
	})

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" || len(mock.Calls[0].Messages[0].Images) != 1 {
		t.Fatalf("recorded call = %+v", mock.Calls[0])
	}
}

func TestImage_Encoding(t *testing.T) {
	img := Image{MIMEType: "image/png", Data: []byte("hi")}
	if img.Base64() != "aGk=" {
		t.Fatalf("Base64() = %q", img.Base64())
	}
	if img.DataURL() != "data:image/png;base64,aGk=" {
		t.Fatalf("DataURL() = %q", img.DataURL())
	}
}

func TestImageRequest(t *testing.T) {
	img := Image{MIMEType: "image/webp", Data: []byte("w")}
	req := ImageRequest("sys", "read", testOCRSchema(), 128, img)

	if req.System != "sys" || req.MaxTokens != 128 || req.Schema.Name != "ocr-result" {
		t.Fatalf("req = %+v", req)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != RoleUser || req.Messages[0].Content != "read" {
		t.Fatalf("messages = %+v", req.Messages)
	}
	if len(req.Messages[0].Images) != 1 || req.Messages[0].Images[0].MIMEType != "image/webp" {
		t.Fatalf("images = %+v", req.Messages[0].Images)
	}
}

func TestLabelContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	if s := SubjectFrom(ctx); s != "" {
		t.Fatalf("expected empty subject, got %q", s)
	}

	ctx = WithSubject(WithPurpose(ctx, "ocr"), "board.jpg")
	if p := PurposeFrom(ctx); p != "ocr" {
		t.Fatalf("expected 'ocr', got %q", p)
	}
	if s := SubjectFrom(ctx); s != "board.jpg" {
		t.Fatalf("expected 'board.jpg', got %q", s)
	}
}

// recordingRepo captures appended events in memory.
type recordingRepo struct {
	store.EventRepo
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"text":"1+1","confidence":1}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, "anthropic", repo)
	ctx := WithSubject(WithPurpose(context.Background(), "ocr"), "homework.jpg")

	req := Request{
		System:   "Transcribe.",
		Messages: []Message{{Role: RoleUser, Content: "read", Images: []Image{{MIMEType: "image/jpeg", Data: make([]byte, 42)}}}},
		Schema:   testOCRSchema(),
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("second call: expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(repo.events))
	}
	ok, failed := repo.events[0], repo.events[1]
	if ok.Provider != "anthropic" || ok.Model != "mock" || ok.Purpose != "ocr" {
		t.Errorf("event identity = %+v", ok)
	}
	if !ok.Success || ok.InputTokens != 7 || ok.OutputTokens != 3 {
		t.Errorf("success event = %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "<image image/jpeg, 42 bytes>") {
		t.Errorf("request body does not summarize image: %q", ok.RequestBody)
	}
	if !strings.HasPrefix(ok.RequestBody, "[subject: homework.jpg]") {
		t.Errorf("request body does not start with subject: %q", ok.RequestBody)
	}
	if !strings.Contains(ok.RequestBody, "[schema: ocr-result]") {
		t.Errorf("request body missing schema: %q", ok.RequestBody)
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("failure event = %+v", failed)
	}
}

func TestLoggingProvider_RepoErrorDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", repo)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.cfg.HasKey() == tt.wantErr {
				t.Fatalf("HasKey() disagrees with Validate()")
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MATHSOLVER_LLM_PROVIDER", "openai")
	t.Setenv("MATHSOLVER_OPENAI_API_KEY", "sk-env")
	t.Setenv("MATHSOLVER_OPENAI_MODEL", "gpt-4o")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-env" || cfg.OpenAI.Model != "gpt-4o" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Fatalf("unset values should keep defaults, got %q", cfg.Anthropic.Model)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "openai" {
		t.Fatalf("expected openai to win over anthropic, got %+v", cfg)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	if err != nil || p.ModelID() != "mock" {
		t.Fatalf("mock provider = %v, %v", p, err)
	}

	if _, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	if _, err := NewProvider(context.Background(), Config{Provider: "openai"}, nil); err == nil {
		t.Fatal("expected error for missing key")
	}

	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or"
	p, err = NewProvider(context.Background(), cfg, &recordingRepo{})
	if err != nil {
		t.Fatalf("openrouter: %v", err)
	}
	if p.ModelID() != "google/gemini-2.5-flash" {
		t.Fatalf("model = %q", p.ModelID())
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("cost = %v, want 0.75", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
