package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2,
	}
}

var (
	okReply   = MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	downReply = MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	junkReply = MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`junk`), Err: errors.New("junk")}}
)

func TestWithRetry_Attempts(t *testing.T) {
	tests := []struct {
		name      string
		script    []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{okReply}, false, 1},
		{"outage then success", []MockResponse{downReply, okReply}, false, 2},
		{"outage exhausts attempts", []MockResponse{downReply, downReply, downReply, okReply}, true, 3},
		{"rate limit waits Retry-After", []MockResponse{
			{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, okReply,
		}, false, 2},
		{"invalid response resent once", []MockResponse{junkReply, junkReply, okReply}, true, 2},
		{"invalid then valid", []MockResponse{junkReply, okReply}, false, 2},
		{"rejected is final", []MockResponse{
			{Err: &ErrRequestRejected{Status: 401, Err: errors.New("bad key")}}, okReply,
		}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", resp.Content)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(resp.Content) != `{"ok":true}` {
					t.Errorf("content = %s", resp.Content)
				}
			}
			if got := mock.CallCount(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestWithRetry_TruncationKeepsPartialContent(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"text":"2x+`), StopReason: StopMaxTokens},
		okReply,
	)

	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	var truncated *ErrTruncated
	if !errors.As(err, &truncated) {
		t.Fatalf("err = %T (%v), want *ErrTruncated", err, err)
	}
	if string(truncated.Content) != `{"text":"2x+` {
		t.Errorf("partial content = %s", truncated.Content)
	}
	if mock.CallCount() != 1 {
		t.Errorf("truncation was retried: %d calls", mock.CallCount())
	}
}

func TestWithRetry_CanceledContext(t *testing.T) {
	mock := NewMockProvider(downReply, downReply, okReply)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := WithRetry(mock, fastRetry()).Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error after cancellation")
	}
	if mock.CallCount() > 1 {
		t.Errorf("kept calling after cancellation: %d calls", mock.CallCount())
	}
}

func TestWithRetry_ZeroConfig(t *testing.T) {
	mock := NewMockProvider(okReply)
	p := WithRetry(mock, RetryConfig{})

	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d", mock.CallCount())
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{fmt.Errorf("ocr: %w", context.DeadlineExceeded), false},
		{&ErrTruncated{}, false},
		{&ErrRequestRejected{Status: 400}, false},
		{&ErrRateLimit{}, true},
		{&ErrProviderUnavailable{}, true},
		{&ErrInvalidResponse{Err: errors.New("x")}, true},
	}
	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Errorf("Retryable(%T %v) = %v, want %v", tt.err, tt.err, got, tt.want)
		}
	}
}

func TestRetryConfig_DelayCapped(t *testing.T) {
	cfg := RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 150 * time.Millisecond, Multiplier: 2}
	for attempt := 1; attempt <= 5; attempt++ {
		d := cfg.delay(attempt, errors.New("down"))
		if d < 0 || d > 180*time.Millisecond {
			t.Fatalf("attempt %d: delay %s outside jittered cap", attempt, d)
		}
	}
	if d := cfg.delay(1, &ErrRateLimit{RetryAfter: 3 * time.Second}); d != 3*time.Second {
		t.Fatalf("rate limit delay = %s, want Retry-After", d)
	}
}
