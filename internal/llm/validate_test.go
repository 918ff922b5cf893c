package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testOCRSchema() *Schema {
	return &Schema{
		Name:        "ocr-result",
		Description: "Text read from an image of a math problem",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":       map[string]any{"type": "string"},
				"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required":             []any{"text", "confidence"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"text":"2x+5=13","confidence":0.9}`, false},
		{"empty text is still valid JSON", `{"text":"","confidence":0}`, false},
		{"missing confidence", `{"text":"1+1"}`, true},
		{"confidence out of range", `{"text":"1+1","confidence":1.5}`, true},
		{"wrong type", `{"text":12,"confidence":0.5}`, true},
		{"extra property", `{"text":"1","confidence":0.5,"lang":"en"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testOCRSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
				if string(invErr.Content) != tt.raw {
					t.Fatalf("error content = %q, want raw response", invErr.Content)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`"plain text"`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_SchemaCachedByName(t *testing.T) {
	first := &Schema{
		Name: "cache-probe",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"a"},
		},
	}
	if err := validateResponse(first, json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for missing field")
	}

	// Same name, different definition: the cached compilation wins.
	second := &Schema{Name: "cache-probe", Definition: map[string]any{"type": "object"}}
	if err := validateResponse(second, json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected cached schema to still require field a")
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	err := Decode(&Response{Content: json.RawMessage(`{"text":"x^2=9","confidence":0.75}`)}, &out)
	if err != nil || out.Text != "x^2=9" || out.Confidence != 0.75 {
		t.Fatalf("Decode = %+v, %v", out, err)
	}

	var invalid *ErrInvalidResponse
	if err := Decode(&Response{Content: json.RawMessage(`[1,2]`)}, &out); !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
	if err := Decode(nil, &out); !errors.As(err, &invalid) {
		t.Fatalf("nil response: expected ErrInvalidResponse, got %T", err)
	}
}

func TestFinish(t *testing.T) {
	req := Request{Schema: testOCRSchema()}
	content := json.RawMessage(`{"text":"1+1","confidence":1}`)

	resp, err := finish(req, content, Usage{InputTokens: 3}, "m", StopEnd)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if resp.Model != "m" || resp.Usage.InputTokens != 3 || resp.StopReason != StopEnd {
		t.Fatalf("resp = %+v", resp)
	}

	var truncated *ErrTruncated
	if _, err := finish(req, content, Usage{}, "m", StopMaxTokens); !errors.As(err, &truncated) {
		t.Fatalf("expected ErrTruncated, got %T", err)
	}
}
