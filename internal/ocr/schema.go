package ocr

import "github.com/abhisek/mathsolver/internal/llm"

// ResultSchema is the structured output requested from the vision model.
var ResultSchema = &llm.Schema{
	Name:        "ocr-result",
	Description: "The math problem transcribed from an image",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The problem exactly as written, in plain text. Empty when the image holds no math problem.",
			},
			"confidence": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "How sure you are that the transcription is correct, from 0 to 1",
			},
		},
		"required":             []any{"text", "confidence"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You transcribe photographed or scanned math problems into plain text.

Rules:
- Reproduce the problem as written. Do not solve it.
- Use ASCII operators where possible: + - * / ^ = and parentheses.
- Keep any words of the problem statement in their original language.
- Join lines of one problem with a single space.
- If there is no math problem in the image, return an empty text with confidence 0.`

const userPrompt = "Transcribe the math problem in this image."
