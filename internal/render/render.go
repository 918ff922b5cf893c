// Package render formats solver outcomes for people: plain text for the
// command line and lipgloss-styled blocks for the TUI.
package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsolver/internal/problem"
	"github.com/abhisek/mathsolver/internal/solver"
	"github.com/abhisek/mathsolver/internal/ui/theme"
)

// SoftSuggestion replaces the answer line when an equation was recognized
// but its value could not be derived.
const SoftSuggestion = "Could not isolate the unknown; try rewriting the equation in a simpler linear form"

// styles lets Text and Styled share one layout.
type styles struct {
	label, answer, soft, failed, step, hint func(string) string
}

var plain = styles{
	label:  identity,
	answer: identity,
	soft:   identity,
	failed: identity,
	step:   func(s string) string { return "  " + s },
	hint:   identity,
}

func identity(s string) string { return s }

func themed() styles {
	return styles{
		label:  renderWith(theme.Label),
		answer: renderWith(theme.Answer),
		soft:   renderWith(theme.Soft),
		failed: renderWith(theme.Failed),
		step:   renderWith(theme.Step),
		hint:   renderWith(theme.Hint),
	}
}

func renderWith(st lipgloss.Style) func(string) string {
	return func(s string) string { return st.Render(s) }
}

// Text renders an outcome without styling.
func Text(out solver.Outcome) string {
	return build(out, plain)
}

// Styled renders an outcome inside a card of the given width.
func Styled(out solver.Outcome, width int) string {
	body := build(out, themed())
	card := theme.Card
	if width > 4 {
		card = card.Width(width - 2)
	}
	return card.Render(body)
}

// Classification renders a one-line summary such as
// "algebra · equation · medium · 90%".
func Classification(cl problem.Classification) string {
	return fmt.Sprintf("%s · %s · %s · %.0f%%", cl.Family, cl.Category, cl.Difficulty, cl.Confidence*100)
}

func build(out solver.Outcome, st styles) string {
	var b strings.Builder

	b.WriteString(st.label("Problem: "))
	b.WriteString(out.Text)
	b.WriteString("\n")
	b.WriteString(st.label("Type:    "))
	b.WriteString(Classification(out.Classification))
	if ops := out.Classification.Operations; !ops.Empty() {
		b.WriteString("\n")
		b.WriteString(st.label("Uses:    "))
		b.WriteString(strings.Join(ops.Names(), ", "))
	}
	b.WriteString("\n\n")

	switch r := out.Result.(type) {
	case *solver.Success:
		writeSuccess(&b, r, st)
	case *solver.Failure:
		b.WriteString(st.failed("Could not solve: " + r.Reason))
		b.WriteString("\n")
		b.WriteString(st.hint("Original text: " + r.OriginalText))
		b.WriteString("\n")
		for _, sug := range solver.GuidanceSuggestions {
			b.WriteString(st.step("• " + sug))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeSuccess(b *strings.Builder, s *solver.Success, st styles) {
	switch p := s.Payload.(type) {
	case *solver.Guidance:
		b.WriteString(st.soft("Could not compute an answer for this problem."))
		b.WriteString("\n")
		for _, sug := range p.Suggestions {
			b.WriteString(st.step("• " + sug))
			b.WriteString("\n")
		}
		return
	default:
		if s.Undetermined() {
			b.WriteString(st.soft(SoftSuggestion))
		} else {
			b.WriteString(st.label("Answer:  "))
			b.WriteString(st.answer(s.Answer()))
		}
		b.WriteString("\n")
	}

	if len(s.Steps) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(st.label("Steps"))
	b.WriteString("\n")
	for i, step := range s.Steps {
		b.WriteString(st.step(fmt.Sprintf("%d. %s", i+1, step)))
		b.WriteString("\n")
	}
}
