package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsolver/internal/logger"
	"github.com/abhisek/mathsolver/internal/store"
)

// isolate points the database and config at a temp dir and hides any
// API keys from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MATHSOLVER_DB", filepath.Join(dir, "test.db"))
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"MATHSOLVER_LLM_PROVIDER", "MATHSOLVER_ANTHROPIC_API_KEY", "MATHSOLVER_OPENAI_API_KEY",
		"MATHSOLVER_GEMINI_API_KEY", "MATHSOLVER_OPENROUTER_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	logger.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return dir
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSolveCmd_Text(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "solve", "2x", "+", "5", "=", "13")
	require.NoError(t, err)
	assert.Contains(t, out, "Problem: 2x + 5 = 13")
	assert.Contains(t, out, "Answer:  x = 4")
	assert.Contains(t, out, "Steps")
}

func TestSolveCmd_StdinJSON(t *testing.T) {
	isolate(t)
	out, err := run(t, "12 ÷ 4 + 3 × 2\n", "solve", "--json")
	require.NoError(t, err)

	var got struct {
		Text           string `json:"text"`
		Source         string `json:"source"`
		Ref            string `json:"ref"`
		Classification struct {
			Family string `json:"family"`
		} `json:"classification"`
		Result struct {
			Status string `json:"status"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, "12 ÷ 4 + 3 × 2", got.Text)
	assert.Equal(t, "text", got.Source)
	assert.Equal(t, "arithmetic", got.Classification.Family)
	assert.Equal(t, "success", got.Result.Status)
	assert.NotEmpty(t, got.Ref)
}

func TestSolveCmd_Failure(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "solve", "2+3 apples")
	require.NoError(t, err)
	assert.Contains(t, out, "Could not solve: equation not identified")
}

func TestSolveCmd_Errors(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "solve")
	assert.ErrorContains(t, err, "empty")

	_, err = run(t, "", "solve", "--image", "x.png", "1+1")
	assert.ErrorContains(t, err, "not both")

	_, err = run(t, "", "solve", "--image", "nope.png")
	assert.ErrorContains(t, err, "not configured")
}

func TestHistoryAndStatsCmds(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "solve", "1+1")
	require.NoError(t, err)
	_, err = run(t, "", "solve", "--no-history", "2+2")
	require.NoError(t, err)
	_, err = run(t, "", "solve", "2+3 apples")
	require.NoError(t, err)

	out, err := run(t, "", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1+1")
	assert.Contains(t, out, "2+3 apples")
	assert.NotContains(t, out, "2+2")

	out, err = run(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Problems attempted:  3")
	assert.Contains(t, out, "Problems solved:     2")
	assert.Contains(t, out, "Success rate:        66%")

	out, err = run(t, "", "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared.")

	out, err = run(t, "", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No problems in history.")
}

func TestHistoryViewCmd(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "solve", "--json", "(3+4)*2")
	require.NoError(t, err)
	var rep struct {
		Ref string `json:"ref"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	out, err = run(t, "", "history", "view", rep.Ref[:8])
	require.NoError(t, err)
	assert.Contains(t, out, rep.Ref)
	assert.Contains(t, out, "Answer:  14")

	_, err = run(t, "", "history", "view", "zzzz")
	assert.ErrorContains(t, err, "not found")
}

func TestResetCmd(t *testing.T) {
	isolate(t)
	_, err := run(t, "", "solve", "1+1")
	require.NoError(t, err)

	out, err := run(t, "n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = run(t, "", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "reset")

	out, err = run(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Problems attempted:  0")
	assert.Contains(t, out, "Success rate:        100%")
}

func TestClassifyCmd(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "classify", "площадь круга")
	require.NoError(t, err)
	assert.Contains(t, out, "Family:      geometry")

	out, err = run(t, "", "classify", "--json", "2x+5=13")
	require.NoError(t, err)
	assert.Contains(t, out, `"family": "algebra"`)
	assert.Contains(t, out, `"has_equation": true`)
}

func TestConfigFileDBPath(t *testing.T) {
	dir := isolate(t)
	t.Setenv("MATHSOLVER_DB", "")
	dbPath := filepath.Join(dir, "nested", "from-config.db")
	cfgPath := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db_path = \""+filepath.ToSlash(dbPath)+"\"\n"), 0o600))

	_, err := run(t, "", "--config", cfgPath, "solve", "1+1")
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestLLMListCmd_Empty(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "llm", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM requests recorded.")
}

func seedLLMEvents(t *testing.T, dir string) {
	t.Helper()
	s, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o-mini", Purpose: "ocr",
		InputTokens: 1_000_000, OutputTokens: 1_000_000, LatencyMs: 900, Success: true,
		RequestBody: "[subject: board.jpg]", ResponseBody: `{"text":"2x=8","confidence":0.9}`,
	}))
	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "ocr",
		LatencyMs: 5, Success: false, ErrorMessage: "LLM provider unavailable",
	}))
}

func TestLLMListCmd(t *testing.T) {
	dir := isolate(t)
	seedLLMEvents(t, dir)

	out, err := run(t, "", "llm", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "$0.75")
	assert.Contains(t, out, "✗")

	out, err = run(t, "", "llm", "list", "--failed", "--json")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "mock", rows[0]["model"])
	assert.Equal(t, "LLM provider unavailable", rows[0]["error"])
}

func TestLLMViewAndStatsCmds(t *testing.T) {
	dir := isolate(t)
	seedLLMEvents(t, dir)

	out, err := run(t, "", "llm", "view", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Provider:  openai")
	assert.Contains(t, out, "[subject: board.jpg]")
	assert.Contains(t, out, "(not captured)")

	_, err = run(t, "", "llm", "view", "99")
	assert.ErrorContains(t, err, "event 99 not found")
	_, err = run(t, "", "llm", "view", "abc")
	assert.ErrorContains(t, err, "invalid event ID")

	out, err = run(t, "", "llm", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage by purpose")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: mock")
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "mathsolver "+currentVersion()+"\n", out)

	version = "v1.2.3"
	t.Cleanup(func() { version = "" })
	assert.Equal(t, "v1.2.3", currentVersion())
}
