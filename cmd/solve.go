package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsolver/internal/ocr"
	"github.com/abhisek/mathsolver/internal/pipeline"
	"github.com/abhisek/mathsolver/internal/render"
)

var solveCmd = &cobra.Command{
	Use:   "solve [problem...]",
	Short: "Solve a math problem",
	Long: `Solve a problem given as arguments, on stdin, or as an image.

Examples:
  mathsolver solve "2x + 5 = 13"
  mathsolver solve --image homework.png
  echo "12 ÷ 4 + 3 × 2" | mathsolver solve --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		imagePath, _ := cmd.Flags().GetString("image")
		asJSON, _ := cmd.Flags().GetBool("json")
		noHistory, _ := cmd.Flags().GetBool("no-history")

		if imagePath != "" && len(args) > 0 {
			return fmt.Errorf("give either problem text or --image, not both")
		}

		e, err := openEnv(cmd, noHistory)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		var rep *pipeline.Report
		if imagePath != "" {
			if !e.pipeline.CanReadImages() {
				return fmt.Errorf("%w: set an API key such as ANTHROPIC_API_KEY", pipeline.ErrNoRecognizer)
			}
			img, err := ocr.LoadImage(imagePath)
			if err != nil {
				return err
			}
			rep, err = e.pipeline.SolveImage(ctx, img)
			if err != nil {
				return err
			}
		} else {
			text, err := problemText(cmd, args)
			if err != nil {
				return err
			}
			rep, err = e.pipeline.SolveText(ctx, text)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		if rec := rep.Recognition; rec != nil {
			fmt.Fprintf(out, "Read from image (confidence %.0f%%)\n", rec.Confidence*100)
			if rec.LowConfidence {
				fmt.Fprintln(out, "The image was hard to read. Check the problem text below.")
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, render.Text(rep.Outcome))
		return nil
	},
}

// problemText joins args, or reads stdin when there are none.
func problemText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func init() {
	solveCmd.Flags().StringP("image", "i", "", "Solve the problem in this image file")
	solveCmd.Flags().Bool("json", false, "Print the result as JSON")
	solveCmd.Flags().Bool("no-history", false, "Do not save this problem to history")
}
