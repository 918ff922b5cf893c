package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsolver/internal/classify"
	"github.com/abhisek/mathsolver/internal/expr"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [problem...]",
	Short: "Show how a problem is classified without solving it",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		text, err := problemText(cmd, args)
		if err != nil {
			return err
		}

		cl := classify.Classify(text)
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(cl)
		}

		ops := "none"
		if names := cl.Operations.Names(); len(names) > 0 {
			ops = strings.Join(names, ", ")
		}
		fmt.Fprintf(out, "Problem:     %s\n", text)
		fmt.Fprintf(out, "Normalized:  %s\n", expr.Normalize(text))
		fmt.Fprintf(out, "Family:      %s\n", cl.Family)
		fmt.Fprintf(out, "Category:    %s\n", cl.Category)
		fmt.Fprintf(out, "Difficulty:  %s\n", cl.Difficulty)
		fmt.Fprintf(out, "Confidence:  %.0f%%\n", cl.Confidence*100)
		fmt.Fprintf(out, "Operations:  %s\n", ops)
		fmt.Fprintf(out, "Equation:    %v\n", cl.HasEquation)
		fmt.Fprintf(out, "Variables:   %v\n", cl.HasVariables)
		return nil
	},
}

func init() {
	classifyCmd.Flags().Bool("json", false, "Print the classification as JSON")
}
