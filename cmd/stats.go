package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show solving statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.StatsRepo().Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Problems attempted:  %d\n", st.Attempts)
		fmt.Fprintf(out, "Problems solved:     %d\n", st.ProblemsSolved)
		fmt.Fprintf(out, "Images processed:    %d\n", st.ImagesProcessed)
		fmt.Fprintf(out, "Success rate:        %d%%\n", st.SuccessRate())
		return nil
	},
}
