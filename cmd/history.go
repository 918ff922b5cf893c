package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse previously solved problems",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent problems, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.HistoryRepo().Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No problems in history.")
			return nil
		}

		fmt.Fprintf(out, "%-8s  %-16s  %-11s  %-32s  %s\n", "Ref", "Time", "Family", "Problem", "Answer")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, e := range entries {
			mark := "✓"
			if !e.Success {
				mark = "✗"
			}
			fmt.Fprintf(out, "%-8s  %-16s  %-11s  %-32s  %s %s\n",
				truncate(e.Ref, 8),
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				e.Family,
				truncate(e.Problem, 32),
				mark,
				e.Summary,
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <ref>",
	Short: "Show the full solution of a history entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.HistoryRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get entry: %w", err)
		}
		if e == nil {
			return fmt.Errorf("history entry %q not found", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Ref:     %s\n", e.Ref)
		fmt.Fprintf(out, "Time:    %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Source:  %s\n", e.Source)
		fmt.Fprintln(out)
		fmt.Fprintln(out, e.Solution)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.HistoryRepo().Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyClearCmd)
}
