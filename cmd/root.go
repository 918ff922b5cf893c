package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsolver/internal/app"
	"github.com/abhisek/mathsolver/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "mathsolver",
	Short: "Classify and solve math problems",
	Long: `mathsolver reads a math problem, typed or photographed, works out what kind
of problem it is and solves it step by step.

Run without arguments for the interactive app, or use "mathsolver solve".`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		v, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(v)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHSOLVER_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/mathsolver/config.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print diagnostic output to stderr")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// runApp opens the store, builds the pipeline, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.pipeline.CanReadImages() {
		fmt.Fprintln(cmd.ErrOrStderr(), "LLM provider not configured: image solving will be unavailable.")
	}

	return app.Run(app.Options{
		Pipeline: e.pipeline,
		History:  e.store.HistoryRepo(),
		Stats:    e.store.StatsRepo(),
	})
}
