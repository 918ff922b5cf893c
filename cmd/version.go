package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set with -ldflags "-X github.com/abhisek/mathsolver/cmd.version=v1.2.3".
var version string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mathsolver version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "mathsolver", currentVersion())
	},
}

// currentVersion prefers the linker-set version, then the module version
// recorded by go install.
func currentVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "(devel)"
}
