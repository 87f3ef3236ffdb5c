package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prefrankctl",
	Short: "Command-line client for the preference ranking engine",
	Long: `prefrankctl drives the pairwise-preference ranking engine from the
command line: register items, record judgments, and inspect the resulting
ranking and confidence metrics for a project/dimension without standing up
a server.

State lives in a JSON file (--state, default .prefrank-state.json in the
current directory) so that separate invocations of seed/judge/rank/progress
against the same project accumulate judgments across process runs.`,
}

func main() {
	rootCmd.PersistentFlags().String("state", ".prefrank-state.json", "path to the JSON state file")

	rootCmd.AddCommand(
		seedCmd(),
		judgeCmd(),
		rankCmd(),
		progressCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
