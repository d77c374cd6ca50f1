// Command trustctl scores bundles, replays stored decisions and manages
// scoring policies and service tokens from the command line.
package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"trustgate/internal/verification/scoring"
)

func main() {
	cobra.CheckErr(newRootCmd().Execute())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "trustctl",
		Short:         "Operate the trustgate verification engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newScoreCmd(),
		newReplayCmd(),
		newPolicyCmd(),
		newTokenCmd(),
	)
	return root
}

// policyFromFlag loads path, or returns the built-in policy when path is empty.
func policyFromFlag(path string) (scoring.Policy, error) {
	if path == "" {
		return scoring.DefaultPolicy(), nil
	}
	return scoring.LoadPolicyFile(path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
