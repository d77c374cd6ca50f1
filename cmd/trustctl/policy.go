package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trustgate/internal/verification/scoring"
)

func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect scoring policies",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate <policy.yaml>",
			Short: "Check that a policy file would be accepted by the server",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := scoring.LoadPolicyFile(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "policy %s is valid\n", p.Version())
				return nil
			},
		},
		&cobra.Command{
			Use:   "default",
			Short: "Print the built-in policy as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				data, err := scoring.MarshalPolicy(scoring.DefaultPolicy())
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)
	return cmd
}
