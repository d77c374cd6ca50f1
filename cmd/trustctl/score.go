package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"trustgate/internal/verification/scoring"
	"trustgate/internal/verification/summary"
)

type scoreOutput struct {
	Result  scoring.RiskResult `json:"result"`
	Summary summary.Summary    `json:"summary"`
}

func newScoreCmd() *cobra.Command {
	var policyPath string
	cmd := &cobra.Command{
		Use:   "score <bundle.json|->",
		Short: "Score a signal bundle offline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := policyFromFlag(policyPath)
			if err != nil {
				return err
			}
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			var b scoring.Bundle
			if err := json.Unmarshal(data, &b); err != nil {
				return fmt.Errorf("decode bundle: %w", err)
			}
			if err := b.Validate(); err != nil {
				return err
			}
			res := scoring.Evaluate(b, p).Result()
			return writeJSON(cmd.OutOrStdout(), scoreOutput{
				Result:  res,
				Summary: summary.FormatRiskSummary(res),
			})
		},
	}
	cmd.Flags().StringVar(&policyPath, "policy", "", "policy file (defaults to the built-in policy)")
	return cmd
}
