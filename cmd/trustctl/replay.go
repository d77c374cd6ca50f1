package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trustgate/internal/platform/config"
	"trustgate/internal/platform/postgres"
	"trustgate/internal/verification/scoring"
	"trustgate/internal/verification/store/decision"
	policystore "trustgate/internal/verification/store/policy"
	id "trustgate/pkg/domain"
	"trustgate/pkg/platform/sentinel"
)

type replayOutput struct {
	DecisionID string             `json:"decision_id"`
	Original   scoring.RiskResult `json:"original"`
	Replayed   scoring.RiskResult `json:"replayed"`
	Changed    bool               `json:"changed"`
}

func newReplayCmd() *cobra.Command {
	var (
		policyPath string
		version    string
	)
	cmd := &cobra.Command{
		Use:   "replay <decision-id>",
		Short: "Rescore a stored decision under another policy",
		Long: "Loads the decision from DATABASE_URL and scores its stored bundle again. " +
			"Without --policy the stored policy named by --version is used, defaulting to the version " +
			"that produced the decision. Nothing is written.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decisionID, err := id.ParseDecisionID(args[0])
			if err != nil {
				return err
			}
			url := os.Getenv("DATABASE_URL")
			if url == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			db, err := postgres.Open(cmd.Context(), config.PostgresConfig{URL: url, MaxOpenConns: 1, MaxIdleConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()

			rec, err := decision.NewPostgresStore(db).FindByID(cmd.Context(), decisionID)
			if err != nil {
				return fmt.Errorf("load decision %s: %w", decisionID, err)
			}
			var p scoring.Policy
			if policyPath != "" {
				p, err = scoring.LoadPolicyFile(policyPath)
			} else {
				p, err = storedPolicy(cmd.Context(), policystore.NewPostgresStore(db), version, rec)
			}
			if err != nil {
				return err
			}
			out, err := replay(rec, p)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&policyPath, "policy", "", "policy file to score with")
	cmd.Flags().StringVar(&version, "version", "", "stored policy version (defaults to the decision's own)")
	cmd.MarkFlagsMutuallyExclusive("policy", "version")
	return cmd
}

// storedPolicy resolves version, or the version that produced rec, from the
// policy store. The built-in policy is always available under its version.
func storedPolicy(ctx context.Context, store policystore.Store, version string, rec *decision.Record) (scoring.Policy, error) {
	if version == "" {
		version = rec.PolicyVersion
	}
	p, err := store.FindByVersion(ctx, version)
	if errors.Is(err, sentinel.ErrNotFound) && version == scoring.DefaultPolicyVersion {
		return scoring.DefaultPolicy(), nil
	}
	if err != nil {
		return scoring.Policy{}, fmt.Errorf("load policy %s: %w", version, err)
	}
	return p, nil
}

func replay(rec *decision.Record, p scoring.Policy) (replayOutput, error) {
	if err := rec.Bundle.Validate(); err != nil {
		return replayOutput{}, fmt.Errorf("decision %s: %w", rec.ID, err)
	}
	res := scoring.Evaluate(rec.Bundle, p).Result()
	return replayOutput{
		DecisionID: rec.ID.String(),
		Original:   rec.Result,
		Replayed:   res,
		Changed:    res.Score != rec.Result.Score || res.Decision != rec.Result.Decision,
	}, nil
}
