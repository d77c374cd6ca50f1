package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "trustgate/internal/jwt_token"
	"trustgate/internal/platform/config"
)

func newTokenCmd() *cobra.Command {
	var (
		caller string
		scopes []string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a service token signed with JWT_SIGNING_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			svc := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
			token, err := svc.GenerateServiceToken(caller, scopes, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "calling service name")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{jwttoken.ScopeEvaluate, jwttoken.ScopeRead}, "granted scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("caller")
	return cmd
}
