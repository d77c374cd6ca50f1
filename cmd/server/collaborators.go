package main

import (
	"log/slog"

	"golang.org/x/time/rate"

	"trustgate/internal/platform/config"
	"trustgate/internal/verification/adapters/httpcollab"
	"trustgate/internal/verification/orchestrator"
	"trustgate/pkg/platform/circuit"
)

var collaboratorDefaults = config.Collaborator{
	Timeout:       orchestrator.DefaultCallTimeout,
	RatePerSecond: 20,
	Burst:         10,
}

// newCollaborators builds one HTTP client per configured collaborator, each
// with its own rate limiter and circuit breaker. Collaborators without a URL
// stay nil and their categories are never requested.
func newCollaborators(cfg config.Config, log *slog.Logger) (orchestrator.Collaborators, []orchestrator.Option, error) {
	var (
		collab orchestrator.Collaborators
		opts   []orchestrator.Option
	)
	for _, src := range orchestrator.Sources {
		c, err := config.CollaboratorFromEnv(string(src), collaboratorDefaults)
		if err != nil {
			return orchestrator.Collaborators{}, nil, err
		}
		if c.URL == "" {
			log.Warn("collaborator not configured", "collaborator", src)
			continue
		}
		client := httpcollab.New(string(src), c.URL, httpcollab.WithBearerToken(cfg.CollaboratorToken))
		switch src {
		case orchestrator.SourceDocument:
			collab.Documents = client
		case orchestrator.SourceSupporting:
			collab.Supporting = client
		case orchestrator.SourceConsistency:
			collab.Consistency = client
		case orchestrator.SourceFace:
			collab.Faces = client
		case orchestrator.SourceRegistry:
			collab.Registry = client
		case orchestrator.SourceLicense:
			collab.Licenses = client
		}

		cp := orchestrator.CallPolicy{
			Timeout: c.Timeout,
			Retry:   true,
			Breaker: circuit.New(string(src)),
		}
		if c.RatePerSecond > 0 {
			cp.Limiter = rate.NewLimiter(rate.Limit(c.RatePerSecond), max(c.Burst, 1))
		}
		opts = append(opts, orchestrator.WithCallPolicy(src, cp))
	}
	return collab, opts, nil
}
