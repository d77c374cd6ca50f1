package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"trustgate/internal/verification/metrics"
	"trustgate/internal/verification/scoring"
	policystore "trustgate/internal/verification/store/policy"
	audit "trustgate/pkg/platform/audit"
	"trustgate/pkg/platform/audit/publishers/compliance"
	"trustgate/pkg/platform/audit/publishers/ops"
)

const policyActor = "policy_watcher"

// loadPolicies activates the policy file at path. The built-in policy stays
// registered under its own version so decisions made with it can be replayed.
func loadPolicies(path string, log *slog.Logger) (*scoring.Registry, error) {
	builtin := scoring.DefaultPolicy()
	p, err := scoring.LoadPolicyFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("policy file not found; using built-in policy", "path", path, "version", builtin.Version())
		return scoring.NewRegistry(builtin)
	}
	if err != nil {
		return nil, err
	}
	reg, err := scoring.NewRegistry(p)
	if err != nil {
		return nil, err
	}
	if p.Version() != builtin.Version() {
		if err := reg.Register(builtin); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func newPolicyStore(ctx context.Context, db *sql.DB) (policystore.Store, error) {
	if db == nil {
		return policystore.NewInMemoryStore(), nil
	}
	store := policystore.NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// restorePolicies registers every previously activated version with reg and
// records the active one. A stored version whose content differs from the
// policy file fails startup.
func restorePolicies(ctx context.Context, reg *scoring.Registry, store policystore.Store, log *slog.Logger) error {
	n, err := policystore.Rehydrate(ctx, store, reg)
	if err != nil {
		return fmt.Errorf("restore stored policies: %w", err)
	}
	active := reg.Active()
	if err := store.Save(ctx, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("record active policy %s: %w", active.Version(), err)
	}
	log.Info("policies restored", "stored", n, "active", active.Version())
	return nil
}

func newPolicyWatcher(path string, reg *scoring.Registry, store policystore.Store, publisher *compliance.Publisher, tracker *ops.Tracker, m *metrics.Metrics, log *slog.Logger) (*scoring.PolicyWatcher, error) {
	w, err := scoring.NewPolicyWatcher(path, reg, log, func(p scoring.Policy) {
		m.IncrementPolicyReload("activated")
		if err := store.Save(context.Background(), p, time.Now().UTC()); err != nil {
			log.Error("failed to store activated policy", "version", p.Version(), "error", err)
		}
		if err := publisher.Emit(context.Background(), policyActivated(p)); err != nil {
			log.Error("failed to record policy activation", "version", p.Version(), "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	w.OnReject(func(err error) {
		m.IncrementPolicyReload("rejected")
		tracker.Track(context.Background(), audit.OpsEvent{
			Subject: path,
			Action:  string(audit.EventPolicyRejected),
			Reason:  err.Error(),
		})
	})
	return w, nil
}

func policyActivated(p scoring.Policy) audit.ComplianceEvent {
	return audit.ComplianceEvent{
		Subject:       p.Version(),
		Action:        string(audit.EventPolicyActivated),
		PolicyVersion: p.Version(),
		ActorID:       policyActor,
	}
}
