package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	jwttoken "trustgate/internal/jwt_token"
	"trustgate/internal/platform/config"
	"trustgate/internal/platform/httpserver"
	"trustgate/internal/platform/logger"
	"trustgate/internal/platform/metrics"
	"trustgate/internal/platform/postgres"
	"trustgate/internal/platform/redis"
	"trustgate/internal/verification/handler"
	verificationmetrics "trustgate/internal/verification/metrics"
	"trustgate/internal/verification/orchestrator"
	"trustgate/internal/verification/store/decision"
	"trustgate/internal/verification/store/device"
	"trustgate/internal/verification/store/fingerprint"
	"trustgate/pkg/platform/audit/publishers/compliance"
	"trustgate/pkg/platform/audit/publishers/ops"
	"trustgate/pkg/platform/httputil"
	"trustgate/pkg/platform/middleware/requesttime"
	"trustgate/pkg/platform/tx"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires dependencies and owns the server lifecycle. Business logic lives
// in internal/verification.
func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	verifyMetrics := verificationmetrics.New(reg)

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	auditStack, err := newAuditStack(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer auditStack.Close()

	publisher := compliance.New(auditStack.store,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics(reg)),
	)
	tracker := ops.New(auditStack.store,
		ops.WithLogger(log),
		ops.WithMetrics(ops.NewMetrics(reg)),
		ops.WithSampler(ops.NewSampler(1.0)),
	)
	defer tracker.Close()

	decisions, runner, err := newDecisionStore(ctx, db)
	if err != nil {
		return err
	}

	policies, err := loadPolicies(cfg.Policy.Path, log)
	if err != nil {
		return err
	}
	policyStore, err := newPolicyStore(ctx, db)
	if err != nil {
		return err
	}
	if err := restorePolicies(ctx, policies, policyStore, log); err != nil {
		return err
	}
	if err := publisher.Emit(ctx, policyActivated(policies.Active())); err != nil {
		return fmt.Errorf("record active policy: %w", err)
	}

	collab, callOpts, err := newCollaborators(cfg, log)
	if err != nil {
		return err
	}

	opts := []orchestrator.Option{
		orchestrator.WithCompliance(publisher),
		orchestrator.WithOpsTracker(tracker),
		orchestrator.WithTxRunner(runner),
		orchestrator.WithMetrics(verifyMetrics),
		orchestrator.WithLogger(log),
	}
	opts = append(opts, callOpts...)
	if rdb != nil {
		opts = append(opts,
			orchestrator.WithDuplicateChecker(fingerprint.NewRedisStore(rdb.Client, cfg.Dedupe.FingerprintTTL)),
			orchestrator.WithDeviceHistory(device.NewRedisHistory(rdb.Client, cfg.Dedupe.DeviceRejectionTTL)),
		)
	} else {
		log.Warn("redis not configured; duplicate and device checks are process-local")
		opts = append(opts,
			orchestrator.WithDuplicateChecker(fingerprint.NewInMemoryStore(cfg.Dedupe.FingerprintTTL)),
			orchestrator.WithDeviceHistory(device.NewInMemoryHistory(cfg.Dedupe.DeviceRejectionTTL)),
		)
	}
	service := orchestrator.New(policies, collab, decisions, opts...)

	tokens := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requesttime.Middleware)
	r.Get("/health", healthHandler(db, rdb))
	r.Handle("/metrics", metrics.Handler(reg))
	handler.New(service, tokens, log).Register(r)

	srv := httpserver.New(cfg.Server.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting trustgate", "addr", cfg.Server.Addr, "policy_version", policies.Active().Version())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("server stopped")
		return nil
	})
	if relay := auditStack.relay; relay != nil {
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	if cfg.Policy.Watch {
		watcher, err := newPolicyWatcher(cfg.Policy.Path, policies, policyStore, publisher, tracker, verifyMetrics, log)
		if err != nil {
			log.Warn("policy hot reload disabled", "path", cfg.Policy.Path, "error", err)
		} else {
			g.Go(func() error {
				watcher.Run(gctx)
				return nil
			})
		}
	}

	return g.Wait()
}

func newDecisionStore(ctx context.Context, db *sql.DB) (decision.Store, tx.Runner, error) {
	if db == nil {
		return decision.NewInMemoryStore(), tx.NoopRunner{}, nil
	}
	store := decision.NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, nil, err
	}
	return store, tx.NewPostgresRunner(db), nil
}

func healthHandler(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				status["postgres"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			if err := rdb.Health(ctx); err != nil {
				status["redis"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		if code != http.StatusOK {
			status["status"] = "degraded"
		}
		httputil.WriteJSON(w, code, status)
	}
}
