// Package handler exposes the verification orchestrator over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	jwttoken "trustgate/internal/jwt_token"
	"trustgate/internal/verification/orchestrator"
	"trustgate/internal/verification/scoring"
	"trustgate/internal/verification/summary"
	id "trustgate/pkg/domain"
	"trustgate/pkg/platform/httputil"
	"trustgate/pkg/platform/middleware/auth"
	"trustgate/pkg/requestcontext"
)

// Service defines the verification operations the handler needs.
type Service interface {
	Evaluate(ctx context.Context, sub orchestrator.Submission) (*orchestrator.Evaluation, error)
	Get(ctx context.Context, decisionID id.DecisionID) (*orchestrator.Evaluation, error)
	Replay(ctx context.Context, decisionID id.DecisionID, version string) (*orchestrator.Replay, error)
	Withdraw(ctx context.Context, applicantID id.ApplicantID) bool
	Score(b scoring.Bundle, version string) (scoring.RiskResult, summary.Summary, error)
	ActivePolicy() scoring.Policy
}

// Handler wires verification endpoints to the orchestrator.
type Handler struct {
	service Service
	tokens  auth.TokenValidator
	logger  *slog.Logger
}

// New constructs a verification handler.
func New(service Service, tokens auth.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register mounts the /v1 endpoints, each behind its scope.
func (h *Handler) Register(r chi.Router) {
	scope := func(s string) func(http.Handler) http.Handler {
		return auth.RequireScope(h.tokens, s, h.logger)
	}
	r.Route("/v1", func(r chi.Router) {
		r.With(scope(jwttoken.ScopeEvaluate)).Post("/verifications", h.HandleEvaluate)
		r.With(scope(jwttoken.ScopeRead)).Get("/verifications/{decisionID}", h.HandleGet)
		r.With(scope(jwttoken.ScopeRead)).Get("/verifications/{decisionID}/replay", h.HandleReplay)
		r.With(scope(jwttoken.ScopeEvaluate)).Post("/applicants/{applicantID}/withdraw", h.HandleWithdraw)
		r.With(scope(jwttoken.ScopeScore)).Post("/scoring/evaluate", h.HandleScore)
		r.With(scope(jwttoken.ScopeRead)).Get("/scoring/policy", h.HandlePolicy)
	})
}

// HandleEvaluate handles POST /v1/verifications.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	eval, err := h.service.Evaluate(ctx, req.ToSubmission())
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed",
			"request_id", requestID,
			"submission_id", req.SubmissionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification evaluated",
		"request_id", requestID,
		"decision_id", eval.DecisionID,
		"decision", eval.Result.Decision,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromEvaluation(eval))
}

// HandleGet handles GET /v1/verifications/{decisionID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	decisionID, err := id.ParseDecisionID(chi.URLParam(r, "decisionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	eval, err := h.service.Get(r.Context(), decisionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(eval))
}

// HandleReplay handles GET /v1/verifications/{decisionID}/replay?policy_version=.
func (h *Handler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	decisionID, err := id.ParseDecisionID(chi.URLParam(r, "decisionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	version := strings.TrimSpace(r.URL.Query().Get("policy_version"))
	replay, err := h.service.Replay(r.Context(), decisionID, version)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromReplay(replay))
}

// HandleWithdraw handles POST /v1/applicants/{applicantID}/withdraw.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	withdrawn := h.service.Withdraw(r.Context(), applicantID)
	httputil.WriteJSON(w, http.StatusOK, WithdrawResponse{
		ApplicantID: applicantID.String(),
		Withdrawn:   withdrawn,
	})
}

// HandleScore handles POST /v1/scoring/evaluate.
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ScoreRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, sum, err := h.service.Score(req.Bundle, strings.TrimSpace(req.PolicyVersion))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ScoreResponse{Result: res, Summary: sum})
}

// HandlePolicy handles GET /v1/scoring/policy.
func (h *Handler) HandlePolicy(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.ActivePolicy().Document())
}
