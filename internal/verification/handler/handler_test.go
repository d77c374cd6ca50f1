package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	jwttoken "trustgate/internal/jwt_token"
	"trustgate/internal/verification/orchestrator"
	"trustgate/internal/verification/scoring"
	"trustgate/internal/verification/summary"
	id "trustgate/pkg/domain"
	dErrors "trustgate/pkg/domain-errors"
	"trustgate/pkg/testutil"
)

type stubService struct {
	evaluated  orchestrator.Submission
	evaluation *orchestrator.Evaluation
	err        error
	withdrawn  id.ApplicantID
	replayed   string
}

func (s *stubService) Evaluate(_ context.Context, sub orchestrator.Submission) (*orchestrator.Evaluation, error) {
	s.evaluated = sub
	return s.evaluation, s.err
}

func (s *stubService) Get(_ context.Context, decisionID id.DecisionID) (*orchestrator.Evaluation, error) {
	if s.evaluation == nil || s.evaluation.DecisionID != decisionID {
		return nil, dErrors.New(dErrors.CodeNotFound, "decision not found")
	}
	return s.evaluation, nil
}

func (s *stubService) Replay(_ context.Context, decisionID id.DecisionID, version string) (*orchestrator.Replay, error) {
	s.replayed = version
	original, err := s.Get(context.Background(), decisionID)
	if err != nil {
		return nil, err
	}
	res := original.Result
	res.PolicyVersion = version
	return &orchestrator.Replay{Original: *original, Result: res, Summary: summary.FormatRiskSummary(res)}, nil
}

func (s *stubService) Withdraw(_ context.Context, applicantID id.ApplicantID) bool {
	s.withdrawn = applicantID
	return true
}

func (s *stubService) Score(b scoring.Bundle, version string) (scoring.RiskResult, summary.Summary, error) {
	if version != "" && version != scoring.DefaultPolicyVersion {
		return scoring.RiskResult{}, summary.Summary{}, dErrors.New(dErrors.CodeNotFound, "policy version is not registered")
	}
	res := scoring.Evaluate(b, scoring.DefaultPolicy()).Result()
	return res, summary.FormatRiskSummary(res), nil
}

func (s *stubService) ActivePolicy() scoring.Policy {
	return scoring.DefaultPolicy()
}

type HandlerSuite struct {
	suite.Suite
	service *stubService
	tokens  *jwttoken.JWTService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.service = &stubService{}
	s.tokens = jwttoken.NewJWTService("test-signing-key", "trustgate", "trustgate-api")
	s.router = chi.NewRouter()
	New(s.service, s.tokens, slog.New(slog.DiscardHandler)).Register(s.router)
}

func (s *HandlerSuite) authorize(req *http.Request, scopes ...string) *http.Request {
	token, err := s.tokens.GenerateServiceToken("intake-portal", scopes, time.Minute)
	s.Require().NoError(err)
	return testutil.WithBearer(req, token)
}

func (s *HandlerSuite) evaluation() *orchestrator.Evaluation {
	res := scoring.RiskResult{
		Score:         62,
		Decision:      scoring.DecisionHumanReview,
		Flags:         []string{"face match confidence low"},
		Breakdown:     map[string]string{scoring.BreakdownFaceMatch: "FACE_MATCH_LOW -35 = -35"},
		PolicyVersion: scoring.DefaultPolicyVersion,
	}
	return &orchestrator.Evaluation{
		DecisionID:   id.NewDecisionID(),
		SubmissionID: id.NewSubmissionID(),
		ApplicantID:  id.ApplicantID(uuid.New()),
		Result:       res,
		Summary:      summary.FormatRiskSummary(res),
		CreatedAt:    time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
}

func (s *HandlerSuite) TestEvaluate() {
	s.service.evaluation = s.evaluation()
	body := map[string]any{
		"submission_id": uuid.NewString(),
		"applicant_id":  uuid.NewString(),
		"document_ref":  "uploads/id-front.jpg",
		"id_number":     "13-7404-000-0012345",
		"locality":      " Cebu ",
		"telemetry": map[string]any{
			"submission_seconds": 42.5,
			"account_age_hours":  12,
			"device_id":          "android-7f3a",
		},
	}

	s.Run("decides a valid submission", func() {
		req := s.authorize(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/verifications", body), jwttoken.ScopeEvaluate)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[EvaluationResponse](s.T(), rr)
		s.Equal(scoring.DecisionHumanReview, resp.Decision)
		s.Equal(62, resp.Score)
		s.Equal(s.service.evaluation.DecisionID.String(), resp.DecisionID)
		s.Equal(summary.LabelHumanReview, resp.Summary.Label)

		sub := s.service.evaluated
		s.Equal("Cebu", sub.Locality)
		s.Equal(42500*time.Millisecond, sub.Telemetry.SubmissionDuration)
		s.Equal(12*time.Hour, sub.Telemetry.AccountAge)
		s.Equal("android-7f3a", sub.Telemetry.DeviceID)
	})

	s.Run("requires the evaluate scope", func() {
		req := s.authorize(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/verifications", body), jwttoken.ScopeRead)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})

	s.Run("requires a token", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/verifications", body))
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("rejects a missing document", func() {
		invalid := map[string]any{
			"submission_id": uuid.NewString(),
			"applicant_id":  uuid.NewString(),
			"id_number":     "13-7404-000-0012345",
		}
		req := s.authorize(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/verifications", invalid), jwttoken.ScopeEvaluate)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("rejects a malformed applicant id", func() {
		invalid := map[string]any{
			"submission_id": uuid.NewString(),
			"applicant_id":  "applicant-17",
			"document_ref":  "uploads/id-front.jpg",
			"id_number":     "13-7404-000-0012345",
		}
		req := s.authorize(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/verifications", invalid), jwttoken.ScopeEvaluate)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("superseded evaluations conflict", func() {
		s.service.err = dErrors.Wrap(orchestrator.ErrSuperseded, dErrors.CodeSuperseded, orchestrator.ErrSuperseded.Error())
		defer func() { s.service.err = nil }()
		req := s.authorize(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/verifications", body), jwttoken.ScopeEvaluate)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeSuperseded))
	})
}

func (s *HandlerSuite) TestGet() {
	s.service.evaluation = s.evaluation()
	path := "/v1/verifications/" + s.service.evaluation.DecisionID.String()

	rr := testutil.DoRequest(s.router, s.authorize(testutil.NewRequest(s.T(), http.MethodGet, path), jwttoken.ScopeRead))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[RecordResponse](s.T(), rr)
	s.Equal(s.service.evaluation.SubmissionID.String(), resp.SubmissionID)
	s.Equal([]string{"face match confidence low"}, resp.Flags)

	unknown := "/v1/verifications/" + uuid.NewString()
	rr = testutil.DoRequest(s.router, s.authorize(testutil.NewRequest(s.T(), http.MethodGet, unknown), jwttoken.ScopeRead))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))

	rr = testutil.DoRequest(s.router, s.authorize(testutil.NewRequest(s.T(), http.MethodGet, "/v1/verifications/not-a-uuid"), jwttoken.ScopeRead))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestReplay() {
	s.service.evaluation = s.evaluation()
	path := "/v1/verifications/" + s.service.evaluation.DecisionID.String() + "/replay?policy_version=v2"

	rr := testutil.DoRequest(s.router, s.authorize(testutil.NewRequest(s.T(), http.MethodGet, path), jwttoken.ScopeRead))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[ReplayResponse](s.T(), rr)
	s.Equal("v2", s.service.replayed)
	s.Equal("v2", resp.Replayed.PolicyVersion)
	s.Equal(scoring.DefaultPolicyVersion, resp.Original.PolicyVersion)
}

func (s *HandlerSuite) TestWithdraw() {
	applicant := uuid.New()
	path := "/v1/applicants/" + applicant.String() + "/withdraw"

	rr := testutil.DoRequest(s.router, s.authorize(testutil.NewRequest(s.T(), http.MethodPost, path), jwttoken.ScopeEvaluate))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "withdrawn", true)
	s.Equal(id.ApplicantID(applicant), s.service.withdrawn)
}

func (s *HandlerSuite) TestScore() {
	s.Run("duplicate bundle is rejected outright", func() {
		body := map[string]any{"bundle": map[string]any{"is_duplicate_submission": true}}
		req := s.authorize(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/scoring/evaluate", body), jwttoken.ScopeScore)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[ScoreResponse](s.T(), rr)
		s.Equal(scoring.DecisionReject, resp.Result.Decision)
		s.Equal(0, resp.Result.Score)
		s.Equal([]string{scoring.FlagDuplicateSubmission}, resp.Result.Flags)
	})

	s.Run("empty bundle scores the base", func() {
		body := map[string]any{"bundle": map[string]any{}}
		req := s.authorize(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/scoring/evaluate", body), jwttoken.ScopeScore)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[ScoreResponse](s.T(), rr)
		s.Equal(scoring.BaseScore, resp.Result.Score)
		s.Equal(scoring.DecisionAutoApprove, resp.Result.Decision)
	})

	s.Run("unknown policy version", func() {
		body := map[string]any{"bundle": map[string]any{}, "policy_version": "v7"}
		req := s.authorize(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/scoring/evaluate", body), jwttoken.ScopeScore)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	s.Run("unknown fields are rejected", func() {
		req := s.authorize(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/scoring/evaluate", `{"bundel":{}}`), jwttoken.ScopeScore)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	malformed := map[string]string{
		"unknown status":                        `{"id_format":{"state":"present","value":{"status":"bogus"}}}`,
		"unknown level with negative forgeries": `{"document_forensics":{"state":"present","value":{"status":"fail","level":"SEVERE","forgery_signals":-4}}}`,
		"negative forgery count":                `{"document_forensics":{"state":"present","value":{"status":"fail","level":"HIGH","forgery_signals":-4}}}`,
		"confidence above range":                `{"face_match":{"state":"present","value":{"status":"pass","confidence":500,"live":true}}}`,
		"confidence below range":                `{"face_match":{"state":"present","value":{"status":"fail","confidence":-7,"live":true}}}`,
		"conclusive face match without score":   `{"face_match":{"state":"present","value":{"status":"pass","live":true}}}`,
	}
	for name, bundle := range malformed {
		s.Run("malformed bundle is rejected: "+name, func() {
			req := s.authorize(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/scoring/evaluate", `{"bundle":`+bundle+`}`), jwttoken.ScopeScore)
			rr := testutil.DoRequest(s.router, req)
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
		})
	}

	s.Run("face match without liveness is rejected", func() {
		bundle := `{"face_match":{"state":"present","value":{"status":"pass","confidence":92}}}`
		req := s.authorize(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/scoring/evaluate", `{"bundle":`+bundle+`}`), jwttoken.ScopeScore)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *HandlerSuite) TestPolicy() {
	rr := testutil.DoRequest(s.router, s.authorize(testutil.NewRequest(s.T(), http.MethodGet, "/v1/scoring/policy"), jwttoken.ScopeRead))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[scoring.Document](s.T(), rr)
	s.Equal(scoring.DefaultPolicyVersion, resp.Version)
	s.Equal(85, resp.Thresholds.AutoApprove)
	s.Equal(-45, resp.Weights[scoring.EventLivenessFailed])
}
