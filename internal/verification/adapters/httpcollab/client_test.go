package httpcollab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"trustgate/internal/verification/ports"
	"trustgate/internal/verification/providers"
	id "trustgate/pkg/domain"
)

type ClientSuite struct {
	suite.Suite
	mux    *http.ServeMux
	server *httptest.Server
	client *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	s.client = New("collaborator", s.server.URL+"/", WithBearerToken("secret"))
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) request() ports.EvidenceRequest {
	return ports.EvidenceRequest{
		SubmissionID: id.NewSubmissionID(),
		ApplicantID:  id.ApplicantID(id.NewSubmissionID()),
		DocumentRef:  "doc-1",
		SelfieRef:    "selfie-1",
	}
}

func (s *ClientSuite) respond(path string, status int, body any) {
	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

func (s *ClientSuite) TestAnalyzeDocument() {
	s.Run("sends the request and decodes the analysis", func() {
		var got evidenceRequest
		var auth string
		s.mux.HandleFunc(PathAnalyzeDocument, func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&got)
			_ = json.NewEncoder(w).Encode(ports.DocumentAnalysis{
				SuspicionLevel: "MEDIUM",
				ForgerySignals: []string{"font mismatch"},
				FieldsChecked:  true,
			})
		})
		req := s.request()

		out, err := s.client.AnalyzeDocument(context.Background(), req)
		s.Require().NoError(err)
		s.Equal("MEDIUM", out.SuspicionLevel)
		s.Equal([]string{"font mismatch"}, out.ForgerySignals)
		s.Equal("Bearer secret", auth)
		s.Equal(req.SubmissionID.String(), got.SubmissionID)
		s.Equal("doc-1", got.DocumentRef)
	})
}

func (s *ClientSuite) TestFailuresAreCategorized() {
	s.Run("server error is a retryable outage", func() {
		s.respond(PathMatchFace, http.StatusServiceUnavailable, map[string]string{"error": "down"})
		_, err := s.client.MatchFace(context.Background(), s.request())
		s.Equal(providers.ErrorProviderOutage, providers.GetCategory(err))
		s.True(providers.IsRetryable(err))
	})

	s.Run("out of contract payload is bad data", func() {
		s.respond(PathCheckConsistency, http.StatusOK, map[string]any{"overall": "PROBABLY"})
		_, err := s.client.CheckConsistency(context.Background(), s.request())
		s.Equal(providers.ErrorBadData, providers.GetCategory(err))
		s.False(providers.IsRetryable(err))
	})

	s.Run("malformed json is bad data", func() {
		s.mux.HandleFunc(PathAnalyzeSupporting, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		})
		_, err := s.client.AnalyzeSupportingDocument(context.Background(), s.request())
		s.Equal(providers.ErrorBadData, providers.GetCategory(err))
	})

	s.Run("deadline is a timeout", func() {
		slow := http.NewServeMux()
		slow.HandleFunc(PathAnalyzeDocument, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		srv := httptest.NewServer(slow)
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := New("slow", srv.URL).AnalyzeDocument(ctx, s.request())
		s.Equal(providers.ErrorTimeout, providers.GetCategory(err))
	})

	s.Run("rejected credentials", func() {
		s.respond(PathCheckLicense, http.StatusUnauthorized, nil)
		_, err := s.client.CheckLicense(context.Background(), ports.LicenseQuery{LicenseNumber: "0123456"})
		s.Equal(providers.ErrorAuthentication, providers.GetCategory(err))
	})
}

func (s *ClientSuite) TestRegistryMissIsNotAnError() {
	s.respond(PathLookupRegistry, http.StatusNotFound, map[string]string{"error": "no record"})

	out, err := s.client.LookupRegistry(context.Background(), ports.RegistryQuery{IDNumber: "13-7404-000-0012345"})
	s.Require().NoError(err)
	s.False(out.Found)
}

func (s *ClientSuite) TestLicenseLookup() {
	var got ports.LicenseQuery
	s.mux.HandleFunc(PathCheckLicense, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(ports.LicenseStatus{Valid: true})
	})

	out, err := s.client.CheckLicense(context.Background(), ports.LicenseQuery{LicenseNumber: "0123456", ProfessionalName: "Dr. Cruz"})
	s.Require().NoError(err)
	s.True(out.Valid)
	s.Equal("0123456", got.LicenseNumber)
}
