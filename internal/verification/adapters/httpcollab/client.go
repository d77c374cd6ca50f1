// Package httpcollab talks to verification collaborators over JSON/HTTP.
package httpcollab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trustgate/internal/verification/ports"
	"trustgate/internal/verification/providers"
)

const maxResponseBytes = 1 << 20

// Collaborator endpoints, relative to each client's base URL.
const (
	PathAnalyzeDocument   = "/v1/documents/analyze"
	PathAnalyzeSupporting = "/v1/documents/supporting/analyze"
	PathCheckConsistency  = "/v1/documents/consistency"
	PathMatchFace         = "/v1/faces/match"
	PathLookupRegistry    = "/v1/registry/lookup"
	PathCheckLicense      = "/v1/licenses/check"
)

// Client calls one collaborator. It implements every collaborator port;
// wire one client per collaborator base URL.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBearerToken authenticates every request.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a client for the collaborator called name at baseURL.
func New(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		// Per-call deadlines come from the caller's context; this is a backstop.
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the collaborator name used in errors.
func (c *Client) Name() string {
	return c.name
}

type evidenceRequest struct {
	SubmissionID     string `json:"submission_id"`
	ApplicantID      string `json:"applicant_id"`
	DocumentRef      string `json:"document_ref,omitempty"`
	SupportingDocRef string `json:"supporting_doc_ref,omitempty"`
	SelfieRef        string `json:"selfie_ref,omitempty"`
	ClaimedIDNumber  string `json:"claimed_id_number,omitempty"`
	ClaimedName      string `json:"claimed_name,omitempty"`
	ClaimedCategory  string `json:"claimed_category,omitempty"`
	Locality         string `json:"locality,omitempty"`
}

func toRequest(req ports.EvidenceRequest) evidenceRequest {
	return evidenceRequest{
		SubmissionID:     req.SubmissionID.String(),
		ApplicantID:      req.ApplicantID.String(),
		DocumentRef:      req.DocumentRef,
		SupportingDocRef: req.SupportingDocRef,
		SelfieRef:        req.SelfieRef,
		ClaimedIDNumber:  req.ClaimedIDNumber,
		ClaimedName:      req.ClaimedName,
		ClaimedCategory:  req.ClaimedCategory,
		Locality:         req.Locality,
	}
}

// AnalyzeDocument implements ports.DocumentAnalyzer.
func (c *Client) AnalyzeDocument(ctx context.Context, req ports.EvidenceRequest) (*ports.DocumentAnalysis, error) {
	var out ports.DocumentAnalysis
	if err := c.post(ctx, PathAnalyzeDocument, toRequest(req), &out); err != nil {
		return nil, err
	}
	return &out, c.validate(out.Validate())
}

// AnalyzeSupportingDocument implements ports.SupportingDocumentAnalyzer.
func (c *Client) AnalyzeSupportingDocument(ctx context.Context, req ports.EvidenceRequest) (*ports.SupportingDocumentAnalysis, error) {
	var out ports.SupportingDocumentAnalysis
	if err := c.post(ctx, PathAnalyzeSupporting, toRequest(req), &out); err != nil {
		return nil, err
	}
	return &out, c.validate(out.Validate())
}

// CheckConsistency implements ports.ConsistencyChecker.
func (c *Client) CheckConsistency(ctx context.Context, req ports.EvidenceRequest) (*ports.ConsistencyReport, error) {
	var out ports.ConsistencyReport
	if err := c.post(ctx, PathCheckConsistency, toRequest(req), &out); err != nil {
		return nil, err
	}
	return &out, c.validate(out.Validate())
}

// MatchFace implements ports.FaceMatcher.
func (c *Client) MatchFace(ctx context.Context, req ports.EvidenceRequest) (*ports.FaceMatchResult, error) {
	var out ports.FaceMatchResult
	if err := c.post(ctx, PathMatchFace, toRequest(req), &out); err != nil {
		return nil, err
	}
	return &out, c.validate(out.Validate())
}

// LookupRegistry implements ports.RegistryLookup. A 404 is a confirmed miss.
func (c *Client) LookupRegistry(ctx context.Context, q ports.RegistryQuery) (*ports.RegistryMatch, error) {
	var out ports.RegistryMatch
	err := c.post(ctx, PathLookupRegistry, q, &out)
	if providers.GetCategory(err) == providers.ErrorNotFound {
		return &ports.RegistryMatch{Found: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckLicense implements ports.LicenseLookup. A 404 is an invalid license.
func (c *Client) CheckLicense(ctx context.Context, q ports.LicenseQuery) (*ports.LicenseStatus, error) {
	var out ports.LicenseStatus
	err := c.post(ctx, PathCheckLicense, q, &out)
	if providers.GetCategory(err) == providers.ErrorNotFound {
		return &ports.LicenseStatus{Valid: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) validate(err error) error {
	if err == nil {
		return nil
	}
	return providers.NewProviderError(providers.ErrorBadData, c.name, "response failed validation", err)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return providers.NewProviderError(providers.ErrorInternal, c.name, "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return providers.NewProviderError(providers.ErrorInternal, c.name, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return providers.Classify(c.name, ctx.Err())
		}
		return providers.NewProviderError(providers.ErrorProviderOutage, c.name, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return providers.FromStatus(c.name, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		if ctx.Err() != nil {
			return providers.Classify(c.name, ctx.Err())
		}
		return providers.NewProviderError(providers.ErrorBadData, c.name, fmt.Sprintf("decode %s response", path), err)
	}
	return nil
}
