package httptransport

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	oversight "fiscaldesk/internal/oversight/models"
	oversightservice "fiscaldesk/internal/oversight/service"
	"fiscaldesk/internal/platform/auth"
	"fiscaldesk/internal/platform/metrics"
	reportservice "fiscaldesk/internal/report/service"
	roster "fiscaldesk/internal/roster/models"
	rosterservice "fiscaldesk/internal/roster/service"
	"fiscaldesk/internal/store"
	"fiscaldesk/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	router       http.Handler
	st           *store.Storage
	adminToken   string
	auditorToken string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	tokens := auth.NewTokenService("router-test-key")
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	s.st = store.NewMemory()

	s.router = NewRouter(Deps{
		Logger:    logger,
		Tokens:    tokens,
		Roster:    rosterservice.New(s.st, rosterservice.WithLogger(logger)),
		Oversight: oversightservice.New(s.st, oversightservice.WithLogger(logger), oversightservice.WithMetrics(m)),
		Reports:   reportservice.New(s.st, reportservice.WithMetrics(m)),
		Metrics:   m,
		Gatherer:  registry,
	})

	var err error
	s.adminToken, err = tokens.Issue("chief.fiscal", auth.RoleAdmin, time.Hour)
	s.Require().NoError(err)
	s.auditorToken, err = tokens.Issue("external.auditor", auth.RoleAuditor, time.Hour)
	s.Require().NoError(err)
}

func (s *RouterSuite) authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (s *RouterSuite) TestHealthzNeedsNoAuth() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *RouterSuite) TestMetricsEndpoint() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "fiscaldesk_")
}

func (s *RouterSuite) TestAPIRequiresToken() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/ranks"))
	s.Equal(http.StatusUnauthorized, rr.Code)

	req := s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/ranks"), "not-a-token")
	rr = testutil.DoRequest(s.router, req)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *RouterSuite) TestAuditorCannotMutate() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/ranks",
		map[string]any{"abbreviation": "COL", "seniority_order": 1})
	rr := testutil.DoRequest(s.router, s.authed(req, s.auditorToken))
	s.Equal(http.StatusForbidden, rr.Code)

	var body map[string]string
	testutil.DecodeJSON(s.T(), rr, &body)
	s.Equal("forbidden", body["error"])
}

func (s *RouterSuite) TestAdminCreatesAuditorReads() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/ranks",
		map[string]any{"abbreviation": "COL", "description": "Colonel", "seniority_order": 1})
	rr := testutil.DoRequest(s.router, s.authed(req, s.adminToken))
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	var created roster.Rank
	testutil.DecodeJSON(s.T(), rr, &created)
	s.Equal("COL", created.Abbreviation)

	listReq := s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/ranks"), s.auditorToken)
	listRR := testutil.DoRequest(s.router, listReq)
	s.Require().Equal(http.StatusOK, listRR.Code)

	var ranks []roster.Rank
	testutil.DecodeJSON(s.T(), listRR, &ranks)
	s.Require().Len(ranks, 1)
	s.Equal(created.ID, ranks[0].ID)
}

func (s *RouterSuite) TestContractCreationSpawnsInspectionShell() {
	companyReq := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/companies",
		map[string]any{"legal_name": "Vendor Ltd", "tax_id": "12.345.678/0001-00"})
	companyRR := testutil.DoRequest(s.router, s.authed(companyReq, s.adminToken))
	s.Require().Equal(http.StatusCreated, companyRR.Code, companyRR.Body.String())

	var company roster.Company
	testutil.DecodeJSON(s.T(), companyRR, &company)

	contractReq := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/contracts", map[string]any{
		"number":      "CT-2024/001",
		"type":        "expense",
		"company_id":  company.ID,
		"valid_from":  "2024-01-01T00:00:00Z",
		"valid_until": "2024-12-31T00:00:00Z",
	})
	contractRR := testutil.DoRequest(s.router, s.authed(contractReq, s.adminToken))
	s.Require().Equal(http.StatusCreated, contractRR.Code, contractRR.Body.String())

	var contract oversight.Contract
	testutil.DecodeJSON(s.T(), contractRR, &contract)

	committeesReq := s.authed(testutil.NewRequest(s.T(), http.MethodGet,
		"/api/v1/contracts/"+contract.ID.String()+"/committees"), s.auditorToken)
	committeesRR := testutil.DoRequest(s.router, committeesReq)
	s.Require().Equal(http.StatusOK, committeesRR.Code)

	var committees []oversight.Committee
	testutil.DecodeJSON(s.T(), committeesRR, &committees)
	s.Require().Len(committees, 1)
	s.False(committees[0].Active)
	s.Nil(committees[0].StartDate)
}

func (s *RouterSuite) TestDashboardAndExport() {
	dashReq := s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/reports/dashboard"), s.auditorToken)
	dashRR := testutil.DoRequest(s.router, dashReq)
	s.Require().Equal(http.StatusOK, dashRR.Code)

	exportReq := s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/exports/expirations.csv"), s.auditorToken)
	exportRR := testutil.DoRequest(s.router, exportReq)
	s.Require().Equal(http.StatusOK, exportRR.Code)
	s.Contains(exportRR.Header().Get("Content-Type"), "text/csv")
	s.Contains(exportRR.Header().Get("Content-Disposition"), "expirations")

	header, _, _ := strings.Cut(exportRR.Body.String(), "\n")
	s.Equal("contract,company,agent,rank,role,scheduled_end,days_remaining,tier", header)
}

func (s *RouterSuite) TestPeriodValidatesQuery() {
	req := s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/reports/period?from=bad&to=2024-01-01"), s.auditorToken)
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *RouterSuite) TestRequestIDEchoed() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/healthz")
	req.Header.Set("X-Request-ID", "trace-me-123")
	rr := testutil.DoRequest(s.router, req)
	s.Equal("trace-me-123", rr.Header().Get("X-Request-ID"))
}
