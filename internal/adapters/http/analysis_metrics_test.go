package httpadapter

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vegin/skin-analysis-service/internal/config"
	"github.com/vegin/skin-analysis-service/internal/core/domain"
	"github.com/vegin/skin-analysis-service/internal/observability/metrics"
)

func TestSubmissionOutcomeLabels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, "success"},
		{"invalid input", domain.WrapError(domain.ErrInvalidInput, "submit", errors.New("image is empty")), "invalid_input"},
		{"storage", domain.WrapError(domain.ErrStorageFailure, "upload", errors.New("s3 down")), "storage_failure"},
		{"inference", domain.WrapError(domain.ErrInferenceFailure, "call", errors.New("refused")), "inference_failure"},
		{"temporary", domain.WrapError(domain.ErrTemporary, "call", errors.New("503")), "temporary"},
		{"unclassified", errors.New("boom"), "error"},
	}
	for _, tc := range cases {
		if got := submissionOutcome(tc.err); got != tc.want {
			t.Errorf("%s: submissionOutcome() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSubmissionCounterSeparatesFailureKinds(t *testing.T) {
	cfg := config.Config{JWTSecret: testJWTSecret}
	fakes := &routerFakes{
		submitter: &submitterFake{},
		results:   &materializerFake{},
		profiles:  &projectorFake{},
		editor:    &editorFake{},
	}
	m := metrics.NewHTTPServerMetrics(serviceName)
	rt := NewRouter(fakes.submitter, fakes.results, fakes.profiles, fakes.editor, m, cfg)
	handler := rt.Handler(cfg)

	fakes.submitter.submitErr = domain.WrapError(domain.ErrInferenceFailure, "call inference service", errors.New("refused"))
	body, contentType := multipartBody(t, []byte{1}, "a.jpg", "")
	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "7"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.Code)
	}

	scrapeReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	scrapeRes := httptest.NewRecorder()
	handler.ServeHTTP(scrapeRes, scrapeReq)
	raw, err := io.ReadAll(scrapeRes.Body)
	if err != nil {
		t.Fatalf("read scrape body: %v", err)
	}
	exposition := string(raw)
	if !strings.Contains(exposition,
		`skin_analysis_submissions_total{outcome="inference_failure",service="skin-analysis-api"} 1`) {
		t.Fatalf("expected inference_failure submission sample, got:\n%s", exposition)
	}
	if strings.Contains(exposition, `outcome="error"`) {
		t.Fatalf("inference failure must not land in the generic error bucket:\n%s", exposition)
	}
}
