// Package fusion talks to the external skin analysis service. The service
// exposes one multipart endpoint that accepts either a public image URL or
// the raw image bytes, plus the survey answers, and returns the fused
// classification and product recommendations in a single response.
package fusion

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
	"github.com/vegin/skin-analysis-service/internal/infrastructure/resilience"
)

const analyzePath = "/analyze-and-recommend"

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithExecutor(exec *resilience.Executor) Option {
	return func(c *Client) { c.executor = exec }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 90 * time.Second},
		executor:   resilience.NewExecutor(resilience.SingleAttemptConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnalyzeImageURL sends a previously uploaded image by its public URL.
func (c *Client) AnalyzeImageURL(ctx context.Context, imageURL string, surveyJSON []byte) (*domain.InferenceResponse, error) {
	form := analyzeForm{imageURL: imageURL, survey: surveyJSON}
	return c.analyze(ctx, form)
}

// AnalyzeImageBytes sends the raw image for a direct analysis that skips
// blob storage entirely.
func (c *Client) AnalyzeImageBytes(ctx context.Context, filename, contentType string, image, surveyJSON []byte) (*domain.InferenceResponse, error) {
	form := analyzeForm{
		filename:    filename,
		contentType: contentType,
		image:       image,
		survey:      surveyJSON,
	}
	return c.analyze(ctx, form)
}

func (c *Client) analyze(ctx context.Context, form analyzeForm) (*domain.InferenceResponse, error) {
	var resp *domain.InferenceResponse
	err := c.executor.Execute(ctx, "analyze", func(ctx context.Context) error {
		decoded, err := c.postMultipart(ctx, analyzePath, form)
		if err != nil {
			return err
		}
		resp = decoded
		return nil
	}, classifyAnalysisError)
	if err != nil {
		return nil, wrapTemporaryIfNeeded("analyze", err)
	}
	return resp, nil
}
