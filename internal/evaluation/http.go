package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ducminhle1904/combo-optimizer/pkg/catalog"
	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// maxErrorBody caps how much of a failed response is quoted in errors
const maxErrorBody = 512

// HTTPEvaluator scores combinations with a remote service. Each evaluation
// is one POST of {"genes": [...]} (plus "labels" when a catalog is attached)
// answered by {"fitness": x}.
type HTTPEvaluator struct {
	url     string
	client  *http.Client
	catalog *catalog.Catalog
	retry   RetryPolicy
	limiter *RateLimiter
}

type evaluationRequest struct {
	Genes  []int    `json:"genes"`
	Labels []string `json:"labels,omitempty"`
}

type evaluationResponse struct {
	Fitness *float64 `json:"fitness"`
	Error   string   `json:"error,omitempty"`
}

// NewHTTPEvaluator creates a remote evaluator
func NewHTTPEvaluator(url string, timeout time.Duration) *HTTPEvaluator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPEvaluator{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithCatalog attaches a catalog so requests carry option labels
func (e *HTTPEvaluator) WithCatalog(c *catalog.Catalog) *HTTPEvaluator {
	e.catalog = c
	return e
}

// WithRetry retries transient failures according to p
func (e *HTTPEvaluator) WithRetry(p RetryPolicy) *HTTPEvaluator {
	e.retry = p
	return e
}

// WithRateLimit caps requests per second; zero disables the limit
func (e *HTTPEvaluator) WithRateLimit(perSecond int) *HTTPEvaluator {
	if perSecond > 0 {
		e.limiter = NewRateLimiter(perSecond, perSecond)
	} else {
		e.limiter = nil
	}
	return e
}

// URL returns the scoring endpoint
func (e *HTTPEvaluator) URL() string {
	return e.url
}

// Evaluate scores one combination, retrying transient failures
func (e *HTTPEvaluator) Evaluate(ctx context.Context, genes []int) (float64, error) {
	req := evaluationRequest{Genes: genes}
	if e.catalog != nil {
		labels, err := e.catalog.Decode(genes)
		if err != nil {
			return 0, err
		}
		req.Labels = labels
	}

	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to encode evaluation request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		fitness, err := e.post(ctx, body)
		if err == nil {
			return fitness, nil
		}
		if attempt >= e.retry.MaxRetries || !retryable(err) {
			return 0, err
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(e.retry.Delay(attempt)):
		}
	}
}

func (e *HTTPEvaluator) post(ctx context.Context, body []byte) (float64, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build evaluation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return 0, &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(snippet))}
	}

	var out evaluationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode evaluation response: %w", err)
	}
	if out.Error != "" {
		return 0, fmt.Errorf("evaluator error: %s", out.Error)
	}
	if out.Fitness == nil {
		return 0, fmt.Errorf("evaluation response has no fitness")
	}
	return *out.Fitness, nil
}

// FitnessFunc binds ctx so the evaluator can be handed to the engine
func (e *HTTPEvaluator) FitnessFunc(ctx context.Context) optimization.FitnessFunc {
	return func(genes []int) (float64, error) {
		return e.Evaluate(ctx, genes)
	}
}
