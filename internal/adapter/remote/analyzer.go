// Package remote implements the external analysis service client. The local
// pipeline produces a structurally compatible result when this service is
// unreachable, so failures here are recoverable by design.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// Analyzer calls the remote analysis endpoint with exponential backoff.
// Unlike parser chunk calls, remote attempts are retried: the whole local
// pipeline is the fallback, so spending the budget on retries is safe.
type Analyzer struct {
	baseURL    string
	hc         *http.Client
	maxElapsed time.Duration
}

// New constructs an Analyzer. timeout bounds one attempt, maxElapsed the
// whole retry budget.
func New(baseURL string, timeout, maxElapsed time.Duration) *Analyzer {
	return &Analyzer{
		baseURL: baseURL,
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxElapsed: maxElapsed,
	}
}

type analyzeRequest struct {
	ResumeText string                `json:"resume_text"`
	Context    domain.AnalyzeContext `json:"context"`
}

// Analyze posts the resume to the remote service and decodes the full result.
func (a *Analyzer) Analyze(ctx domain.Context, resumeText string, actx domain.AnalyzeContext) (*domain.AnalyzeResult, error) {
	body, err := json.Marshal(analyzeRequest{ResumeText: resumeText, Context: actx})
	if err != nil {
		return nil, fmt.Errorf("op=remote.Analyze marshal: %w", err)
	}

	var result *domain.AnalyzeResult
	operation := func() error {
		res, err := a.post(ctx, body)
		if err != nil {
			return err
		}
		result = res
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = a.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("op=remote.Analyze: %w", err)
	}
	return result, nil
}

func (a *Analyzer) post(ctx context.Context, body []byte) (*domain.AnalyzeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		slog.Warn("remote analyzer transient failure", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("op=remote.post: transient status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		// Client errors will not improve on retry.
		return nil, backoff.Permanent(fmt.Errorf("op=remote.post: status %d: %w", resp.StatusCode, domain.ErrInvalidArgument))
	}

	var result domain.AnalyzeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("op=remote.post decode: %w", domain.ErrInvalidJSON))
	}
	return &result, nil
}
