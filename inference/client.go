package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"concierge/common/httpx"
	"concierge/common/logger"
	"concierge/config"
	"concierge/metrics"
	"concierge/schema"
)

// ErrTimeout is returned when the backend does not complete a generation
// within the configured wall-clock budget.
var ErrTimeout = errors.New("inference: generation timed out")

// BackendError is returned when the backend explicitly reports failure, or
// when a completed job carries an empty or unparseable result.
type BackendError struct {
	Code    string
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return "inference: backend error: " + e.Code
	}
	return fmt.Sprintf("inference: backend error %s: %s", e.Code, e.Message)
}

// Polling schedule: aggressive early polls minimize added latency for the
// common fast case, the later tiers cap request volume for slow jobs.
const (
	earlyPhase    = 5 * time.Second
	midPhase      = 15 * time.Second
	earlyInterval = 200 * time.Millisecond
	midInterval   = 500 * time.Millisecond
	lateInterval  = 1 * time.Second
)

// Client submits generation jobs to the remote backend and polls them to
// completion. It never retries a whole generation; retry policy belongs to
// the caller.
type Client struct {
	baseURL string
	apiKey  string
	budget  time.Duration
	submit  *httpx.Client
	poll    *http.Client
}

// New creates a client from inference configuration.
func New(cfg config.InferenceConfig) *Client {
	submitTimeout := 5 * time.Second
	if cfg.HTTP.TimeoutMs > 0 {
		submitTimeout = time.Duration(cfg.HTTP.TimeoutMs) * time.Millisecond
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		budget:  cfg.Budget(),
		submit: httpx.New(httpx.Options{
			Timeout:            submitTimeout,
			Retry:              cfg.HTTP.Retry,
			BackoffMin:         time.Duration(cfg.HTTP.BackoffMinMs) * time.Millisecond,
			BackoffMax:         time.Duration(cfg.HTTP.BackoffMaxMs) * time.Millisecond,
			MaxConsecutiveFail: cfg.HTTP.MaxConsecutiveFailures,
			CircuitOpen:        time.Duration(cfg.HTTP.CircuitOpenSeconds) * time.Second,
		}),
		// Poll calls use a plain short-timeout client: a failed poll is just
		// "not yet ready", the schedule itself is the retry loop.
		poll: &http.Client{Timeout: 3 * time.Second},
	}
}

type submitRequest struct {
	Prompt          string  `json:"prompt"`
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"`
}

type submitResponse struct {
	Result string `json:"result,omitempty"`
	JobID  string `json:"job_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

type jobResponse struct {
	Status schema.JobStatus `json:"status"`
	Result string           `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Generate submits the prompt and waits for a complete result. It returns a
// validated non-empty string, ErrTimeout, or a *BackendError; never a
// partial value.
func (c *Client) Generate(ctx context.Context, prompt string, profile schema.DecodingProfile) (string, error) {
	start := time.Now()
	deadline := start.Add(c.budget)

	resp, err := c.doSubmit(ctx, prompt, profile)
	if err != nil {
		metrics.ObserveInference("failed", start)
		return "", err
	}

	// Synchronous answer: validate and return without polling.
	if resp.JobID == "" {
		if strings.TrimSpace(resp.Result) == "" {
			metrics.ObserveInference("failed", start)
			return "", &BackendError{Code: "empty_result", Message: "backend returned a direct empty result"}
		}
		metrics.ObserveInference("direct", start)
		return resp.Result, nil
	}

	result, polls, err := c.awaitJob(ctx, resp.JobID, start, deadline)
	metrics.ObservePolls(polls)
	switch {
	case err == nil:
		metrics.ObserveInference("completed", start)
	case errors.Is(err, ErrTimeout):
		metrics.ObserveInference("timeout", start)
	default:
		metrics.ObserveInference("failed", start)
	}
	return result, err
}

func (c *Client) doSubmit(ctx context.Context, prompt string, profile schema.DecodingProfile) (*submitResponse, error) {
	body, err := json.Marshal(submitRequest{
		Prompt:          prompt,
		Temperature:     profile.Temperature,
		MaxOutputTokens: profile.MaxOutputTokens,
	})
	if err != nil {
		return nil, &BackendError{Code: "encode_request", Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return nil, &BackendError{Code: "build_request", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)
	// NewRequestWithContext sets GetBody for bytes.Reader, so httpx can
	// replay the body on retry.
	httpResp, err := c.submit.Do(req)
	if err != nil {
		return nil, &BackendError{Code: "submit_failed", Message: err.Error()}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusAccepted {
		return nil, &BackendError{Code: fmt.Sprintf("http_%d", httpResp.StatusCode)}
	}

	var sr submitResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&sr); err != nil {
		return nil, &BackendError{Code: "decode_response", Message: err.Error()}
	}
	if sr.Error != "" {
		return nil, &BackendError{Code: "rejected", Message: sr.Error}
	}
	if sr.Result == "" && sr.JobID == "" {
		return nil, &BackendError{Code: "malformed_response", Message: "neither result nor job_id present"}
	}
	return &sr, nil
}

// awaitJob polls the status endpoint under the adaptive schedule until the
// job reaches a terminal state or the budget runs out. Transport errors and
// unknown statuses on a poll are "not yet ready".
func (c *Client) awaitJob(ctx context.Context, jobID string, start time.Time, deadline time.Time) (string, int, error) {
	polls := 0
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			logger.Warnf("inference: job %s exceeded %v budget after %d polls", jobID, c.budget, polls)
			return "", polls, ErrTimeout
		}
		interval := pollInterval(time.Since(start))
		if interval > remaining {
			interval = remaining
		}
		if err := sleepInterval(ctx, interval); err != nil {
			return "", polls, ErrTimeout
		}

		job, err := c.pollJob(ctx, jobID)
		polls++
		if err != nil {
			logger.Debugf("inference: poll %d for job %s not ready: %v", polls, jobID, err)
			continue
		}
		switch job.Status {
		case schema.JobCompleted:
			if strings.TrimSpace(job.Result) == "" {
				return "", polls, &BackendError{Code: "empty_result", Message: "completed job carried no text"}
			}
			return job.Result, polls, nil
		case schema.JobFailed:
			return "", polls, &BackendError{Code: "job_failed", Message: job.Error}
		default:
			// pending or unknown status: keep polling
		}
	}
}

func (c *Client) pollJob(ctx context.Context, jobID string) (*jobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)
	resp, err := c.poll.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned %s", resp.Status)
	}
	var jr jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return nil, err
	}
	return &jr, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// pollInterval returns the wait before the next poll given total elapsed
// wait: 0.2s for the first 5s, 0.5s until 15s, 1s after.
func pollInterval(elapsed time.Duration) time.Duration {
	switch {
	case elapsed < earlyPhase:
		return earlyInterval
	case elapsed < midPhase:
		return midInterval
	default:
		return lateInterval
	}
}

func sleepInterval(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
