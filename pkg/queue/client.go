// Package queue is the HTTP client for the cloud print-job queue.
package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smartwish/print-agent/pkg/logging"
	"github.com/smartwish/print-agent/pkg/models"
	"github.com/smartwish/print-agent/pkg/retry"
)

// ReportingError reports a failed status PUT. Callers log it and move on;
// a server hiccup while reporting must never lose the in-memory outcome.
type ReportingError struct {
	JobID      string
	StatusCode int
	Err        error
}

func (e *ReportingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to report status for job %s: %v", e.JobID, e.Err)
	}
	return fmt.Sprintf("failed to report status for job %s: server returned %d", e.JobID, e.StatusCode)
}

func (e *ReportingError) Unwrap() error { return e.Err }

// Client talks to the cloud queue's job endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
	log        *logging.Logger
}

// NewClient creates a queue client for the given base URL.
func NewClient(baseURL string, log *logging.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryCfg: retry.DefaultConfig(),
		log:      log,
	}
}

// ListJobs fetches the current job list. A transport-level failure (server
// unreachable, timeout) is degraded to an empty list so the polling loop
// keeps running; a non-2xx response is returned as an error.
func (c *Client) ListJobs(ctx context.Context) ([]models.PrintJob, error) {
	var list models.JobList

	err := retry.Do(ctx, c.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/print-jobs", nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("list jobs failed with status %d: %s", resp.StatusCode, string(body))
		}

		list.Jobs = nil
		return json.NewDecoder(resp.Body).Decode(&list)
	})
	if err != nil {
		if retry.IsRetryable(err) {
			c.log.Warn(fmt.Sprintf("Cloud queue unreachable, treating as empty job list: %v", err))
			return []models.PrintJob{}, nil
		}
		return nil, err
	}

	return list.Jobs, nil
}

// UpdateStatus PUTs a job's status transition. The returned error carries
// ReportingError; callers are expected to log it, never to escalate it.
func (c *Client) UpdateStatus(ctx context.Context, jobID string, status models.JobStatus, errMsg string) error {
	update := models.StatusUpdate{Status: status, Error: errMsg}
	data, err := json.Marshal(update)
	if err != nil {
		return &ReportingError{JobID: jobID, Err: err}
	}

	url := fmt.Sprintf("%s/print-jobs/%s/status", c.baseURL, jobID)
	err = retry.Do(ctx, c.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("status update failed with status %d: %s", resp.StatusCode, string(body))
		}
		return nil
	})
	if err != nil {
		return &ReportingError{JobID: jobID, Err: err}
	}
	return nil
}
