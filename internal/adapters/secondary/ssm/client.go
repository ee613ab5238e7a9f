// Package ssm implements the Screenshot Monitor report client. Fetching the
// monthly total is a two-step protocol: resolve the token's employment
// identity, then request a report for the date range and sum its per
// employment durations.
package ssm

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

const (
	DefaultBaseURL = "https://screenshotmonitor.com/api/v2"
	DefaultTimeout = 10 * time.Second

	tokenHeader = "X-SSM-Token"
)

var (
	// ErrLookupFailed means the employment identity could not be resolved.
	ErrLookupFailed = errors.New("ssm: employment lookup failed")
	// ErrReportFailed means the report request was rejected or unreadable.
	ErrReportFailed = errors.New("ssm: report request failed")
)

// Config holds the client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	client  *http.Client
}

var _ ports.TimeReportClient = (*Client)(nil)

// NewClient creates a report client. The vendor serves an incomplete
// certificate chain, so verification is disabled; the token is the only
// credential at stake and it is user-scoped and revocable.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

type commonData struct {
	EmploymentID int64 `json:"employmentId"`
}

type reportRequest struct {
	EmploymentID int64  `json:"employmentId"`
	From         string `json:"from"`
	To           string `json:"to"`
}

// employmentChart carries the per-employment totals. Only Duration matters;
// the vendor uses PascalCase here unlike the rest of its API.
type employmentChart struct {
	Duration int `json:"Duration"`
}

type reportResponse struct {
	Charts struct {
		Employments []employmentChart `json:"employments"`
	} `json:"charts"`
}

// MonthlyMinutes returns the total minutes recorded for the token's identity
// over the inclusive date range.
func (c *Client) MonthlyMinutes(ctx context.Context, token string, from, to time.Time) (int, error) {
	employmentID, err := c.lookupEmployment(ctx, token)
	if err != nil {
		return 0, err
	}

	return c.fetchReport(ctx, token, employmentID, from, to)
}

func (c *Client) lookupEmployment(ctx context.Context, token string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/GetCommonData", nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set(tokenHeader, token)
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrLookupFailed, res.StatusCode)
	}

	var data commonData
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if data.EmploymentID == 0 {
		return 0, fmt.Errorf("%w: no employment id in response", ErrLookupFailed)
	}
	return data.EmploymentID, nil
}

func (c *Client) fetchReport(ctx context.Context, token string, employmentID int64, from, to time.Time) (int, error) {
	body, err := json.Marshal(reportRequest{
		EmploymentID: employmentID,
		From:         from.Format("2006-01-02"),
		To:           to.Format("2006-01-02"),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrReportFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/GetReport", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrReportFailed, err)
	}
	req.Header.Set(tokenHeader, token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrReportFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrReportFailed, res.StatusCode)
	}

	var report reportResponse
	if err := json.NewDecoder(res.Body).Decode(&report); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrReportFailed, err)
	}

	total := 0
	for _, chart := range report.Charts.Employments {
		total += chart.Duration
	}
	return total, nil
}
