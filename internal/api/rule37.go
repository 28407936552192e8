package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Rule37Summary aggregates the input-tax-credit reversal position for
// invoices unpaid past the 180-day window.
type Rule37Summary struct {
	TotalInvoices    int     `json:"totalInvoices"`
	FlaggedInvoices  int     `json:"flaggedInvoices"`
	ReversalAmount   float64 `json:"reversalAmount"`
	InterestAmount   float64 `json:"interestAmount"`
	AsOfDate         string  `json:"asOfDate"`
	CalculationRunID string  `json:"calculationRunId"`
}

// Rule37Run is one historical calculation run.
type Rule37Run struct {
	ID             string    `json:"id"`
	UploadedFile   string    `json:"uploadedFile"`
	FlaggedCount   int       `json:"flaggedCount"`
	ReversalAmount float64   `json:"reversalAmount"`
	RanAt          time.Time `json:"ranAt"`
}

// Rule37UploadResult acknowledges an accepted ledger upload.
type Rule37UploadResult struct {
	RunID    string `json:"runId"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// Rule37Service runs reversal calculations over uploaded ledgers.
type Rule37Service struct {
	client *Client
}

// Upload submits a ledger file for reversal calculation.
func (s *Rule37Service) Upload(ctx context.Context, filename string, content io.Reader) (*Rule37UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copying upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.client.buildURL("/gst/api/v1/rule37/uploads", nil), &body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out Rule37UploadResult
	if err := s.client.dispatch(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary returns the current reversal position.
func (s *Rule37Service) Summary(ctx context.Context) (*Rule37Summary, error) {
	var out Rule37Summary
	if err := s.client.do(ctx, http.MethodGet, "/gst/api/v1/rule37/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns a page of past calculation runs.
func (s *Rule37Service) History(ctx context.Context, page PageRequest) (*Page[Rule37Run], error) {
	var out Page[Rule37Run]
	if err := s.client.do(ctx, http.MethodGet, "/gst/api/v1/rule37/runs", page.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
