package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Entry is a GST ledger entry tracked for input-tax-credit reconciliation.
type Entry struct {
	ID              string    `json:"id"`
	InvoiceNumber   string    `json:"invoiceNumber"`
	SupplierGSTIN   string    `json:"supplierGstin"`
	InvoiceDate     time.Time `json:"invoiceDate"`
	TaxableValue    float64   `json:"taxableValue"`
	TaxAmount       float64   `json:"taxAmount"`
	PaymentStatus   string    `json:"paymentStatus"`
	ReversalFlagged bool      `json:"reversalFlagged"`
	CreatedAt       time.Time `json:"createdAt"`
}

// EntryRequest is the create/update payload for an entry.
type EntryRequest struct {
	InvoiceNumber string    `json:"invoiceNumber"`
	SupplierGSTIN string    `json:"supplierGstin"`
	InvoiceDate   time.Time `json:"invoiceDate"`
	TaxableValue  float64   `json:"taxableValue"`
	TaxAmount     float64   `json:"taxAmount"`
	PaymentStatus string    `json:"paymentStatus"`
}

// EntriesService manages GST ledger entries.
type EntriesService struct {
	client *Client
}

// List returns a page of entries.
func (s *EntriesService) List(ctx context.Context, page PageRequest) (*Page[Entry], error) {
	var out Page[Entry]
	if err := s.client.do(ctx, http.MethodGet, "/gst/api/v1/entries", page.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns a single entry.
func (s *EntriesService) Get(ctx context.Context, id string) (*Entry, error) {
	var out Entry
	if err := s.client.do(ctx, http.MethodGet, "/gst/api/v1/entries/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a new entry.
func (s *EntriesService) Create(ctx context.Context, req EntryRequest) (*Entry, error) {
	var out Entry
	if err := s.client.do(ctx, http.MethodPost, "/gst/api/v1/entries", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an existing entry.
func (s *EntriesService) Update(ctx context.Context, id string, req EntryRequest) (*Entry, error) {
	var out Entry
	if err := s.client.do(ctx, http.MethodPut, "/gst/api/v1/entries/"+url.PathEscape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an entry.
func (s *EntriesService) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, http.MethodDelete, "/gst/api/v1/entries/"+url.PathEscape(id), nil, nil, nil)
}
