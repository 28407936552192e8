// Package api provides typed clients for the backend resource services,
// dispatched over an authorized HTTP client. Every non-2xx response is
// normalized to *domain.APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// Client is the shared transport for the resource services. The supplied
// http.Client is expected to carry the authorizer/classifier round-tripper
// chain.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Entries returns the ledger-entry service.
func (c *Client) Entries() *EntriesService { return &EntriesService{client: c} }

// Tenants returns the tenant service.
func (c *Client) Tenants() *TenantsService { return &TenantsService{client: c} }

// Roles returns the role service.
func (c *Client) Roles() *RolesService { return &RolesService{client: c} }

// Invitations returns the invitation service.
func (c *Client) Invitations() *InvitationsService { return &InvitationsService{client: c} }

// Organizations returns the organization service.
func (c *Client) Organizations() *OrganizationsService { return &OrganizationsService{client: c} }

// SSOConfig returns the SSO configuration service.
func (c *Client) SSOConfig() *SSOConfigService { return &SSOConfigService{client: c} }

// Rule37 returns the Rule-37 reversal service.
func (c *Client) Rule37() *Rule37Service { return &Rule37Service{client: c} }

// PageRequest carries pagination parameters for list endpoints. Sort
// entries take the form "field,asc" or "field,desc".
type PageRequest struct {
	Page int
	Size int
	Sort []string
}

// Values renders the request as query parameters, omitting zero values.
func (p PageRequest) Values() url.Values {
	values := url.Values{}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		values.Set("size", strconv.Itoa(p.Size))
	}
	for _, sort := range p.Sort {
		values.Add("sort", sort)
	}
	return values
}

// Page is a single page of a list response.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// do dispatches a JSON request and decodes the response into out. A nil
// out discards the body. query may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.dispatch(req, out)
}

// dispatch sends a prepared request, normalizing failures to
// *domain.APIError.
func (c *Client) dispatch(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(req.Context(), "request transport failure",
			"method", req.Method, "url", req.URL.String(), "error", err)
		return domain.NewAPITransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.NewAPIErrorFromResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
