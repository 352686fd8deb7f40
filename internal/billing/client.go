// Package billing is a client for the Stripe customers API.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dtroode/gophaccounts-server/internal/model"
)

const (
	DefaultBaseURL = "https://api.stripe.com"

	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	defaultBackoff    = 200 * time.Millisecond
)

var _ model.CustomerCreator = (*Client)(nil)

// ErrMissingCustomerID is returned when an operation needs a customer id.
var ErrMissingCustomerID = errors.New("billing: customer id is required")

// Client talks to the customers endpoints with a secret API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	backoff    func() retry.Backoff
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBackoff replaces the retry policy for transient failures.
func WithBackoff(b func() retry.Backoff) Option {
	return func(c *Client) { c.backoff = b }
}

func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(defaultMaxRetries, retry.NewExponential(defaultBackoff))
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// UpdateCustomerParams holds the mutable customer fields. Nil fields are left untouched.
type UpdateCustomerParams struct {
	Email    *string
	Name     *string
	Metadata map[string]string
}

// ListCustomersParams pages through customers.
type ListCustomersParams struct {
	Limit         int
	StartingAfter string
	Email         string
}

// CustomerList is one page of customers.
type CustomerList struct {
	Data    []model.BillingCustomer `json:"data"`
	HasMore bool                    `json:"has_more"`
}

// CreateCustomer registers an account, keeping its id and name in metadata.
func (c *Client) CreateCustomer(ctx context.Context, params model.CreateCustomerParams) (model.BillingCustomer, error) {
	form := url.Values{}
	form.Set("email", params.Email)
	form.Set("name", params.Name)
	form.Set("metadata[_id]", params.AccountID.String())
	form.Set("metadata[name]", params.Name)

	var out model.BillingCustomer
	if err := c.do(ctx, http.MethodPost, "/v1/customers", form, &out); err != nil {
		return model.BillingCustomer{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (model.BillingCustomer, error) {
	if id == "" {
		return model.BillingCustomer{}, ErrMissingCustomerID
	}

	var out model.BillingCustomer
	if err := c.do(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(id), nil, &out); err != nil {
		return model.BillingCustomer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, params UpdateCustomerParams) (model.BillingCustomer, error) {
	if id == "" {
		return model.BillingCustomer{}, ErrMissingCustomerID
	}

	form := url.Values{}
	if params.Email != nil {
		form.Set("email", *params.Email)
	}
	if params.Name != nil {
		form.Set("name", *params.Name)
	}
	for k, v := range params.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	var out model.BillingCustomer
	if err := c.do(ctx, http.MethodPost, "/v1/customers/"+url.PathEscape(id), form, &out); err != nil {
		return model.BillingCustomer{}, fmt.Errorf("failed to update customer: %w", err)
	}
	return out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingCustomerID
	}

	var out model.BillingCustomer
	if err := c.do(ctx, http.MethodDelete, "/v1/customers/"+url.PathEscape(id), nil, &out); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if !out.Deleted {
		return fmt.Errorf("failed to delete customer: %s not deleted", id)
	}
	return nil
}

func (c *Client) ListCustomers(ctx context.Context, params ListCustomersParams) (CustomerList, error) {
	query := url.Values{}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.StartingAfter != "" {
		query.Set("starting_after", params.StartingAfter)
	}
	if params.Email != "" {
		query.Set("email", params.Email)
	}

	path := "/v1/customers"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var out CustomerList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return CustomerList{}, fmt.Errorf("failed to list customers: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	return retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			return retry.RetryableError(err)
		}
		defer res.Body.Close()

		raw, err := io.ReadAll(res.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		if res.StatusCode >= 300 {
			herr := newHTTPError(res.StatusCode, raw)
			if herr.Temporary() {
				return retry.RetryableError(herr)
			}
			return herr
		}

		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	})
}

// HTTPError is a non-2xx response from the provider.
type HTTPError struct {
	Status  int
	Type    string
	Code    string
	Message string
}

func newHTTPError(status int, body []byte) *HTTPError {
	var payload struct {
		Error struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	return &HTTPError{
		Status:  status,
		Type:    payload.Error.Type,
		Code:    payload.Error.Code,
		Message: payload.Error.Message,
	}
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("billing http error: status %d", e.Status)
	}
	return fmt.Sprintf("billing http error: status %d: %s", e.Status, e.Message)
}

// Temporary reports whether the request may succeed when repeated.
func (e *HTTPError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}
