// Package client is the API client the mobile front end talks through.
// Every call is wrapped in a bounded retry: transport failures and 5xx
// responses are retried up to three attempts with 1s/2s backoff, while
// 4xx responses are terminal. Creates carry a stable Idempotency-Key so
// a retried POST cannot produce a duplicate record.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultMaxAttempts = 3

// Car is the wire representation of a vehicle-finance record.
type Car struct {
	ID                 int     `json:"id,omitempty"`
	LicensePlate       string  `json:"licensePlate"`
	RegistrationNumber string  `json:"registrationNumber,omitempty"`
	Brand              string  `json:"brand"`
	Model              string  `json:"model,omitempty"`
	Color              string  `json:"color,omitempty"`
	ChassisNo          string  `json:"chassisNo,omitempty"`
	EngineNo           string  `json:"engineNo,omitempty"`
	Finance            string  `json:"finance,omitempty"`
	FinanceStatus      string  `json:"financeStatus"`
	RemainingAmount    float64 `json:"remainingAmount"`
	MonthlyPayment     float64 `json:"monthlyPayment"`
}

// APIError is a terminal response from the server (4xx/5xx).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
	backoff     func(attempt int) time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithBackoff(backoff func(attempt int) time.Duration) Option {
	return func(c *Client) { c.backoff = backoff }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// defaultBackoff waits 1s after the first failed attempt and 2s after
// the second.
func defaultBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// ListCars fetches all records, or those whose plate contains
// plateFilter as a case-insensitive substring.
func (c *Client) ListCars(ctx context.Context, plateFilter string) ([]Car, error) {
	path := "/api/cars"
	if plateFilter != "" {
		path += "?plate=" + url.QueryEscape(plateFilter)
	}
	var cars []Car
	if err := c.do(ctx, http.MethodGet, path, nil, "", &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// CreateCar creates a record. One idempotency key is minted per call
// and reused across retries, so an ambiguous failure retried by the
// client cannot insert twice.
func (c *Client) CreateCar(ctx context.Context, car Car) (*Car, error) {
	var created Car
	if err := c.do(ctx, http.MethodPost, "/api/cars", &car, uuid.NewString(), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCar replaces the record identified by id.
func (c *Client) UpdateCar(ctx context.Context, id int, car Car) (*Car, error) {
	var updated Car
	path := fmt.Sprintf("/api/cars/%d", id)
	if err := c.do(ctx, http.MethodPut, path, &car, "", &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCar removes the record identified by id.
func (c *Client) DeleteCar(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cars/%d", id), nil, "", nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, idemKey string, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if idemKey != "" {
			req.Header.Set("Idempotency-Key", idemKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = apiError(resp)
			continue
		}

		return decodeResponse(resp, out)
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError drains and closes the body of a retryable response.
func apiError(resp *http.Response) error {
	defer resp.Body.Close()
	return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
}

func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if err != nil {
		return resp.Status
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}

	if msg := strings.TrimSpace(string(data)); msg != "" {
		return msg
	}
	return resp.Status
}
