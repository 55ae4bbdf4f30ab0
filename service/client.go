package service

import (
	"bytes"
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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"readinghall-dashboard/model"
)

const (
	defaultBaseURL     = "http://localhost:5000"
	defaultUserAgent   = "readinghall-dashboard/1.0"
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 2
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
	errorBodyLimit     = 8 << 10
)

// Client wraps HTTP access to the reading hall API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
	log         *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithMaxAttempts sets how many times a GET is attempted on transient failures.
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// APIError is returned when the API responds with a non-2xx status. Body is
// the backend payload verbatim.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return "readinghall api error"
	}
	return fmt.Sprintf("readinghall api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports whether the error represents a 409 from the API, e.g. a
// seat that is already taken.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// NewClient creates a new API client. If httpClient is nil, a default client
// with a bounded request timeout is used.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	c := &Client{
		httpClient:  httpClient,
		baseURL:     defaultBaseURL,
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetOverview fetches the aggregate occupancy counters.
func (c *Client) GetOverview(ctx context.Context) (model.OverviewSnapshot, error) {
	var overview model.OverviewSnapshot
	if err := c.getJSON(ctx, c.baseURL+"/api/analytics/overview", &overview); err != nil {
		return model.OverviewSnapshot{}, err
	}
	return overview, nil
}

// GetUsage fetches per-day usage for the last days, most recent day first.
func (c *Client) GetUsage(ctx context.Context, days int) (model.UsageReport, error) {
	if days <= 0 {
		return model.UsageReport{}, errors.New("days must be positive")
	}
	endpoint := fmt.Sprintf("%s/api/analytics/usage?days=%d", c.baseURL, days)
	var report model.UsageReport
	if err := c.getJSON(ctx, endpoint, &report); err != nil {
		return model.UsageReport{}, err
	}
	return report, nil
}

func (c *Client) GetHalls(ctx context.Context) ([]model.Hall, error) {
	var halls []model.Hall
	if err := c.getJSON(ctx, c.baseURL+"/api/halls", &halls); err != nil {
		return nil, err
	}
	return halls, nil
}

// GetHallSeats fetches the seat snapshot of one hall.
func (c *Client) GetHallSeats(ctx context.Context, hallID string) ([]model.Seat, error) {
	hallID = strings.TrimSpace(hallID)
	if hallID == "" {
		return nil, errors.New("hall id is required")
	}
	endpoint := fmt.Sprintf("%s/api/halls/%s/seats", c.baseURL, url.PathEscape(hallID))
	var seats []model.Seat
	if err := c.getJSON(ctx, endpoint, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

func (c *Client) GetActiveSessions(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	if err := c.getJSON(ctx, c.baseURL+"/api/sessions/active", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) GetUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.getJSON(ctx, c.baseURL+"/api/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserByBarcode resolves the user a barcode belongs to.
func (c *Client) GetUserByBarcode(ctx context.Context, barcode string) (model.User, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return model.User{}, errors.New("barcode is required")
	}
	endpoint := fmt.Sprintf("%s/api/users/%s", c.baseURL, url.PathEscape(barcode))
	var user model.User
	if err := c.getJSON(ctx, endpoint, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// CheckIn starts a session for the barcode holder on a seat.
func (c *Client) CheckIn(ctx context.Context, barcode string, seatID int64) (model.CheckInResult, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" || seatID <= 0 {
		return model.CheckInResult{}, errors.New("barcode and seat id are required")
	}
	var result model.CheckInResult
	body := model.CheckInRequest{Barcode: barcode, SeatId: seatID}
	if err := c.sendJSON(ctx, http.MethodPost, c.baseURL+"/api/checkin", body, &result); err != nil {
		return model.CheckInResult{}, err
	}
	return result, nil
}

// CheckOut ends the active session of the barcode holder.
func (c *Client) CheckOut(ctx context.Context, barcode string) (model.CheckOutResult, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return model.CheckOutResult{}, errors.New("barcode is required")
	}
	var result model.CheckOutResult
	body := model.CheckOutRequest{Barcode: barcode}
	if err := c.sendJSON(ctx, http.MethodPost, c.baseURL+"/api/checkout", body, &result); err != nil {
		return model.CheckOutResult{}, err
	}
	return result, nil
}

func (c *Client) GetConfig(ctx context.Context) ([]model.ConfigEntry, error) {
	var entries []model.ConfigEntry
	if err := c.getJSON(ctx, c.baseURL+"/api/config", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetConfig writes one configuration key; the backend inserts unknown keys.
func (c *Client) SetConfig(ctx context.Context, update model.ConfigUpdate) (model.MessageResult, error) {
	update.Key = strings.TrimSpace(update.Key)
	if update.Key == "" {
		return model.MessageResult{}, errors.New("config key is required")
	}
	var result model.MessageResult
	if err := c.sendJSON(ctx, http.MethodPut, c.baseURL+"/api/config", update, &result); err != nil {
		return model.MessageResult{}, err
	}
	return result, nil
}

// ReportDetection forwards one vision detection event.
func (c *Client) ReportDetection(ctx context.Context, detection model.Detection) (model.MessageResult, error) {
	if detection.SeatId <= 0 {
		return model.MessageResult{}, errors.New("seat id is required")
	}
	if detection.Confidence < 0 || detection.Confidence > 1 {
		return model.MessageResult{}, fmt.Errorf("confidence %s out of range [0,1]", strconv.FormatFloat(detection.Confidence, 'f', -1, 64))
	}
	var result model.MessageResult
	if err := c.sendJSON(ctx, http.MethodPost, c.baseURL+"/api/vision/detection", detection, &result); err != nil {
		return model.MessageResult{}, err
	}
	return result, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				c.log.Debug("retrying request", zap.String("endpoint", endpoint), zap.Int("attempt", attempt), zap.Error(err))
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			apiErr := readAPIError(res, endpoint)
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				c.log.Debug("retrying request", zap.String("endpoint", endpoint), zap.Int("attempt", attempt), zap.Int("status", res.StatusCode))
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		return decodeBody(res, endpoint, out)
	}

	return errors.New("request failed after retries")
}

// sendJSON issues a single non-idempotent request; writes are never retried.
func (c *Client) sendJSON(ctx context.Context, method string, endpoint string, in any, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := c.newRequest(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return readAPIError(res, endpoint)
	}
	return decodeBody(res, endpoint, out)
}

func (c *Client) newRequest(ctx context.Context, method string, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func readAPIError(res *http.Response, endpoint string) *APIError {
	snippet, _ := io.ReadAll(io.LimitReader(res.Body, errorBodyLimit))
	_ = res.Body.Close()

	apiErr := &APIError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Endpoint:   endpoint,
		Body:       strings.TrimSpace(string(snippet)),
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(snippet, &payload) == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}

func decodeBody(res *http.Response, endpoint string, out any) error {
	dec := json.NewDecoder(res.Body)
	err := dec.Decode(out)
	_ = res.Body.Close()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}
