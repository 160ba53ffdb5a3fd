package pocketbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	"github.com/bugswriter/bizniz-api/internal/domain/port/core"
)

// pbTimeLayout is the timestamp format PocketBase uses in record payloads
const pbTimeLayout = "2006-01-02 15:04:05.000Z"

// Client is a thin REST client for a PocketBase instance. It authenticates
// as an admin once and re-authenticates transparently when the token expires.
type Client struct {
	http          *resty.Client
	adminEmail    string
	adminPassword string
	logger        core.Logger

	mu         sync.RWMutex
	adminToken string
}

// NewClient creates a PocketBase client pointed at the given base URL
func NewClient(baseURL, adminEmail, adminPassword string, timeout time.Duration, logger core.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:          httpClient,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		logger:        logger,
	}
}

// adminAuthResponse is the payload returned by the admin auth endpoint
type adminAuthResponse struct {
	Token string `json:"token"`
}

// apiError is the error body PocketBase returns on non-2xx responses
type apiError struct {
	Code    int                       `json:"code"`
	Message string                    `json:"message"`
	Data    map[string]apiErrorDetail `json:"data"`
}

type apiErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Authenticate obtains a fresh admin token. Must be called once at startup;
// afterwards the client refreshes the token itself on 401 responses.
func (c *Client) Authenticate(ctx context.Context) error {
	var result adminAuthResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"identity": c.adminEmail,
			"password": c.adminPassword,
		}).
		SetResult(&result).
		Post("/api/admins/auth-with-password")
	if err != nil {
		return fmt.Errorf("pocketbase admin auth: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("pocketbase admin auth: status %d: %w", resp.StatusCode(), errs.ErrExternalService)
	}

	c.mu.Lock()
	c.adminToken = result.Token
	c.mu.Unlock()

	c.logger.Info("authenticated with pocketbase admin API", nil)
	return nil
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.adminToken
}

// adminRequest builds a request carrying the cached admin token
func (c *Client) adminRequest(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", c.token())
}

// execAdmin runs fn with the current admin token and retries once with a
// fresh token if the first attempt comes back 401
func (c *Client) execAdmin(ctx context.Context, fn func(req *resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	resp, err := fn(c.adminRequest(ctx))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		if authErr := c.Authenticate(ctx); authErr != nil {
			return nil, authErr
		}
		return fn(c.adminRequest(ctx))
	}

	return resp, nil
}

// parseAPIError decodes the PocketBase error body from a non-2xx response
func parseAPIError(resp *resty.Response) *apiError {
	var apiErr apiError
	if err := json.Unmarshal(resp.Body(), &apiErr); err != nil {
		return &apiError{Code: resp.StatusCode(), Message: resp.Status()}
	}
	if apiErr.Code == 0 {
		apiErr.Code = resp.StatusCode()
	}
	return &apiErr
}

// hasFieldError reports whether the error body names the given validation
// code for the given field
func (e *apiError) hasFieldError(field, code string) bool {
	detail, ok := e.Data[field]
	return ok && detail.Code == code
}

// parseTime parses a PocketBase record timestamp, tolerating both the
// space-separated layout and RFC 3339
func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(pbTimeLayout, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}
