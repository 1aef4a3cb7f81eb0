// Package farm provides a client for the charity farm web API: user stats,
// projects, contributions, taps, AFK earnings and upgrades.
package farm

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

	"github.com/theirongolddev/cfarm/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "github.com/theirongolddev/cfarm/1.0"
	sessionCookie  = "session"
)

var (
	// ErrUnauthorized indicates the session cookie is missing or expired. The
	// server answers those with a redirect to its login page.
	ErrUnauthorized = errors.New("farm: unauthorized (session expired or missing)")
	// ErrRateLimited indicates the server's request limiter kicked in.
	ErrRateLimited = errors.New("farm: rate limited")
	// ErrTransport wraps failures where no usable response was received.
	ErrTransport = errors.New("farm: transport failure")
)

// APIError is an application error reported by the server. Message is the
// server's text, unmodified.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("farm: server error (%d): %s", e.Status, e.Message)
}

// Client talks to one charity farm server.
type Client struct {
	baseURL string
	session string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Redirects are still
// not followed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			cp := *hc
			cp.CheckRedirect = noRedirect
			c.http = &cp
		}
	}
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

// NewClient creates a client for the server at baseURL. session is the value
// of the server's session cookie and may be empty.
func NewClient(baseURL, session string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("farm: empty base URL")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("farm: parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("farm: unsupported scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: baseURL,
		session: strings.TrimSpace(session),
		http:    &http.Client{CheckRedirect: noRedirect},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchStats returns the current user's stats.
func (c *Client) FetchStats(ctx context.Context) (model.UserStats, error) {
	body, err := c.do(ctx, http.MethodGet, "/user_stats", "", nil)
	if err != nil {
		return model.UserStats{}, err
	}

	var s model.UserStats
	if err := json.Unmarshal(body, &s); err != nil {
		return model.UserStats{}, fmt.Errorf("farm: parsing stats: %w", err)
	}
	return s, nil
}

// FetchProjects returns the project list.
func (c *Client) FetchProjects(ctx context.Context) ([]model.Project, error) {
	body, err := c.do(ctx, http.MethodGet, "/projects", "", nil)
	if err != nil {
		return nil, err
	}

	var ps []model.Project
	if err := json.Unmarshal(body, &ps); err != nil {
		return nil, fmt.Errorf("farm: parsing projects: %w", err)
	}
	return ps, nil
}

// Contribute sends amount to a project with a JSON body.
func (c *Client) Contribute(ctx context.Context, id model.ProjectID, amount float64) (model.ContributeResult, error) {
	payload, err := json.Marshal(struct {
		Amount float64 `json:"amount"`
	}{amount})
	if err != nil {
		return model.ContributeResult{}, fmt.Errorf("farm: encoding contribution: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, helpPath(id), "application/json", bytes.NewReader(payload))
	if err != nil {
		return model.ContributeResult{}, err
	}
	return parseContribution(body)
}

// ContributeForm sends amount to a project as a form post, the way the
// confirm-dialog buttons do.
func (c *Client) ContributeForm(ctx context.Context, id model.ProjectID, amount float64) (model.ContributeResult, error) {
	form := url.Values{"amount": {strconv.FormatFloat(amount, 'f', -1, 64)}}
	body, err := c.do(ctx, http.MethodPost, helpPath(id), "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return model.ContributeResult{}, err
	}
	return parseContribution(body)
}

// Tap claims a tap reward and returns the refreshed stats.
func (c *Client) Tap(ctx context.Context) (model.TapResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/tap", "", nil)
	if err != nil {
		return model.TapResult{}, err
	}

	var r model.TapResult
	if err := decodeAction(body, "tap", &r); err != nil {
		return model.TapResult{}, err
	}
	var totals struct {
		TotalHelp         *float64 `json:"total_help"`
		CompletedProjects *int     `json:"completed_projects"`
	}
	_ = json.Unmarshal(body, &totals)
	r.HasTotals = totals.TotalHelp != nil || totals.CompletedProjects != nil
	return r, nil
}

// CollectAFK claims the passive earnings accrued since the last claim.
func (c *Client) CollectAFK(ctx context.Context) (model.AFKResult, error) {
	body, err := c.do(ctx, http.MethodGet, "/afk_earnings", "", nil)
	if err != nil {
		return model.AFKResult{}, err
	}

	var r model.AFKResult
	if err := decodeAction(body, "afk earnings", &r); err != nil {
		return model.AFKResult{}, err
	}
	return r, nil
}

// PurchaseUpgrade buys the next level of an upgrade.
func (c *Client) PurchaseUpgrade(ctx context.Context, id string) (model.UpgradeResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/purchase_upgrade/"+url.PathEscape(id), "", nil)
	if err != nil {
		return model.UpgradeResult{}, err
	}

	var r model.UpgradeResult
	if err := decodeAction(body, "upgrade", &r); err != nil {
		return model.UpgradeResult{}, err
	}
	return r, nil
}

// decodeAction checks the status envelope of an action response and decodes
// the rest into v.
func decodeAction(body []byte, what string, v any) error {
	var st status
	if err := json.Unmarshal(body, &st); err != nil {
		return fmt.Errorf("farm: parsing %s: %w", what, err)
	}
	if apiErr := st.apiError(http.StatusOK); apiErr != nil {
		return apiErr
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("farm: parsing %s: %w", what, err)
	}
	return nil
}

func helpPath(id model.ProjectID) string {
	return "/help_project/" + url.PathEscape(string(id))
}

// status is the envelope shared by action responses.
type status struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// apiError returns the application error carried by the envelope, if any.
// "error" wins over "message"; a bare success=false is still an error.
func (s status) apiError(code int) *APIError {
	switch {
	case s.Error != "":
		return &APIError{Status: code, Message: s.Error}
	case s.Success != nil && !*s.Success:
		msg := s.Message
		if msg == "" {
			msg = http.StatusText(code)
		}
		return &APIError{Status: code, Message: msg}
	}
	return nil
}

func parseContribution(body []byte) (model.ContributeResult, error) {
	var raw struct {
		status
		NewBalance      *float64 `json:"new_balance"`
		UserBalance     *float64 `json:"user_balance"`
		ProjectProgress float64  `json:"project_progress"`
		TotalHelp       float64  `json:"total_help"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.ContributeResult{}, fmt.Errorf("farm: parsing contribution: %w", err)
	}
	if apiErr := raw.apiError(http.StatusOK); apiErr != nil {
		return model.ContributeResult{}, apiErr
	}

	r := model.ContributeResult{
		Success:         raw.Success == nil || *raw.Success,
		ProjectProgress: raw.ProjectProgress,
		TotalHelp:       raw.TotalHelp,
		Message:         raw.Message,
	}
	switch {
	case raw.NewBalance != nil:
		r.NewBalance = *raw.NewBalance
	case raw.UserBalance != nil:
		r.NewBalance = *raw.UserBalance
	}
	return r, nil
}

// do performs a request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("farm: creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.session})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	// Server text wins over the status code whenever the body carries one.
	var st status
	if json.Unmarshal(data, &st) == nil {
		if apiErr := st.apiError(resp.StatusCode); apiErr != nil {
			return nil, apiErr
		}
		if st.Message != "" {
			return nil, &APIError{Status: resp.StatusCode, Message: st.Message}
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}
	return nil, fmt.Errorf("farm: unexpected status %d", resp.StatusCode)
}
