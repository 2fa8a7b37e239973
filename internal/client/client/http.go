package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

type HTTPClient struct {
	baseURL  string
	http     *http.Client
	observer Observer
	log      logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client. A cookie jar is
// installed on it if it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithObserver(o Observer) Option {
	return func(c *HTTPClient) { c.observer = o }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient creates a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}
	return c, nil
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) PreviewURL(id int64) string {
	return fmt.Sprintf("%s/preview/%d", c.baseURL, id)
}

// send performs one request and maps transport failures and non-2xx answers.
// On success the caller owns resp.Body.
func (c *HTTPClient) send(ctx context.Context, endpoint, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		c.observe(endpoint, 0, elapsed)
		c.log.Debug(ctx, "request failed", "endpoint", endpoint, "request_id", reqID, logging.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", endpoint, ErrUnavailable, err)
	}
	c.observe(endpoint, resp.StatusCode, elapsed)
	c.log.Debug(ctx, "request done", "endpoint", endpoint, "request_id", reqID, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

func (c *HTTPClient) observe(endpoint string, code int, seconds float64) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, code, seconds)
	}
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &payload)
	return &APIError{Status: resp.StatusCode, Message: payload.Error}
}

// doJSON sends in (if non-nil) as JSON and decodes the answer into out (if non-nil).
func (c *HTTPClient) doJSON(ctx context.Context, endpoint, method, path string, in, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, endpoint, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *HTTPClient) SessionInfo(ctx context.Context) (*models.User, error) {
	var resp struct {
		LoggedIn bool         `json:"logged_in"`
		User     *models.User `json:"user"`
	}
	if err := c.doJSON(ctx, "user-info", http.MethodGet, "/user-info", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.LoggedIn || resp.User == nil {
		return nil, nil
	}
	return resp.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.doJSON(ctx, "login", http.MethodPost, "/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("login: response carries no user")
	}
	return resp.User, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	return c.doJSON(ctx, "register", http.MethodPost, "/register", req, nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.doJSON(ctx, "logout", http.MethodPost, "/logout", nil, nil)
}

func (c *HTTPClient) ListFiles(ctx context.Context) (*models.Listing, error) {
	var listing models.Listing
	if err := c.doJSON(ctx, "files", http.MethodGet, "/files", nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *HTTPClient) Upload(ctx context.Context, req UploadRequest) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("pdf", req.Name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return fmt.Errorf("read %s: %w", req.Name, err)
	}
	for k, v := range map[string]string{
		"category":    req.Category,
		"description": req.Description,
		"tags":        req.Tags,
	} {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := c.send(ctx, "upload", http.MethodPost, "/upload", &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *HTTPClient) Delete(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "delete", http.MethodDelete, fmt.Sprintf("/delete/%d", id), nil, nil)
}

func (c *HTTPClient) Download(ctx context.Context, id int64, w io.Writer) (string, error) {
	resp, err := c.send(ctx, "download", http.MethodGet, fmt.Sprintf("/download/%d", id), nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("download %d: %w", id, err)
	}

	name := fmt.Sprintf("file-%d.pdf", id)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return name, nil
}

func (c *HTTPClient) SendInvite(ctx context.Context, req InviteRequest) (*InviteResult, error) {
	var res InviteResult
	if err := c.doJSON(ctx, "send-invite", http.MethodPost, "/send-invite", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	var resp struct {
		Tickets []models.Ticket `json:"tickets"`
	}
	if err := c.doJSON(ctx, "tickets", http.MethodGet, "/support/tickets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tickets, nil
}

func (c *HTTPClient) CreateTicket(ctx context.Context, req TicketRequest) error {
	return c.doJSON(ctx, "create-ticket", http.MethodPost, "/support/tickets", req, nil)
}

func (c *HTTPClient) RespondTicket(ctx context.Context, id int64, req RespondRequest) error {
	return c.doJSON(ctx, "respond-ticket", http.MethodPost, fmt.Sprintf("/admin/tickets/%d/respond", id), req, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var resp struct {
		Users []models.User `json:"users"`
	}
	if err := c.doJSON(ctx, "admin-users", http.MethodGet, "/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *HTTPClient) ToggleUserStatus(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "toggle-user", http.MethodPost, fmt.Sprintf("/admin/users/%d/toggle-status", id), nil, nil)
}

func (c *HTTPClient) ToggleFeatured(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "toggle-featured", http.MethodPost, fmt.Sprintf("/admin/files/featured/%d", id), nil, nil)
}

func (c *HTTPClient) Analytics(ctx context.Context) (*models.Analytics, error) {
	var a models.Analytics
	if err := c.doJSON(ctx, "analytics", http.MethodGet, "/analytics", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
