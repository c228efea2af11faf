package partner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
)

const maxBodySize = 4 << 20

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("partner %s %s: unexpected status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// Client is an HTTP client for the checkout backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger sets the logger used for conversion warnings.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient creates a client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid partner base URL %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchSession returns the configuration of the checkout session sid.
func (c *Client) FetchSession(ctx context.Context, sid string) (*SessionConfig, error) {
	if sid == "" {
		return nil, fmt.Errorf("session key is required")
	}
	endpoint := c.baseURL + "/intake/session?" + url.Values{"sid": {sid}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var cfg SessionConfig
	if err := c.do(req, &cfg); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: session %q: %v", domain.ErrQuestionnaireNotFound, sid, err)
		}
		return nil, err
	}
	return &cfg, nil
}

// Load fetches the session configuration for ref (the session key) and
// converts its questionnaire.
func (c *Client) Load(ctx context.Context, ref string) ([]domain.Question, error) {
	cfg, err := c.FetchSession(ctx, ref)
	if err != nil {
		return nil, err
	}
	if cfg.Questionnaire == nil {
		return nil, fmt.Errorf("%w: session %q has no questionnaire", domain.ErrQuestionnaireNotFound, ref)
	}
	return Convert(cfg.Questionnaire.Questions, c.logger), nil
}

// SubmitOrder posts the finished order.
func (c *Client) SubmitOrder(ctx context.Context, order domain.Order) error {
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/intake/process", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("failed to submit order: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("partner request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read partner response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method: req.Method,
			URL:    req.URL.Path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode partner response: %w", err)
	}
	return nil
}
