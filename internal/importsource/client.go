// Package importsource fetches import payloads from a remote estimating
// service, behind a circuit breaker.
package importsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/importer"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var (
	// ErrNotFound is returned when the source has no payload for a ref.
	ErrNotFound = errors.New("import not found")
	// ErrUnavailable is returned while the breaker is open.
	ErrUnavailable = errors.New("import source unavailable")
)

const maxPayloadBytes = 4 << 20

// Options configures a Client. Zero values get defaults.
type Options struct {
	BaseURL string
	// Timeout bounds a single request.
	Timeout time.Duration
	// MaxFailures consecutive failures open the breaker.
	MaxFailures uint32
	// OpenFor is how long the breaker stays open before probing again.
	OpenFor    time.Duration
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Client fetches import schemas from GET {BaseURL}/imports/{ref}.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     logrus.FieldLogger
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("import source URL is not configured")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing import source URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 3
	}
	if opts.OpenFor <= 0 {
		opts.OpenFor = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}

	c := &Client{baseURL: base, http: opts.HTTPClient, log: opts.Logger}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "import-source",
		MaxRequests: 1,
		Timeout:     opts.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// A missing payload is an answer, not a fault of the source.
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("import source circuit breaker changed state")
		},
	})
	return c, nil
}

// State reports the breaker state ("closed", "open", "half-open").
func (c *Client) State() string {
	return c.breaker.State().String()
}

// Fetch downloads and parses the payload for ref. The payload format
// follows the response Content-Type (YAML when it mentions yaml).
func (c *Client) Fetch(ctx context.Context, ref string) (*importer.ImportSchema, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("import ref is required")
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, ref)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return nil, err
	}
	return out.(*importer.ImportSchema), nil
}

func (c *Client) fetch(ctx context.Context, ref string) (*importer.ImportSchema, error) {
	endpoint := c.baseURL.JoinPath("imports", ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building import request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting import %s: %w", ref, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"ref":         ref,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("import source responded")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("import source returned %s for %s", resp.Status, ref)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("reading import %s: %w", ref, err)
	}
	format := importer.FormatJSON
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "yaml") {
		format = importer.FormatYAML
	}
	return importer.ParseImportSchema(data, format)
}
