package ilp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/platform/logger"
	"drone-delivery-planner/internal/platform/obs"
)

// Client implements ports.ReferenceDataProvider against the upstream ILP
// REST service. It is safe for concurrent use.
type Client struct {
	session     *http.Client
	baseURL     string
	maxAttempts int
	backoff     time.Duration
	log         logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.session = hc
		}
	}
}

// WithRetry sets the attempt budget and the first backoff delay.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("ilp client: base url is empty")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("ilp client: parse base url: %w", err)
	}

	c := &Client{
		session:     &http.Client{Timeout: 10 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
		log:         logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) getJSON(ctx context.Context, resource string, out any) (err error) {
	defer obs.Time(ctx, c.log, "ilp."+resource)(&err)

	endpoint := c.baseURL + "/" + resource
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		return fmt.Errorf("get %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", resource, err)
	}
	return nil
}

func (c *Client) Drones(ctx context.Context) ([]domain.Drone, error) {
	var wire []droneDTO
	if err := c.getJSON(ctx, "drones", &wire); err != nil {
		return nil, err
	}

	out := make([]domain.Drone, 0, len(wire))
	for _, w := range wire {
		d, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("ilp drones: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *Client) ServicePoints(ctx context.Context) ([]domain.ServicePoint, error) {
	var wire []servicePointDTO
	if err := c.getJSON(ctx, "service-points", &wire); err != nil {
		return nil, err
	}

	out := make([]domain.ServicePoint, 0, len(wire))
	for _, w := range wire {
		sp, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("ilp service points: %w", err)
		}
		out = append(out, sp)
	}
	return out, nil
}

func (c *Client) ServicePointDrones(ctx context.Context) ([]domain.ServicePointDrones, error) {
	var wire []servicePointDronesDTO
	if err := c.getJSON(ctx, "drones-for-service-points", &wire); err != nil {
		return nil, err
	}

	out := make([]domain.ServicePointDrones, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toDomain())
	}
	return out, nil
}

func (c *Client) RestrictedAreas(ctx context.Context) ([]domain.RestrictedArea, error) {
	var wire []restrictedAreaDTO
	if err := c.getJSON(ctx, "restricted-areas", &wire); err != nil {
		return nil, err
	}

	out := make([]domain.RestrictedArea, 0, len(wire))
	for _, w := range wire {
		a, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("ilp restricted areas: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}
