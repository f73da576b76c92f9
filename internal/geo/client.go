package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPError wraps non-2xx upstream responses so callers can map them to
// gateway errors.
type HTTPError struct {
	Status int
	Body   string
}

// Error prints the upstream status and body.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// IsHTTPError reports whether err is an upstream error with the given status.
func IsHTTPError(err error, status int) bool {
	if err == nil {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status == status
	}
	return false
}

// KMLocation is the upstream response for a km point lookup
type KMLocation struct {
	Rodovia   string  `json:"rodovia"`
	UF        string  `json:"uf"`
	Km        float64 `json:"km"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinates is the upstream response for a coordinate lookup from a km
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client talks to the external highway geometry service
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryCount int
}

// NewClient creates a geometry service client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryCount: 2,
	}
}

// KMLocation resolves the geographic point of a km along a highway
func (c *Client) KMLocation(ctx context.Context, rodovia, uf string, km float64) (*KMLocation, error) {
	q := url.Values{}
	q.Set("rodovia", rodovia)
	q.Set("uf", uf)
	q.Set("km", strconv.FormatFloat(km, 'f', -1, 64))

	var loc KMLocation
	if err := c.getJSON(ctx, "/km-location?"+q.Encode(), &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// CoordinatesFromKM resolves lat/lon coordinates from a km marker
func (c *Client) CoordinatesFromKM(ctx context.Context, rodovia, uf string, km float64) (*Coordinates, error) {
	q := url.Values{}
	q.Set("rodovia", rodovia)
	q.Set("uf", uf)
	q.Set("km", strconv.FormatFloat(km, 'f', -1, 64))

	var coords Coordinates
	if err := c.getJSON(ctx, "/coordinates-from-km?"+q.Encode(), &coords); err != nil {
		return nil, err
	}
	return &coords, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	doOnce := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			b, _ := io.ReadAll(resp.Body)
			return &HTTPError{
				Status: resp.StatusCode,
				Body:   strings.TrimSpace(string(b)),
			}
		}

		return json.NewDecoder(resp.Body).Decode(out)
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = doOnce()
		if err == nil {
			return nil
		}
		if attempt >= c.retryCount || !isRetryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffFor(attempt)):
		}
	}
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

func backoffFor(attempt int) time.Duration {
	d := 300 * time.Millisecond << attempt
	if d > 3*time.Second {
		return 3 * time.Second
	}
	return d
}
