package carrier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/unimart/settlement/internal/domain/model"
)

// ErrTrackingNotFound indicates the carrier does not know the tracking number yet.
var ErrTrackingNotFound = errors.New("tracking number not registered")

// Fetcher retrieves a carrier's raw tracking payload.
type Fetcher interface {
	FetchTracking(ctx context.Context, carrier model.Carrier, trackingNumber string) ([]byte, error)
}

// HTTPClient fetches raw payloads from the carrier tracking API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates the tracking fetch client with a bounded timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse carrier api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("carrier api url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// FetchTracking queries the tracking API for one shipment. The response body
// is returned untouched; interpretation belongs to the carrier's normalizer.
func (c *HTTPClient) FetchTracking(ctx context.Context, carrier model.Carrier, trackingNumber string) ([]byte, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/v1/track/", string(carrier), trackingNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound, http.StatusNoContent:
		return nil, ErrTrackingNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("carrier request failed",
			slog.String("carrier", string(carrier)),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("carrier error: %s", resp.Status)
	}
}
