package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"order-dispatch/internal/common"
)

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Client geocodes formatted addresses against the Google Geocoding API.
type Client struct {
	httpc   *http.Client
	apiKey  string
	baseURL string
	log     *slog.Logger
}

func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpc:   &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: defaultGeocodeURL,
		log:     logger,
	}
}

// FormatAddress joins address components into the exact string keyed in the
// cache and sent to the geocoding service.
func FormatAddress(address, city, zipCode string) string {
	return strings.TrimSpace(fmt.Sprintf("%s, %s %s", address, city, zipCode))
}

// Geocode resolves one formatted address. Failures come back as
// *common.GeocodingError carrying the address and a human-readable reason.
func (c *Client) Geocode(ctx context.Context, formatted string) (float64, float64, error) {
	reqID := uuid.New().String()
	start := time.Now()

	q := url.Values{}
	q.Set("address", formatted)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, common.NewGeocodingError(formatted, fmt.Sprintf("build request: %v", err))
	}

	c.log.Info("geocode.request", "req_id", reqID)
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error("geocode.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return 0, 0, common.NewGeocodingError(formatted, fmt.Sprintf("http error: %v", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, _ := io.ReadAll(resp.Body)
	c.log.Info("geocode.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return 0, 0, common.NewGeocodingError(formatted, fmt.Sprintf("non-2xx status: %d", resp.StatusCode))
	}

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, 0, common.NewGeocodingError(formatted, fmt.Sprintf("decode response: %v", err))
	}
	if payload.Status != "OK" || len(payload.Results) == 0 {
		return 0, 0, common.NewGeocodingError(formatted, fmt.Sprintf("service returned status: %s", payload.Status))
	}

	loc := payload.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
