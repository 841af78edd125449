package route

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"order-dispatch/internal/common"
)

const defaultMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// maxBatch bounds origins and destinations per request so a single call never
// exceeds the distance-matrix service's per-request element limit.
const maxBatch = 25

// unreachable is the sentinel distance/duration assigned to cells the service
// cannot compute; the solver routes around such edges instead of failing the
// whole request.
const unreachable = int64(999_999_999)

// MatrixClient fetches driving distance and duration matrices from the Google
// Distance Matrix API, batched in maxBatch×maxBatch blocks. Each block writes
// a disjoint submatrix, so population is deterministic regardless of request
// order.
type MatrixClient struct {
	httpc   *http.Client
	apiKey  string
	baseURL string
	batch   int
	log     *slog.Logger
}

func NewMatrixClient(apiKey string, timeout time.Duration, logger *slog.Logger) *MatrixClient {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MatrixClient{
		httpc:   &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: defaultMatrixURL,
		batch:   maxBatch,
		log:     logger,
	}
}

// Matrices returns the N×N driving distance (meters) and duration (seconds)
// matrices across the given locations.
func (c *MatrixClient) Matrices(ctx context.Context, locs []Location) ([][]int64, [][]int64, error) {
	n := len(locs)
	coords := make([]string, n)
	for i, l := range locs {
		coords[i] = formatCoord(l.Lat, l.Lng)
	}

	dist := newMatrix(n)
	dur := newMatrix(n)
	for i0 := 0; i0 < n; i0 += c.batch {
		i1 := min(i0+c.batch, n)
		for j0 := 0; j0 < n; j0 += c.batch {
			j1 := min(j0+c.batch, n)
			if err := c.fetchBlock(ctx, coords, i0, i1, j0, j1, dist, dur); err != nil {
				return nil, nil, err
			}
		}
	}
	return dist, dur, nil
}

// fetchBlock requests one origins×destinations block and writes it into the
// [i0,i1)×[j0,j1) submatrix region.
func (c *MatrixClient) fetchBlock(ctx context.Context, coords []string, i0, i1, j0, j1 int, dist, dur [][]int64) error {
	reqID := uuid.New().String()
	start := time.Now()

	q := url.Values{}
	q.Set("origins", strings.Join(coords[i0:i1], "|"))
	q.Set("destinations", strings.Join(coords[j0:j1], "|"))
	q.Set("mode", "driving")
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return common.NewRoutingError("build distance matrix request", err)
	}

	c.log.Info("route.matrix.request",
		"req_id", reqID,
		"origins", i1-i0,
		"destinations", j1-j0,
	)
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error("route.matrix.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return common.NewRoutingError("distance matrix request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, _ := io.ReadAll(resp.Body)
	c.log.Info("route.matrix.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return common.NewRoutingError(fmt.Sprintf("distance matrix non-2xx status: %d", resp.StatusCode), nil)
	}

	var payload struct {
		Status string `json:"status"`
		Rows   []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Value int64 `json:"value"`
				} `json:"distance"`
				Duration struct {
					Value int64 `json:"value"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return common.NewRoutingError("decode distance matrix response", err)
	}
	if payload.Status != "OK" {
		return common.NewRoutingError(fmt.Sprintf("distance matrix returned status: %s", payload.Status), nil)
	}

	for ri, row := range payload.Rows {
		if i0+ri >= i1 {
			break
		}
		for ei, el := range row.Elements {
			if j0+ei >= j1 {
				break
			}
			if el.Status == "OK" {
				dist[i0+ri][j0+ei] = el.Distance.Value
				dur[i0+ri][j0+ei] = el.Duration.Value
			} else {
				dist[i0+ri][j0+ei] = unreachable
				dur[i0+ri][j0+ei] = unreachable
			}
		}
	}
	return nil
}

func newMatrix(n int) [][]int64 {
	m := make([][]int64, n)
	for i := range m {
		m[i] = make([]int64, n)
	}
	return m
}

func formatCoord(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
