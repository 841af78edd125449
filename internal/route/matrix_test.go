package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-dispatch/internal/common"
)

// matrixHandler decodes the node index back out of each coordinate (the test
// encodes node i as latitude i) and answers with distance 1000*origin+dest
// and duration 100*origin+dest, so every cell of the assembled matrix proves
// which block request produced it.
func matrixHandler(calls *int32, failPair [2]int) http.HandlerFunc {
	nodeIndex := func(coord string) int {
		i, _ := strconv.Atoi(strings.SplitN(coord, ",", 2)[0])
		return i
	}
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		origins := strings.Split(r.URL.Query().Get("origins"), "|")
		dests := strings.Split(r.URL.Query().Get("destinations"), "|")

		rows := make([]map[string]any, 0, len(origins))
		for _, o := range origins {
			oi := nodeIndex(o)
			elements := make([]map[string]any, 0, len(dests))
			for _, d := range dests {
				dj := nodeIndex(d)
				if oi == failPair[0] && dj == failPair[1] {
					elements = append(elements, map[string]any{"status": "NOT_FOUND"})
					continue
				}
				elements = append(elements, map[string]any{
					"status":   "OK",
					"distance": map[string]any{"value": 1000*oi + dj},
					"duration": map[string]any{"value": 100*oi + dj},
				})
			}
			rows = append(rows, map[string]any{"elements": elements})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "OK", "rows": rows})
	}
}

func testLocations(n int) []Location {
	locs := make([]Location, n)
	for i := range locs {
		locs[i] = Location{Lat: float64(i), Lng: 0}
	}
	return locs
}

func newTestMatrixClient(serverURL string, batch int) *MatrixClient {
	c := NewMatrixClient("test-key", time.Second, nil)
	c.baseURL = serverURL
	c.batch = batch
	return c
}

func TestMatricesAssemblesBlocks(t *testing.T) {
	var calls int32
	server := httptest.NewServer(matrixHandler(&calls, [2]int{-1, -1}))
	defer server.Close()

	// Three locations with a batch size of two: 2x2, 2x1, 1x2 and 1x1
	// blocks, four requests in total.
	dist, dur, err := newTestMatrixClient(server.URL, 2).Matrices(context.Background(), testLocations(3))
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, int64(1000*i+j), dist[i][j], "dist[%d][%d]", i, j)
			assert.Equal(t, int64(100*i+j), dur[i][j], "dur[%d][%d]", i, j)
		}
	}
}

func TestMatricesFailedElementBecomesSentinel(t *testing.T) {
	var calls int32
	server := httptest.NewServer(matrixHandler(&calls, [2]int{1, 2}))
	defer server.Close()

	dist, dur, err := newTestMatrixClient(server.URL, 25).Matrices(context.Background(), testLocations(3))
	require.NoError(t, err)

	assert.Equal(t, unreachable, dist[1][2])
	assert.Equal(t, unreachable, dur[1][2])
	assert.Equal(t, int64(1002), dist[1][0]+dist[0][2], "other cells unaffected")
}

func TestMatricesServiceStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"OVER_QUERY_LIMIT","rows":[]}`)
	}))
	defer server.Close()

	_, _, err := newTestMatrixClient(server.URL, 25).Matrices(context.Background(), testLocations(2))

	var re *common.RoutingError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Message, "OVER_QUERY_LIMIT")
}

func TestMatricesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, _, err := newTestMatrixClient(server.URL, 25).Matrices(context.Background(), testLocations(2))

	var re *common.RoutingError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Message, "non-2xx")
}
