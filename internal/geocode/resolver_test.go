package geocode

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-dispatch/internal/common"
)

type fakeGeocoder struct {
	calls  int
	coords map[string]Coordinates
}

func (f *fakeGeocoder) Geocode(_ context.Context, formatted string) (float64, float64, error) {
	f.calls++
	c, ok := f.coords[formatted]
	if !ok {
		return 0, 0, common.NewGeocodingError(formatted, "service returned status: ZERO_RESULTS")
	}
	return c.Lat, c.Lng, nil
}

func TestResolverCachesLookups(t *testing.T) {
	fake := &fakeGeocoder{coords: map[string]Coordinates{
		"100 Main St, Quincy 02169": {Lat: 42.2529, Lng: -71.0023},
	}}
	cache := NewFileCache(filepath.Join(t.TempDir(), "cache.json"), nil)
	resolver := NewResolver(cache, fake, nil)

	lat, lng, err := resolver.Resolve(context.Background(), "100 Main St", "Quincy", "02169")
	require.NoError(t, err)
	assert.Equal(t, 42.2529, lat)
	assert.Equal(t, -71.0023, lng)
	assert.Equal(t, 1, fake.calls)

	// Same formatted address again: served from the cache, identical
	// coordinates, no further external call.
	lat2, lng2, err := resolver.Resolve(context.Background(), "100 Main St", "Quincy", "02169")
	require.NoError(t, err)
	assert.Equal(t, lat, lat2)
	assert.Equal(t, lng, lng2)
	assert.Equal(t, 1, fake.calls)
}

func TestResolverPropagatesFailures(t *testing.T) {
	fake := &fakeGeocoder{coords: map[string]Coordinates{}}
	cache := NewFileCache(filepath.Join(t.TempDir(), "cache.json"), nil)
	resolver := NewResolver(cache, fake, nil)

	_, _, err := resolver.Resolve(context.Background(), "nowhere", "", "")
	require.Error(t, err)

	var ge *common.GeocodingError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "nowhere,", ge.Address)

	// Failures are never cached.
	_, _, _ = resolver.Resolve(context.Background(), "nowhere", "", "")
	assert.Equal(t, 2, fake.calls)
}

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		city     string
		zip      string
		expected string
	}{
		{"full address", "100 Main St", "Quincy", "02169", "100 Main St, Quincy 02169"},
		{"free-text start address", "Boston Common", "", "", "Boston Common,"},
		{"missing zip", "8 Oak Ave", "Malden", "", "8 Oak Ave, Malden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAddress(tt.address, tt.city, tt.zip))
		})
	}
}
