package geocode

import (
	"context"
	"log/slog"
)

// Geocoder resolves a formatted address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, formatted string) (float64, float64, error)
}

// Resolver is a cache-through geocoder: a cache hit never touches the
// external service, and every successful external lookup is stored under the
// exact formatted-address key before returning.
type Resolver struct {
	cache  *FileCache
	client Geocoder
	log    *slog.Logger
}

func NewResolver(cache *FileCache, client Geocoder, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cache: cache, client: client, log: logger}
}

// Resolve geocodes an address, consulting the durable cache first.
func (r *Resolver) Resolve(ctx context.Context, address, city, zipCode string) (float64, float64, error) {
	formatted := FormatAddress(address, city, zipCode)

	if coords, ok := r.cache.Lookup(formatted); ok {
		r.log.Debug("geocode.cache.hit", "address", formatted)
		return coords.Lat, coords.Lng, nil
	}

	lat, lng, err := r.client.Geocode(ctx, formatted)
	if err != nil {
		return 0, 0, err
	}

	if err := r.cache.Store(formatted, Coordinates{Lat: lat, Lng: lng}); err != nil {
		// A failed cache write costs a redundant lookup next time, nothing more.
		r.log.Warn("geocode.cache.store_error", "address", formatted, "error", err)
	}
	return lat, lng, nil
}
