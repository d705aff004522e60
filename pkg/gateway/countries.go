package gateway

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

// CachedCountries serves single-country lookups from a tiered cache.
// Countries are seeded reference data, so entries are never invalidated
// before their TTL.
type CachedCountries struct {
	CountryService
	cache *storage.TieredCache[model.Country]
}

var _ CountryService = (*CachedCountries)(nil)

func NewCachedCountries(next CountryService, cache *storage.TieredCache[model.Country]) *CachedCountries {
	return &CachedCountries{CountryService: next, cache: cache}
}

// Get returns a cached country, asking the geo service on a miss
func (c *CachedCountries) Get(ctx context.Context, id uuid.UUID) (*model.Country, error) {
	country, err := c.cache.Get(ctx, id.String())
	if err == nil {
		return &country, nil
	}
	if !errors.Is(err, storage.ErrCacheMiss) {
		observability.FromContext(ctx).WithError(err).Warn("country cache read failed")
	}

	fetched, err := c.CountryService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, id.String(), *fetched); err != nil {
		observability.FromContext(ctx).WithError(err).Warn("country cache write failed")
	}
	return fetched, nil
}
