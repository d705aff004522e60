package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds the fan-out of a single composition
const maxConcurrentLookups = 8

// Composer fills in the references backends only know by id
type Composer struct {
	artists   ArtistService
	museums   MuseumService
	countries CountryService
}

func NewComposer(artists ArtistService, museums MuseumService, countries CountryService) *Composer {
	return &Composer{artists: artists, museums: museums, countries: countries}
}

// lookupAll fetches every distinct id concurrently. Ids that no longer
// exist are left out of the result; any other failure aborts the lookup.
func lookupAll[V any](ctx context.Context, ids []uuid.UUID, fetch func(context.Context, uuid.UUID) (*V, error)) (map[uuid.UUID]*V, error) {
	found := make(map[uuid.UUID]*V, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		id := id
		g.Go(func() error {
			v, err := fetch(gctx, id)
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				observability.FromContext(ctx).WithField("id", id.String()).Warn("dangling reference")
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			found[id] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

// Museums replaces each museum's country reference with the full country
func (c *Composer) Museums(ctx context.Context, museums []model.Museum) error {
	ids := make([]uuid.UUID, len(museums))
	for i := range museums {
		ids[i] = museums[i].Geo.Country.ID
	}
	countries, err := lookupAll(ctx, ids, c.countries.Get)
	if err != nil {
		return err
	}
	for i := range museums {
		if country, ok := countries[museums[i].Geo.Country.ID]; ok {
			museums[i].Geo.Country = *country
		}
	}
	return nil
}

// Paintings replaces artist and museum references with full entities.
// Artists and museums are resolved concurrently.
func (c *Composer) Paintings(ctx context.Context, paintings []model.Painting) error {
	var (
		artistIDs []uuid.UUID
		museumIDs []uuid.UUID
	)
	for i := range paintings {
		artistIDs = append(artistIDs, paintings[i].Artist.ID)
		if paintings[i].Museum != nil {
			museumIDs = append(museumIDs, paintings[i].Museum.ID)
		}
	}

	var (
		artists map[uuid.UUID]*model.Artist
		museums map[uuid.UUID]*model.Museum
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		artists, err = lookupAll(gctx, artistIDs, c.artists.Get)
		return err
	})
	g.Go(func() error {
		found, err := lookupAll(gctx, museumIDs, c.museums.Get)
		if err != nil {
			return err
		}
		list := make([]model.Museum, 0, len(found))
		for _, m := range found {
			list = append(list, *m)
		}
		if err := c.Museums(gctx, list); err != nil {
			return err
		}
		museums = make(map[uuid.UUID]*model.Museum, len(list))
		for i := range list {
			museums[list[i].ID] = &list[i]
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range paintings {
		if artist, ok := artists[paintings[i].Artist.ID]; ok {
			paintings[i].Artist = *artist
		}
		if paintings[i].Museum == nil {
			continue
		}
		if museum, ok := museums[paintings[i].Museum.ID]; ok {
			m := *museum
			paintings[i].Museum = &m
		}
	}
	return nil
}

// Museum composes a single museum
func (c *Composer) Museum(ctx context.Context, museum *model.Museum) error {
	list := []model.Museum{*museum}
	if err := c.Museums(ctx, list); err != nil {
		return err
	}
	*museum = list[0]
	return nil
}

// Painting composes a single painting
func (c *Composer) Painting(ctx context.Context, painting *model.Painting) error {
	list := []model.Painting{*painting}
	if err := c.Paintings(ctx, list); err != nil {
		return err
	}
	*painting = list[0]
	return nil
}

// RequireCountry fails with a country NotFoundError when id is unknown
func (c *Composer) RequireCountry(ctx context.Context, id uuid.UUID) (*model.Country, error) {
	return c.countries.Get(ctx, id)
}

// RequireReferences checks that a painting's artist and museum exist
func (c *Composer) RequireReferences(ctx context.Context, painting *model.Painting) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := c.artists.Get(gctx, painting.Artist.ID)
		return err
	})
	if painting.Museum != nil {
		g.Go(func() error {
			_, err := c.museums.Get(gctx, painting.Museum.ID)
			return err
		})
	}
	return g.Wait()
}
