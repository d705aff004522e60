package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/storage"
)

// ArtistRepository is an in-memory storage.ArtistRepository
type ArtistRepository struct {
	t *table[model.Artist]
}

var _ storage.ArtistRepository = (*ArtistRepository)(nil)

func NewArtistRepository() *ArtistRepository {
	return &ArtistRepository{t: &table[model.Artist]{
		entity:   "artist",
		rows:     map[uuid.UUID]model.Artist{},
		id:       func(a model.Artist) uuid.UUID { return a.ID },
		setID:    func(a *model.Artist, id uuid.UUID) { a.ID = id },
		unique:   func(a model.Artist) []string { return []string{a.Name} },
		sortable: map[string]func(model.Artist) string{"name": func(a model.Artist) string { return a.Name }},
		fallback: "name",
	}}
}

func (r *ArtistRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Artist, error) {
	a, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArtistRepository) FindAll(_ context.Context, name string, pageable model.Pageable) (model.Page[model.Artist], error) {
	return r.t.page(func(a model.Artist) bool { return containsFold(a.Name, name) }, pageable), nil
}

func (r *ArtistRepository) Create(_ context.Context, artist *model.Artist) error {
	return r.t.insert(artist)
}

func (r *ArtistRepository) Update(_ context.Context, artist *model.Artist) error {
	return r.t.update(*artist)
}

func (r *ArtistRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.t.delete(id)
}

// MuseumRepository is an in-memory storage.MuseumRepository. Like the
// Postgres table it keeps only the country id.
type MuseumRepository struct {
	t *table[model.Museum]
}

var _ storage.MuseumRepository = (*MuseumRepository)(nil)

func NewMuseumRepository() *MuseumRepository {
	return &MuseumRepository{t: &table[model.Museum]{
		entity:   "museum",
		rows:     map[uuid.UUID]model.Museum{},
		id:       func(m model.Museum) uuid.UUID { return m.ID },
		setID:    func(m *model.Museum, id uuid.UUID) { m.ID = id },
		unique:   func(m model.Museum) []string { return []string{m.Title} },
		sortable: map[string]func(model.Museum) string{"title": func(m model.Museum) string { return m.Title }},
		fallback: "title",
	}}
}

func stripMuseum(m model.Museum) model.Museum {
	m.Geo.Country = model.Country{ID: m.Geo.Country.ID}
	return m
}

func (r *MuseumRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Museum, error) {
	m, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MuseumRepository) FindAll(_ context.Context, title string, pageable model.Pageable) (model.Page[model.Museum], error) {
	return r.t.page(func(m model.Museum) bool { return containsFold(m.Title, title) }, pageable), nil
}

func (r *MuseumRepository) Create(_ context.Context, museum *model.Museum) error {
	stored := stripMuseum(*museum)
	if err := r.t.insert(&stored); err != nil {
		return err
	}
	museum.ID = stored.ID
	return nil
}

func (r *MuseumRepository) Update(_ context.Context, museum *model.Museum) error {
	return r.t.update(stripMuseum(*museum))
}

func (r *MuseumRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.t.delete(id)
}

// PaintingRepository is an in-memory storage.PaintingRepository keeping
// only the artist and museum ids
type PaintingRepository struct {
	t *table[model.Painting]
}

var _ storage.PaintingRepository = (*PaintingRepository)(nil)

func NewPaintingRepository() *PaintingRepository {
	return &PaintingRepository{t: &table[model.Painting]{
		entity:   "painting",
		rows:     map[uuid.UUID]model.Painting{},
		id:       func(p model.Painting) uuid.UUID { return p.ID },
		setID:    func(p *model.Painting, id uuid.UUID) { p.ID = id },
		unique:   func(p model.Painting) []string { return []string{p.Title} },
		sortable: map[string]func(model.Painting) string{"title": func(p model.Painting) string { return p.Title }},
		fallback: "title",
	}}
}

func stripPainting(p model.Painting) model.Painting {
	p.Artist = model.Artist{ID: p.Artist.ID}
	if p.Museum != nil {
		p.Museum = &model.Museum{ID: p.Museum.ID}
	}
	return p
}

func (r *PaintingRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Painting, error) {
	p, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaintingRepository) FindAll(_ context.Context, title string, pageable model.Pageable) (model.Page[model.Painting], error) {
	return r.t.page(func(p model.Painting) bool { return containsFold(p.Title, title) }, pageable), nil
}

func (r *PaintingRepository) FindByArtist(_ context.Context, artistID uuid.UUID, pageable model.Pageable) (model.Page[model.Painting], error) {
	return r.t.page(func(p model.Painting) bool { return p.Artist.ID == artistID }, pageable), nil
}

func (r *PaintingRepository) Create(_ context.Context, painting *model.Painting) error {
	stored := stripPainting(*painting)
	if err := r.t.insert(&stored); err != nil {
		return err
	}
	painting.ID = stored.ID
	return nil
}

func (r *PaintingRepository) Update(_ context.Context, painting *model.Painting) error {
	return r.t.update(stripPainting(*painting))
}

func (r *PaintingRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.t.delete(id)
}

// CountryRepository is an in-memory storage.CountryRepository
type CountryRepository struct {
	t *table[model.Country]
}

var _ storage.CountryRepository = (*CountryRepository)(nil)

// NewCountryRepository returns a repository holding countries. Countries
// without an id get one.
func NewCountryRepository(countries ...model.Country) *CountryRepository {
	r := &CountryRepository{t: &table[model.Country]{
		entity: "country",
		rows:   map[uuid.UUID]model.Country{},
		id:     func(c model.Country) uuid.UUID { return c.ID },
		setID:  func(c *model.Country, id uuid.UUID) { c.ID = id },
		sortable: map[string]func(model.Country) string{
			"name": func(c model.Country) string { return c.Name },
			"code": func(c model.Country) string { return c.Code },
		},
		fallback: "name",
	}}
	for _, c := range countries {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.t.rows[c.ID] = c
	}
	return r
}

func (r *CountryRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Country, error) {
	c, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CountryRepository) FindAll(_ context.Context, name string, pageable model.Pageable) (model.Page[model.Country], error) {
	return r.t.page(func(c model.Country) bool { return containsFold(c.Name, name) }, pageable), nil
}
