package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

const artistColumns = "id, name, biography, photo"

type artistRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Biography string    `db:"biography"`
	Photo     string    `db:"photo"`
}

func (r artistRow) toModel() model.Artist {
	return model.Artist{ID: r.ID, Name: r.Name, Biography: r.Biography, Photo: r.Photo}
}

// ArtistRepository implements storage.ArtistRepository
type ArtistRepository struct {
	repository
}

var _ storage.ArtistRepository = (*ArtistRepository)(nil)

// NewArtistRepository creates an artist repository. metrics may be nil.
func NewArtistRepository(db *sqlx.DB, metrics *observability.Metrics) *ArtistRepository {
	return &ArtistRepository{repository{db: db, metrics: metrics, entity: "artist"}}
}

// FindByID returns one artist
func (r *ArtistRepository) FindByID(ctx context.Context, id uuid.UUID) (_ *model.Artist, err error) {
	ctx, done := r.observe(ctx, "find")
	defer done(&err)

	var row artistRow
	if err := r.db.GetContext(ctx, &row, "SELECT "+artistColumns+" FROM artist WHERE id = $1", id); err != nil {
		return nil, storage.MapError(err, r.entity)
	}
	artist := row.toModel()
	return &artist, nil
}

// FindAll returns a page of artists whose name contains name, ignoring case
func (r *ArtistRepository) FindAll(ctx context.Context, name string, pageable model.Pageable) (_ model.Page[model.Artist], err error) {
	ctx, done := r.observe(ctx, "list")
	defer done(&err)

	q := &query{
		table:    "artist",
		columns:  artistColumns,
		sortable: map[string]string{"name": "name"},
		fallback: "name",
	}
	q.whereILike("name", name)

	page, err := selectPage(ctx, r.db, q, pageable, artistRow.toModel)
	if err != nil {
		return page, storage.MapError(err, r.entity)
	}
	return page, nil
}

// Create inserts an artist and sets its id
func (r *ArtistRepository) Create(ctx context.Context, artist *model.Artist) (err error) {
	ctx, done := r.observe(ctx, "create")
	defer done(&err)

	err = r.db.QueryRowxContext(ctx,
		"INSERT INTO artist (name, biography, photo) VALUES ($1, $2, $3) RETURNING id",
		artist.Name, artist.Biography, artist.Photo,
	).Scan(&artist.ID)
	return storage.MapError(err, r.entity)
}

// Update replaces every column of an existing artist
func (r *ArtistRepository) Update(ctx context.Context, artist *model.Artist) (err error) {
	ctx, done := r.observe(ctx, "update")
	defer done(&err)

	res, err := r.db.ExecContext(ctx,
		"UPDATE artist SET name = $2, biography = $3, photo = $4 WHERE id = $1",
		artist.ID, artist.Name, artist.Biography, artist.Photo,
	)
	if err != nil {
		return storage.MapError(err, r.entity)
	}
	return r.expectOne(res.RowsAffected())
}

// Delete removes an artist
func (r *ArtistRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, done := r.observe(ctx, "delete")
	defer done(&err)

	res, err := r.db.ExecContext(ctx, "DELETE FROM artist WHERE id = $1", id)
	if err != nil {
		return storage.MapError(err, r.entity)
	}
	return r.expectOne(res.RowsAffected())
}
