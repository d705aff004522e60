package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

const paintingColumns = "id, title, description, artist_id, museum_id, photo"

type paintingRow struct {
	ID          uuid.UUID     `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	ArtistID    uuid.UUID     `db:"artist_id"`
	MuseumID    uuid.NullUUID `db:"museum_id"`
	Photo       string        `db:"photo"`
}

func (r paintingRow) toModel() model.Painting {
	p := model.Painting{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Photo:       r.Photo,
		Artist:      model.Artist{ID: r.ArtistID},
	}
	if r.MuseumID.Valid {
		p.Museum = &model.Museum{ID: r.MuseumID.UUID}
	}
	return p
}

func museumID(p *model.Painting) uuid.NullUUID {
	if p.Museum == nil || p.Museum.ID == uuid.Nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: p.Museum.ID, Valid: true}
}

// PaintingRepository implements storage.PaintingRepository
type PaintingRepository struct {
	repository
}

var _ storage.PaintingRepository = (*PaintingRepository)(nil)

// NewPaintingRepository creates a painting repository
func NewPaintingRepository(db *sqlx.DB, metrics *observability.Metrics) *PaintingRepository {
	return &PaintingRepository{repository{db: db, metrics: metrics, entity: "painting"}}
}

func (r *PaintingRepository) FindByID(ctx context.Context, id uuid.UUID) (_ *model.Painting, err error) {
	ctx, done := r.observe(ctx, "find")
	defer done(&err)

	var row paintingRow
	if err := r.db.GetContext(ctx, &row, "SELECT "+paintingColumns+" FROM painting WHERE id = $1", id); err != nil {
		return nil, storage.MapError(err, r.entity)
	}
	painting := row.toModel()
	return &painting, nil
}

func (r *PaintingRepository) newQuery() *query {
	return &query{
		table:    "painting",
		columns:  paintingColumns,
		sortable: map[string]string{"title": "title"},
		fallback: "title",
	}
}

func (r *PaintingRepository) FindAll(ctx context.Context, title string, pageable model.Pageable) (_ model.Page[model.Painting], err error) {
	ctx, done := r.observe(ctx, "list")
	defer done(&err)

	q := r.newQuery().whereILike("title", title)
	page, err := selectPage(ctx, r.db, q, pageable, paintingRow.toModel)
	if err != nil {
		return page, storage.MapError(err, r.entity)
	}
	return page, nil
}

// FindByArtist returns a page of paintings by one artist
func (r *PaintingRepository) FindByArtist(ctx context.Context, artistID uuid.UUID, pageable model.Pageable) (_ model.Page[model.Painting], err error) {
	ctx, done := r.observe(ctx, "list_by_artist")
	defer done(&err)

	q := r.newQuery().whereEq("artist_id", artistID)
	page, err := selectPage(ctx, r.db, q, pageable, paintingRow.toModel)
	if err != nil {
		return page, storage.MapError(err, r.entity)
	}
	return page, nil
}

func (r *PaintingRepository) Create(ctx context.Context, painting *model.Painting) (err error) {
	ctx, done := r.observe(ctx, "create")
	defer done(&err)

	err = r.db.QueryRowxContext(ctx,
		"INSERT INTO painting (title, description, artist_id, museum_id, photo) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		painting.Title, painting.Description, painting.Artist.ID, museumID(painting), painting.Photo,
	).Scan(&painting.ID)
	return storage.MapError(err, r.entity)
}

func (r *PaintingRepository) Update(ctx context.Context, painting *model.Painting) (err error) {
	ctx, done := r.observe(ctx, "update")
	defer done(&err)

	res, err := r.db.ExecContext(ctx,
		"UPDATE painting SET title = $2, description = $3, artist_id = $4, museum_id = $5, photo = $6 WHERE id = $1",
		painting.ID, painting.Title, painting.Description, painting.Artist.ID, museumID(painting), painting.Photo,
	)
	if err != nil {
		return storage.MapError(err, r.entity)
	}
	return r.expectOne(res.RowsAffected())
}

func (r *PaintingRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, done := r.observe(ctx, "delete")
	defer done(&err)

	res, err := r.db.ExecContext(ctx, "DELETE FROM painting WHERE id = $1", id)
	if err != nil {
		return storage.MapError(err, r.entity)
	}
	return r.expectOne(res.RowsAffected())
}
