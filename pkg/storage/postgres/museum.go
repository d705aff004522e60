package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

const museumColumns = "id, title, description, city, country_id, photo"

type museumRow struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	City        string    `db:"city"`
	CountryID   uuid.UUID `db:"country_id"`
	Photo       string    `db:"photo"`
}

func (r museumRow) toModel() model.Museum {
	return model.Museum{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Photo:       r.Photo,
		Geo:         model.Geo{City: r.City, Country: model.Country{ID: r.CountryID}},
	}
}

// MuseumRepository implements storage.MuseumRepository
type MuseumRepository struct {
	repository
}

var _ storage.MuseumRepository = (*MuseumRepository)(nil)

// NewMuseumRepository creates a museum repository
func NewMuseumRepository(db *sqlx.DB, metrics *observability.Metrics) *MuseumRepository {
	return &MuseumRepository{repository{db: db, metrics: metrics, entity: "museum"}}
}

func (r *MuseumRepository) FindByID(ctx context.Context, id uuid.UUID) (_ *model.Museum, err error) {
	ctx, done := r.observe(ctx, "find")
	defer done(&err)

	var row museumRow
	if err := r.db.GetContext(ctx, &row, "SELECT "+museumColumns+" FROM museum WHERE id = $1", id); err != nil {
		return nil, storage.MapError(err, r.entity)
	}
	museum := row.toModel()
	return &museum, nil
}

func (r *MuseumRepository) FindAll(ctx context.Context, title string, pageable model.Pageable) (_ model.Page[model.Museum], err error) {
	ctx, done := r.observe(ctx, "list")
	defer done(&err)

	q := &query{
		table:    "museum",
		columns:  museumColumns,
		sortable: map[string]string{"title": "title"},
		fallback: "title",
	}
	q.whereILike("title", title)

	page, err := selectPage(ctx, r.db, q, pageable, museumRow.toModel)
	if err != nil {
		return page, storage.MapError(err, r.entity)
	}
	return page, nil
}

func (r *MuseumRepository) Create(ctx context.Context, museum *model.Museum) (err error) {
	ctx, done := r.observe(ctx, "create")
	defer done(&err)

	err = r.db.QueryRowxContext(ctx,
		"INSERT INTO museum (title, description, city, country_id, photo) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		museum.Title, museum.Description, museum.Geo.City, museum.Geo.Country.ID, museum.Photo,
	).Scan(&museum.ID)
	return storage.MapError(err, r.entity)
}

func (r *MuseumRepository) Update(ctx context.Context, museum *model.Museum) (err error) {
	ctx, done := r.observe(ctx, "update")
	defer done(&err)

	res, err := r.db.ExecContext(ctx,
		"UPDATE museum SET title = $2, description = $3, city = $4, country_id = $5, photo = $6 WHERE id = $1",
		museum.ID, museum.Title, museum.Description, museum.Geo.City, museum.Geo.Country.ID, museum.Photo,
	)
	if err != nil {
		return storage.MapError(err, r.entity)
	}
	return r.expectOne(res.RowsAffected())
}

func (r *MuseumRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, done := r.observe(ctx, "delete")
	defer done(&err)

	res, err := r.db.ExecContext(ctx, "DELETE FROM museum WHERE id = $1", id)
	if err != nil {
		return storage.MapError(err, r.entity)
	}
	return r.expectOne(res.RowsAffected())
}
