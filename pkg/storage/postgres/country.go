package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

const countryColumns = "id, name, code"

type countryRow struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
	Code string    `db:"code"`
}

func (r countryRow) toModel() model.Country {
	return model.Country{ID: r.ID, Name: r.Name, Code: r.Code}
}

// CountryRepository implements storage.CountryRepository over the seeded table
type CountryRepository struct {
	repository
}

var _ storage.CountryRepository = (*CountryRepository)(nil)

// NewCountryRepository creates a country repository
func NewCountryRepository(db *sqlx.DB, metrics *observability.Metrics) *CountryRepository {
	return &CountryRepository{repository{db: db, metrics: metrics, entity: "country"}}
}

func (r *CountryRepository) FindByID(ctx context.Context, id uuid.UUID) (_ *model.Country, err error) {
	ctx, done := r.observe(ctx, "find")
	defer done(&err)

	var row countryRow
	if err := r.db.GetContext(ctx, &row, "SELECT "+countryColumns+" FROM country WHERE id = $1", id); err != nil {
		return nil, storage.MapError(err, r.entity)
	}
	country := row.toModel()
	return &country, nil
}

func (r *CountryRepository) FindAll(ctx context.Context, name string, pageable model.Pageable) (_ model.Page[model.Country], err error) {
	ctx, done := r.observe(ctx, "list")
	defer done(&err)

	q := &query{
		table:    "country",
		columns:  countryColumns,
		sortable: map[string]string{"name": "name", "code": "code"},
		fallback: "name",
	}
	q.whereILike("name", name)

	page, err := selectPage(ctx, r.db, q, pageable, countryRow.toModel)
	if err != nil {
		return page, storage.MapError(err, r.entity)
	}
	return page, nil
}
