package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/platinummonkey/rococo/pkg/storage/postgres")

// repository carries what every table repository shares
type repository struct {
	db      *sqlx.DB
	metrics *observability.Metrics
	entity  string
}

// observe starts a span and returns the function that ends it and records
// the operation metric. Call as: ctx, done := r.observe(ctx, "find"); defer done(&err)
func (r repository) observe(ctx context.Context, op string) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, r.entity+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.sql.table", r.entity),
			attribute.String("db.operation", op),
		),
	)
	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		if err != nil && !storage.IsNotFound(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		r.metrics.ObserveStorage(op, r.entity, start, err)
	}
}

// expectOne turns a zero-row write into ErrNotFound
func (r repository) expectOne(affected int64, err error) error {
	if err != nil {
		return storage.MapError(err, r.entity)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", r.entity, storage.ErrNotFound)
	}
	return nil
}

// query is a filtered, sorted SELECT over one table
type query struct {
	table    string
	columns  string
	where    []string
	args     []interface{}
	sortable map[string]string
	fallback string
}

// whereILike adds a case-insensitive substring filter when value is not empty
func (q *query) whereILike(column, value string) *query {
	if value == "" {
		return q
	}
	q.args = append(q.args, "%"+escapeLike(value)+"%")
	q.where = append(q.where, fmt.Sprintf("%s ILIKE $%d", column, len(q.args)))
	return q
}

// whereEq adds an equality filter
func (q *query) whereEq(column string, value interface{}) *query {
	q.args = append(q.args, value)
	q.where = append(q.where, fmt.Sprintf("%s = $%d", column, len(q.args)))
	return q
}

func (q *query) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// orderBy maps the requested sort onto a whitelisted column, always ending
// with id so pages are stable
func (q *query) orderBy(sort model.Sort) string {
	column, ok := q.sortable[sort.Column]
	if !ok {
		column = q.fallback
	}
	direction := "ASC"
	if ok && sort.Direction == model.Desc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)
}

func (q *query) countSQL() string {
	return "SELECT count(*) FROM " + q.table + q.whereClause()
}

func (q *query) pageSQL(pageable model.Pageable) (string, []interface{}) {
	n := len(q.args)
	sql := "SELECT " + q.columns + " FROM " + q.table + q.whereClause() + q.orderBy(pageable.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
	args := append(append([]interface{}{}, q.args...), pageable.Size, pageable.Offset())
	return sql, args
}

// selectPage runs the count and the page query. Rows scan into R and are
// converted with toModel.
func selectPage[R, T any](ctx context.Context, db *sqlx.DB, q *query, pageable model.Pageable, toModel func(R) T) (model.Page[T], error) {
	pageable = pageable.Normalize()

	var total int64
	if err := db.GetContext(ctx, &total, q.countSQL(), q.args...); err != nil {
		return model.Page[T]{}, err
	}

	content := make([]T, 0, pageable.Size)
	if total > int64(pageable.Offset()) {
		sql, args := q.pageSQL(pageable)
		var rows []R
		if err := db.SelectContext(ctx, &rows, sql, args...); err != nil {
			return model.Page[T]{}, err
		}
		for _, row := range rows {
			content = append(content, toModel(row))
		}
	}

	return model.NewPage(content, pageable, total), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
