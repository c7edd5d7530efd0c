package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/observability"
	"rfa-explorer/internal/source"
)

// DefaultAllocationTable is the table read when none is configured.
const DefaultAllocationTable = "rfa_allocations"

// AllocationSource reads allocation rows from a Postgres table.
// It only ever issues SELECTs.
type AllocationSource struct {
	pool  *Pool
	table string
}

// NewAllocationSource creates a source reading from table.
func NewAllocationSource(pool *Pool, table string) *AllocationSource {
	if table == "" {
		table = DefaultAllocationTable
	}
	return &AllocationSource{pool: pool, table: table}
}

// Compile-time interface check.
var _ source.AllocationSource = (*AllocationSource)(nil)

// Kind returns "postgres".
func (s *AllocationSource) Kind() string {
	return "postgres"
}

// query builds the SELECT. The amount is read as text so that the same
// normalizer handles both inputs.
func (s *AllocationSource) query() (string, []interface{}, error) {
	return sq.Select(
		source.ColumnProjectName,
		fmt.Sprintf("COALESCE(%s::text, '')", source.ColumnBeraAmount),
	).
		From(pgx.Identifier{s.table}.Sanitize()).
		Where(sq.NotEq{source.ColumnProjectName: nil}).
		OrderBy(source.ColumnProjectName).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// Load reads every row of the table.
func (s *AllocationSource) Load(ctx context.Context) ([]domain.RawRecord, error) {
	query, args, err := s.query()
	if err != nil {
		return nil, fmt.Errorf("build allocation query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		observability.RecordSourceLoad(s.Kind(), "error", 0)
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer rows.Close()

	records := []domain.RawRecord{}
	for rows.Next() {
		var r domain.RawRecord
		if err := rows.Scan(&r.ProjectName, &r.BeraAmount); err != nil {
			observability.RecordSourceLoad(s.Kind(), "error", 0)
			return nil, fmt.Errorf("scan allocation row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		observability.RecordSourceLoad(s.Kind(), "error", 0)
		return nil, fmt.Errorf("iterate allocation rows: %w", err)
	}

	observability.RecordSourceLoad(s.Kind(), "ok", len(records))
	return records, nil
}
