// Package source reads raw allocation records from external inputs.
package source

import (
	"context"

	"rfa-explorer/internal/domain"
)

// Column names of the allocation input.
const (
	ColumnProjectName = "project_name"
	ColumnBeraAmount  = "bera_amount"
)

// AllocationSource provides raw allocation records.
type AllocationSource interface {
	// Kind names the source for logs and metrics (csv, postgres).
	Kind() string

	// Load reads all records. Implementations that can fail return an
	// error; callers substitute an empty list.
	Load(ctx context.Context) ([]domain.RawRecord, error)
}

// ToRawRecords converts parsed rows to the typed record view.
// Rows missing a column get an empty string for it.
func ToRawRecords(rows []map[string]string) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.RawRecord{
			ProjectName: row[ColumnProjectName],
			BeraAmount:  row[ColumnBeraAmount],
		})
	}
	return records
}
