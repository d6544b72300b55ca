package checks

import (
	"fmt"
	"sort"
	"sync"

	"country-api/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TableReport is the result of comparing a table with its GORM model.
type TableReport struct {
	Table          string   `json:"table"`
	MissingColumns []string `json:"missing_columns"`
	NullMismatches []string `json:"null_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// OK reports whether the table matches the model.
func (r *TableReport) OK() bool {
	return r.Status == StatusOK
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// CheckSchema verifies that the table backing model has every mapped column
// and that NOT NULL fields are not nullable in the database.
func CheckSchema(db *gorm.DB, model any) (*TableReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	s, err := schema.Parse(model, &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}

	report := &TableReport{
		Table:          s.Table,
		MissingColumns: []string{},
		NullMismatches: []string{},
		Status:         StatusOK,
	}

	actual, err := database.GetTableColumns(db, s.Table)
	if err != nil {
		return nil, err
	}
	cols := make(map[string]database.ColumnInfo, len(actual))
	for _, c := range actual {
		cols[c.Field] = c
	}

	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		col, ok := cols[f.DBName]
		if !ok {
			report.MissingColumns = append(report.MissingColumns, f.DBName)
			continue
		}
		if f.NotNull && !f.PrimaryKey && col.Nullable() {
			report.NullMismatches = append(report.NullMismatches, f.DBName)
		}
	}

	sort.Strings(report.MissingColumns)
	sort.Strings(report.NullMismatches)
	if len(report.MissingColumns) > 0 || len(report.NullMismatches) > 0 {
		report.Status = StatusError
	}
	return report, nil
}
