package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrSalesRecordNotFound = errors.New("sales record not found")
)

// IsNoRows reports whether err means the query matched no row.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsUndefinedTable reports whether err came from querying a table that does
// not exist yet, which means EnsureSchema has not run against this database.
func IsUndefinedTable(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01"
	}

	return containsFold(err.Error(), "no such table")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
