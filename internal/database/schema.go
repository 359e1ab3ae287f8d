package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ColumnSpec describes one column as "name type DEFAULT default".
type ColumnSpec struct {
	Name    string
	Type    string
	Default string
}

func (c ColumnSpec) definition() string {
	return fmt.Sprintf("%s %s DEFAULT %s", c.Name, c.Type, c.Default)
}

type Table struct {
	Name    string
	Columns []ColumnSpec
	Indexes []string
}

// SelectList returns "id, COALESCE(col, default) AS col, ..." so rows written
// before a column existed, or with NULLs, read back as the column default.
func (t Table) SelectList() string {
	parts := make([]string, 0, len(t.Columns)+1)
	parts = append(parts, "id")
	for _, c := range t.Columns {
		parts = append(parts, fmt.Sprintf("COALESCE(%s, %s) AS %s", c.Name, c.Default, c.Name))
	}
	return strings.Join(parts, ", ")
}

// ColumnNames lists the non-key columns in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

const (
	textDefault = "''"
	zero        = "0"
	boolFalse   = "FALSE"
)

var ProductsTable = Table{
	Name: "products",
	Columns: []ColumnSpec{
		{"category", "TEXT", textDefault},
		{"name", "TEXT NOT NULL", textDefault},
		{"supplier_name", "TEXT", textDefault},
		{"supplier_item_no", "TEXT", textDefault},
		{"product_code", "TEXT", textDefault},
		{"karat", "TEXT", "'14K'"},
		{"weight_g", "DOUBLE PRECISION", zero},
		{"size", "TEXT", textDefault},
		{"total_qb_qty", "TEXT", textDefault},
		{"basic_extra", "TEXT", textDefault},
		{"mid_back_bulim", "TEXT", textDefault},
		{"mid_back_labor", "TEXT", textDefault},
		{"cubic_labor", "TEXT", textDefault},
		{"total_labor", "TEXT", textDefault},
		{"discontinued", "BOOLEAN", boolFalse},
		{"stock_qty", "INTEGER", zero},
		{"image_path", "TEXT", textDefault},
		{"extra_images", "TEXT", "'[]'"},
		{"notes", "TEXT", textDefault},
		{"is_favorite", "BOOLEAN", boolFalse},
	},
	Indexes: []string{"category", "name", "supplier_name", "supplier_item_no", "product_code"},
}

var SalesRecordsTable = Table{
	Name: "sales_records",
	Columns: []ColumnSpec{
		{"customer_name", "TEXT", textDefault},
		{"sale_type", "TEXT", "'sale'"},
		{"return_reason", "TEXT", textDefault},
		{"purchase_market_price", "BIGINT", zero},
		{"sale_market_price", "BIGINT", zero},
		{"final_sale_price", "BIGINT", zero},
		{"product_supplier", "TEXT", textDefault},
		{"product_name", "TEXT", textDefault},
		{"karat_unit", "TEXT", textDefault},
		{"karat_g", "TEXT", textDefault},
		{"quantity", "BIGINT", zero},
		{"color", "TEXT", textDefault},
		{"size", "TEXT", textDefault},
		{"main_stone_type", "TEXT", textDefault},
		{"main_stone_quantity", "BIGINT", zero},
		{"main_stone_purchase_price", "BIGINT", zero},
		{"main_stone_sale_price", "BIGINT", zero},
		{"aux_stone_type", "TEXT", textDefault},
		{"aux_stone_quantity", "BIGINT", zero},
		{"aux_stone_purchase_price", "BIGINT", zero},
		{"aux_stone_sale_price", "BIGINT", zero},
		{"basic_extra", "TEXT", textDefault},
		{"mid_back_bulim", "TEXT", textDefault},
		{"notes", "TEXT", textDefault},
		{"sale_date", "TEXT", textDefault},
	},
	Indexes: []string{"sale_date", "customer_name", "product_name"},
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdentifier(name string) error {
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// EnsureSchema creates missing tables, adds missing columns and indexes.
// It never drops or rewrites anything and is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, table := range []Table{ProductsTable, SalesRecordsTable} {
		if _, err := db.ExecContext(ctx, createTableSQL(db, table)); err != nil {
			return fmt.Errorf("create table %s: %w", table.Name, err)
		}

		if _, err := MigrateColumns(ctx, db, table.Name, table.Columns); err != nil {
			return err
		}

		for _, col := range table.Indexes {
			stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)", table.Name, col, table.Name, col)
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create index on %s.%s: %w", table.Name, col, err)
			}
		}
	}

	return nil
}

func createTableSQL(db *sqlx.DB, t Table) string {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if isPostgres(db) {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	defs := []string{idColumn}
	for _, c := range t.Columns {
		defs = append(defs, c.definition())
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
}

// MigrateColumns adds every spec whose column is absent from the live table,
// one ALTER TABLE per column, and returns the names it added.
func MigrateColumns(ctx context.Context, db *sqlx.DB, table string, specs []ColumnSpec) ([]string, error) {
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}

	existing, err := Columns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[strings.ToLower(name)] = true
	}

	var added []string
	for _, spec := range specs {
		if present[strings.ToLower(spec.Name)] {
			continue
		}
		if err := checkIdentifier(spec.Name); err != nil {
			return added, err
		}

		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, spec.definition())
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return added, fmt.Errorf("add column %s.%s: %w", table, spec.Name, err)
		}
		present[strings.ToLower(spec.Name)] = true
		added = append(added, spec.Name)
	}

	return added, nil
}

// Columns lists the columns of the live table; empty when the table does not exist.
func Columns(ctx context.Context, db *sqlx.DB, table string) ([]string, error) {
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}

	var query string
	var args []interface{}
	if isPostgres(db) {
		query = `
			SELECT column_name
			FROM information_schema.columns
			WHERE table_schema = current_schema()
			  AND table_name = $1
			ORDER BY ordinal_position`
		args = append(args, table)
	} else {
		query = fmt.Sprintf("SELECT name FROM pragma_table_info('%s') ORDER BY cid", table)
	}

	var names []string
	if err := db.SelectContext(ctx, &names, query, args...); err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", table, err)
	}

	return names, nil
}
