package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/safar/goldstock/internal/database"
	"github.com/safar/goldstock/internal/models"
)

var salesRecordSelect = "SELECT " + database.SalesRecordsTable.SelectList() + " FROM sales_records"

func salesRecordArgs(r *models.SalesRecord) []interface{} {
	return []interface{}{
		r.CustomerName,
		r.SaleType,
		r.ReturnReason,
		int64(r.PurchaseMarketPrice),
		int64(r.SaleMarketPrice),
		int64(r.FinalSalePrice),
		r.ProductSupplier,
		r.ProductName,
		r.KaratUnit,
		r.KaratG,
		int64(r.Quantity),
		r.Color,
		r.Size,
		r.MainStoneType,
		int64(r.MainStoneQuantity),
		int64(r.MainStonePurchasePrice),
		int64(r.MainStoneSalePrice),
		r.AuxStoneType,
		int64(r.AuxStoneQuantity),
		int64(r.AuxStonePurchasePrice),
		int64(r.AuxStoneSalePrice),
		r.BasicExtra,
		r.MidBackBulim,
		r.Notes,
		r.SaleDate,
	}
}

// SalesFilter narrows a sales search. Zero dates leave that end of the range open.
type SalesFilter struct {
	StartDate    models.Date
	EndDate      models.Date
	CustomerName string
	ProductName  string
}

func (f SalesFilter) predicate() *predicate {
	p := &predicate{}
	if !f.StartDate.IsZero() {
		p.add("sale_date >= ?", f.StartDate.String())
	}
	if !f.EndDate.IsZero() {
		p.add("sale_date <= ?", f.EndDate.String())
	}
	if v := strings.TrimSpace(f.CustomerName); v != "" {
		p.add(likeCondition("customer_name"), likePattern(v))
	}
	if v := strings.TrimSpace(f.ProductName); v != "" {
		p.add(likeCondition("product_name"), likePattern(v))
	}
	return p
}

// CreateSalesRecord inserts r; an unset sale date becomes today.
func CreateSalesRecord(ctx context.Context, db *sqlx.DB, r models.SalesRecord) (*models.SalesRecord, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var id int64
	query := db.Rebind(insertSQL(database.SalesRecordsTable))
	if err := db.QueryRowxContext(ctx, query, salesRecordArgs(&r)...).Scan(&id); err != nil {
		return nil, fmt.Errorf("create sales record: %w", err)
	}

	return getSalesRecord(ctx, db, id)
}

// SellProduct records a sale of the product, snapshotting its supplier, name,
// karat, size and paired labor fields wherever sale leaves them blank.
func SellProduct(ctx context.Context, db *sqlx.DB, productID int64, sale models.SalesRecord) (*models.SalesRecord, error) {
	product, err := GetProduct(ctx, db, productID)
	if err != nil {
		return nil, err
	}

	return CreateSalesRecord(ctx, db, models.SaleFromProduct(product, sale))
}

func GetSalesRecord(ctx context.Context, db *sqlx.DB, id int64) (*models.SalesRecord, error) {
	return getSalesRecord(ctx, db, id)
}

func getSalesRecord(ctx context.Context, q queryer, id int64) (*models.SalesRecord, error) {
	record := &models.SalesRecord{}

	err := sqlx.GetContext(ctx, q, record, q.Rebind(salesRecordSelect+" WHERE id = ?"), id)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, database.ErrSalesRecordNotFound
		}
		return nil, fmt.Errorf("get sales record: %w", err)
	}

	return record, nil
}

func UpdateSalesRecord(ctx context.Context, db *sqlx.DB, id int64, patch models.SalesRecordPatch) (*models.SalesRecord, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var record *models.SalesRecord
	err := database.WithTransaction(ctx, db, func(tx *sqlx.Tx) error {
		if err := applyPatch(ctx, tx, "sales_records", id, patch.Assignments(), database.ErrSalesRecordNotFound); err != nil {
			return err
		}

		var err error
		record, err = getSalesRecord(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ReplaceSalesRecord overwrites every column of the row with r.
func ReplaceSalesRecord(ctx context.Context, db *sqlx.DB, id int64, r models.SalesRecord) (*models.SalesRecord, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return UpdateSalesRecord(ctx, db, id, r.Patch())
}

func DeleteSalesRecord(ctx context.Context, db *sqlx.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, db.Rebind("DELETE FROM sales_records WHERE id = ?"), id)
	if err != nil {
		return false, fmt.Errorf("delete sales record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// SearchSalesRecords returns matching records, latest sale date first.
func SearchSalesRecords(ctx context.Context, db *sqlx.DB, f SalesFilter) ([]models.SalesRecord, error) {
	pred := f.predicate()
	query := db.Rebind(salesRecordSelect + pred.where() + " ORDER BY sale_date DESC, id DESC")

	records := []models.SalesRecord{}
	if err := db.SelectContext(ctx, &records, query, pred.args...); err != nil {
		return nil, fmt.Errorf("search sales records: %w", err)
	}

	return records, nil
}
