package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/safar/goldstock/internal/database"
	"github.com/safar/goldstock/internal/images"
	"github.com/safar/goldstock/internal/models"
)

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	Rebind(query string) string
}

var productSelect = "SELECT " + database.ProductsTable.SelectList() + " FROM products"

func productArgs(p *models.Product) []interface{} {
	extra := p.ExtraImages
	if extra == nil {
		extra = models.ImageList{}
	}
	return []interface{}{
		p.Category,
		p.Name,
		p.SupplierName,
		p.SupplierItemNo,
		p.ProductCode,
		p.Karat,
		p.WeightG,
		p.Size,
		p.TotalQBQty,
		p.BasicExtra,
		p.MidBackBulim,
		p.MidBackLabor,
		p.CubicLabor,
		p.TotalLabor,
		p.Discontinued,
		p.StockQty,
		p.ImagePath,
		extra,
		p.Notes,
		p.IsFavorite,
	}
}

func insertSQL(t database.Table) string {
	cols := t.ColumnNames()
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id", t.Name, strings.Join(cols, ", "), marks)
}

// CreateProduct inserts p and returns the stored row with its new id.
func CreateProduct(ctx context.Context, db *sqlx.DB, p models.Product) (*models.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var id int64
	query := db.Rebind(insertSQL(database.ProductsTable))
	if err := db.QueryRowxContext(ctx, query, productArgs(&p)...).Scan(&id); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return getProduct(ctx, db, id)
}

// GetProduct returns database.ErrProductNotFound when no row has id.
func GetProduct(ctx context.Context, db *sqlx.DB, id int64) (*models.Product, error) {
	return getProduct(ctx, db, id)
}

func getProduct(ctx context.Context, q queryer, id int64) (*models.Product, error) {
	product := &models.Product{}

	err := sqlx.GetContext(ctx, q, product, q.Rebind(productSelect+" WHERE id = ?"), id)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// UpdateProduct applies only the fields set in patch and returns the updated row.
func UpdateProduct(ctx context.Context, db *sqlx.DB, id int64, patch models.ProductPatch) (*models.Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var product *models.Product
	err := database.WithTransaction(ctx, db, func(tx *sqlx.Tx) error {
		if err := applyPatch(ctx, tx, "products", id, patch.Assignments(), database.ErrProductNotFound); err != nil {
			return err
		}

		var err error
		product, err = getProduct(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// ReplaceProduct overwrites every column of the row with p.
func ReplaceProduct(ctx context.Context, db *sqlx.DB, id int64, p models.Product) (*models.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return UpdateProduct(ctx, db, id, p.Patch())
}

func applyPatch(ctx context.Context, q queryer, table string, id int64, assignments []models.Assignment, notFound error) error {
	if len(assignments) == 0 {
		var exists bool
		query := q.Rebind(fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", table))
		if err := sqlx.GetContext(ctx, q, &exists, query, id); err != nil {
			return fmt.Errorf("check %s exists: %w", table, err)
		}
		if !exists {
			return notFound
		}
		return nil
	}

	sets := make([]string, len(assignments))
	args := make([]interface{}, 0, len(assignments)+1)
	for i, a := range assignments {
		sets[i] = a.Column + " = ?"
		args = append(args, a.Value)
	}
	args = append(args, id)

	query := q.Rebind(fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", ")))
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}

	return nil
}

// ImageRemover deletes image files referenced by a deleted product.
type ImageRemover interface {
	Remove(paths ...string) []images.RemoveResult
}

type DeleteResult struct {
	Deleted bool                  `json:"deleted"`
	Images  []images.RemoveResult `json:"images"`
}

// DeleteProduct removes the row and then, if remover is not nil, its image
// files. File failures are reported in the result and never fail the call.
func DeleteProduct(ctx context.Context, db *sqlx.DB, remover ImageRemover, id int64) (*DeleteResult, error) {
	var paths []string
	res := &DeleteResult{}

	err := database.WithTransaction(ctx, db, func(tx *sqlx.Tx) error {
		product, err := getProduct(ctx, tx, id)
		if err != nil {
			if errors.Is(err, database.ErrProductNotFound) {
				return nil
			}
			return err
		}

		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM products WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}

		res.Deleted = rowsAffected > 0
		paths = append([]string{product.ImagePath}, product.ExtraImages...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Deleted && remover != nil {
		res.Images = remover.Remove(paths...)
	}

	return res, nil
}

// SearchProducts ANDs the recognized filters with an OR of freeText across
// the major columns. Favorites come first, newest first within each group.
func SearchProducts(ctx context.Context, db *sqlx.DB, filters map[string]string, freeText string) ([]models.Product, error) {
	pred := buildProductPredicate(filters, freeText)
	query := db.Rebind(productSelect + pred.where() + " ORDER BY COALESCE(is_favorite, FALSE) DESC, id DESC")

	products := []models.Product{}
	if err := db.SelectContext(ctx, &products, query, pred.args...); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	return products, nil
}

// ToggleFavorite flips is_favorite and reports whether the row existed.
func ToggleFavorite(ctx context.Context, db *sqlx.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		db.Rebind("UPDATE products SET is_favorite = NOT COALESCE(is_favorite, FALSE) WHERE id = ?"), id)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
