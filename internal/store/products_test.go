package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/safar/goldstock/internal/database"
	"github.com/safar/goldstock/internal/images"
	"github.com/safar/goldstock/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullProduct() models.Product {
	return models.Product{
		Category:       models.CategoryRing,
		Name:           "Ruby Halo Ring",
		SupplierName:   "A공장",
		SupplierItemNo: "SUP-77",
		ProductCode:    "R-0001",
		Karat:          "18K",
		WeightG:        decimal.RequireFromString("3.75"),
		Size:           "12",
		TotalQBQty:     "QB-3",
		BasicExtra:     "3000/5000",
		MidBackBulim:   "1000/200",
		MidBackLabor:   "1500",
		CubicLabor:     "800",
		TotalLabor:     "9500",
		Discontinued:   true,
		StockQty:       4,
		ImagePath:      "/srv/images/ruby.jpg",
		ExtraImages:    models.ImageList{"/srv/images/ruby_side.jpg", "/srv/images/ruby_top.jpg"},
		Notes:          "display case 2",
		IsFavorite:     true,
	}
}

func TestCreateAndGetProductRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	want := fullProduct()

	created := mustCreateProduct(t, db, want)
	require.NotZero(t, created.ID)

	got, err := GetProduct(ctx, db, created.ID)
	require.NoError(t, err)

	assert.True(t, want.WeightG.Equal(got.WeightG), "weight %s != %s", got.WeightG, want.WeightG)
	got.WeightG = want.WeightG
	got.ID = 0
	assert.Equal(t, want, *got)
}

func TestCreateProductDefaults(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	p := mustCreateProduct(t, db, models.Product{Name: "  Plain Band  "})

	assert.Equal(t, "Plain Band", p.Name)
	assert.Equal(t, models.DefaultKarat, p.Karat)
	assert.True(t, p.WeightG.IsZero())
	assert.Equal(t, models.ImageList{}, p.ExtraImages)
	assert.False(t, p.IsFavorite)
	assert.False(t, p.Discontinued)
}

func TestCreateProductRequiresName(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := CreateProduct(context.Background(), db, models.Product{Name: "   "})
	assert.ErrorIs(t, err, models.ErrValidation)

	products, err := SearchProducts(context.Background(), db, nil, "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductEndToEnd(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	ring := mustCreateProduct(t, db, models.Product{Name: "Ring A", Karat: "18K", StockQty: 5})
	assert.Equal(t, int64(1), ring.ID)

	found, err := SearchProducts(ctx, db, map[string]string{"name": "ring"}, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(found))

	stock := 3
	updated, err := UpdateProduct(ctx, db, 1, models.ProductPatch{StockQty: &stock})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.StockQty)

	got, err := GetProduct(ctx, db, 1)
	require.NoError(t, err)

	want := *ring
	want.StockQty = 3
	assert.Equal(t, want, *got)
}

func TestGetProductNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := GetProduct(context.Background(), db, 42)
	assert.True(t, errors.Is(err, database.ErrProductNotFound))
}

func TestUpdateProductPatch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	original := mustCreateProduct(t, db, fullProduct())

	notes := "moved to safe"
	weight := decimal.RequireFromString("4.1")
	extra := models.ImageList{}
	updated, err := UpdateProduct(ctx, db, original.ID, models.ProductPatch{
		Notes:       &notes,
		WeightG:     &weight,
		ExtraImages: &extra,
	})
	require.NoError(t, err)

	assert.Equal(t, notes, updated.Notes)
	assert.True(t, weight.Equal(updated.WeightG))
	assert.Empty(t, updated.ExtraImages)
	assert.Equal(t, original.Name, updated.Name)
	assert.Equal(t, original.BasicExtra, updated.BasicExtra)
	assert.Equal(t, original.IsFavorite, updated.IsFavorite)
}

func TestUpdateProductEmptyPatch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	original := mustCreateProduct(t, db, models.Product{Name: "Chain"})

	got, err := UpdateProduct(ctx, db, original.ID, models.ProductPatch{})
	require.NoError(t, err)
	assert.Equal(t, original, got)

	_, err = UpdateProduct(ctx, db, original.ID+100, models.ProductPatch{})
	assert.ErrorIs(t, err, database.ErrProductNotFound)
}

func TestUpdateProductNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	stock := 1
	_, err := UpdateProduct(context.Background(), db, 7, models.ProductPatch{StockQty: &stock})
	assert.ErrorIs(t, err, database.ErrProductNotFound)
}

func TestUpdateProductRejectsBlankName(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	p := mustCreateProduct(t, db, models.Product{Name: "Pendant"})

	blank := " "
	_, err := UpdateProduct(context.Background(), db, p.ID, models.ProductPatch{Name: &blank})
	assert.ErrorIs(t, err, models.ErrValidation)

	got, err := GetProduct(context.Background(), db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pendant", got.Name)
}

func TestReplaceProductOverwritesEveryField(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	original := mustCreateProduct(t, db, fullProduct())

	got, err := ReplaceProduct(ctx, db, original.ID, models.Product{Name: "Bare"})
	require.NoError(t, err)

	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, "Bare", got.Name)
	assert.Equal(t, models.DefaultKarat, got.Karat)
	assert.Empty(t, got.SupplierName)
	assert.Empty(t, got.ImagePath)
	assert.Empty(t, got.ExtraImages)
	assert.False(t, got.IsFavorite)
	assert.Zero(t, got.StockQty)
}

func TestDeleteProduct(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	p := mustCreateProduct(t, db, fullProduct())
	remover := &recordingRemover{}

	res, err := DeleteProduct(ctx, db, remover, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Equal(t, []string{p.ImagePath, p.ExtraImages[0], p.ExtraImages[1]}, remover.paths)
	assert.Len(t, res.Images, 3)

	_, err = GetProduct(ctx, db, p.ID)
	assert.ErrorIs(t, err, database.ErrProductNotFound)

	res, err = DeleteProduct(ctx, db, remover, p.ID)
	require.NoError(t, err)
	assert.False(t, res.Deleted)
	assert.Len(t, remover.paths, 3, "no file removal for a missing row")
}

func TestDeleteProductIgnoresMissingFiles(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	imgs, err := images.New(t.TempDir())
	require.NoError(t, err)

	p := mustCreateProduct(t, db, models.Product{
		Name:        "Ghost",
		ImagePath:   imgs.Dir() + "/missing.jpg",
		ExtraImages: models.ImageList{imgs.Dir() + "/also_missing.jpg"},
	})

	res, err := DeleteProduct(context.Background(), db, imgs, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	require.Len(t, res.Images, 2)
	for _, r := range res.Images {
		assert.Equal(t, images.OutcomeNotFound, r.Outcome)
	}
}

func TestDeleteProductWithoutRemover(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	p := mustCreateProduct(t, db, fullProduct())

	res, err := DeleteProduct(context.Background(), db, nil, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Empty(t, res.Images)
}

func TestToggleFavorite(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	p := mustCreateProduct(t, db, models.Product{Name: "Hoop"})

	ok, err := ToggleFavorite(ctx, db, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := GetProduct(ctx, db, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)

	ok, err = ToggleFavorite(ctx, db, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = GetProduct(ctx, db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, *p, *got)
}

func TestToggleFavoriteMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	p := mustCreateProduct(t, db, models.Product{Name: "Hoop"})

	ok, err := ToggleFavorite(ctx, db, p.ID+1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := GetProduct(ctx, db, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFavorite)
}

func seedCatalog(t *testing.T, db *sqlx.DB) []*models.Product {
	t.Helper()

	catalog := []models.Product{
		{Name: "Ruby Ring", Category: "R", SupplierName: "Alpha", ProductCode: "R-1", StockQty: 5},
		{Name: "Pearl Necklace", Category: "N", SupplierName: "Beta", ProductCode: "N-1", StockQty: 15, IsFavorite: true},
		{Name: "Gold Earring", Category: "E", SupplierName: "Alpha", SupplierItemNo: "ruby-e", StockQty: 2},
		{Name: "Silver Bracelet", Category: "B", SupplierName: "Gamma", ProductCode: "B-1", StockQty: 5, IsFavorite: true, Discontinued: true},
		{Name: "100% Pure Band", Category: "R", SupplierName: "Delta", ProductCode: "R_2", WeightG: decimal.RequireFromString("3.75")},
	}

	out := make([]*models.Product, len(catalog))
	for i, p := range catalog {
		out[i] = mustCreateProduct(t, db, p)
	}
	return out
}

func TestSearchProductsOrdering(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	seedCatalog(t, db)

	all, err := SearchProducts(context.Background(), db, map[string]string{}, "")
	require.NoError(t, err)

	// Favorites (2, 4) newest first, then the rest newest first.
	assert.Equal(t, []int64{4, 2, 5, 3, 1}, ids(all))
}

func TestSearchProductsFavoriteFilter(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	seedCatalog(t, db)
	ctx := context.Background()

	for _, v := range []string{"1", "true", "True", "Y"} {
		favs, err := SearchProducts(ctx, db, map[string]string{"is_favorite": v}, "")
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 2}, ids(favs), "is_favorite=%q", v)
	}

	others, err := SearchProducts(ctx, db, map[string]string{"is_favorite": "no"}, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 3, 1}, ids(others))
}

func TestSearchProductsFieldFilters(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	seedCatalog(t, db)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters map[string]string
		want    []int64
	}{
		{"substring is case insensitive", map[string]string{"name": "RING"}, []int64{3, 1}},
		{"conjunction", map[string]string{"supplier_name": "alpha", "category": "r"}, []int64{1}},
		{"exact numeric", map[string]string{"stock_qty": "5"}, []int64{4, 1}},
		{"exact numeric is not a substring", map[string]string{"stock_qty": "1"}, []int64{}},
		{"exact weight", map[string]string{"weight_g": "3.75"}, []int64{5}},
		{"discontinued flag", map[string]string{"discontinued": "y"}, []int64{4}},
		{"blank values ignored", map[string]string{"name": "   ", "category": ""}, []int64{4, 2, 5, 3, 1}},
		{"unknown keys ignored", map[string]string{"color": "red", "id": "1"}, []int64{4, 2, 5, 3, 1}},
		{"percent is literal", map[string]string{"name": "100%"}, []int64{5}},
		{"underscore is literal", map[string]string{"product_code": "R_"}, []int64{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SearchProducts(ctx, db, tt.filters, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSearchProductsFreeText(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	seedCatalog(t, db)
	ctx := context.Background()

	got, err := SearchProducts(ctx, db, nil, "ruby")
	require.NoError(t, err)
	// name of 1, supplier_item_no of 3
	assert.Equal(t, []int64{3, 1}, ids(got))

	got, err = SearchProducts(ctx, db, map[string]string{"stock_qty": "2"}, "ruby")
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(got))

	got, err = SearchProducts(ctx, db, nil, "b-1")
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(got))

	got, err = SearchProducts(ctx, db, nil, "   ")
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestSearchProductsWholeNumberWeight(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	five := mustCreateProduct(t, db, models.Product{Name: "Heavy Chain", WeightG: decimal.NewFromInt(5)})
	mustCreateProduct(t, db, models.Product{Name: "Light Chain", WeightG: decimal.RequireFromString("5.5")})

	// The JSON rendering of the stored weight must find the row again.
	data, err := five.WeightG.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"5"`, string(data))

	for _, v := range []string{"5", "5.0", "5.00", " 5 "} {
		got, err := SearchProducts(ctx, db, map[string]string{"weight_g": v}, "")
		require.NoError(t, err)
		assert.Equal(t, []int64{five.ID}, ids(got), "weight_g=%q", v)
	}

	got, err := SearchProducts(ctx, db, map[string]string{"weight_g": "heavy"}, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestToggleFavoriteOnNullFlag(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	p := mustCreateProduct(t, db, models.Product{Name: "Legacy Hoop"})
	_, err := db.ExecContext(ctx, "UPDATE products SET is_favorite = NULL WHERE id = ?", p.ID)
	require.NoError(t, err)

	others, err := SearchProducts(ctx, db, map[string]string{"is_favorite": "0"}, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{p.ID}, ids(others), "a NULL flag reads as false")

	ok, err := ToggleFavorite(ctx, db, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := GetProduct(ctx, db, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
}

func TestDeleteProductKeepsFilesOutsideStore(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	imgs, err := images.New(t.TempDir())
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "important.txt")
	stored, err := imgs.Import(outside)
	require.NoError(t, err)
	assert.Equal(t, outside, stored, "a missing source is kept as sent")

	p := mustCreateProduct(t, db, models.Product{Name: "Trap", ImagePath: stored})
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o644))

	res, err := DeleteProduct(ctx, db, imgs, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	require.Len(t, res.Images, 1)
	assert.Equal(t, images.OutcomeOutsideStore, res.Images[0].Outcome)

	data, err := os.ReadFile(outside)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}
