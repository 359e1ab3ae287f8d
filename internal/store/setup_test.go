package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/safar/goldstock/internal/config"
	"github.com/safar/goldstock/internal/database"
	"github.com/safar/goldstock/internal/images"
	"github.com/safar/goldstock/internal/models"
)

func setupTestDB(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	db, err := database.NewConnection(&config.DatabaseConfig{
		Driver: database.DriverSQLite,
		URL:    filepath.Join(t.TempDir(), "DB", "gold_data.db"),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
	}

	return db, cleanup
}

func mustCreateProduct(t *testing.T, db *sqlx.DB, p models.Product) *models.Product {
	t.Helper()

	product, err := CreateProduct(context.Background(), db, p)
	if err != nil {
		t.Fatalf("Create product %q: %v", p.Name, err)
	}
	return product
}

type recordingRemover struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingRemover) Remove(paths ...string) []images.RemoveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	results := make([]images.RemoveResult, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		r.paths = append(r.paths, p)
		results = append(results, images.RemoveResult{Path: p, Outcome: images.OutcomeDeleted})
	}
	return results
}

func ids(products []models.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
