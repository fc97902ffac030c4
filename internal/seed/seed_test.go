package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/batteryprice/internal/db"
	"github.com/Simplici0/batteryprice/internal/migrations"
)

var testBranches = []string{"Alberton", "Vanderbijlpark", "Sasolburg"}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, nil); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{Branches: testBranches}

	// 4 suppliers, 10 products and 4 SKUs configured in 3 branches.
	const firstRunInserts = 4 + 10 + 4*3

	for i := 0; i < 10; i++ {
		stats, err := Run(database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != firstRunInserts {
				t.Fatalf("expected %d inserts in first run, got %d", firstRunInserts, stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM suppliers`, nil, 4)
	assertCount(t, database, `SELECT COUNT(*) FROM supplier_products`, nil, 10)
	assertCount(t, database, `SELECT COUNT(*) FROM supplier_products WHERE internal_sku = ?`, "619", 3)
	assertCount(t, database, `SELECT COUNT(*) FROM gp_configs WHERE branch = ?`, "Sasolburg", 4)
	assertCount(t, database, `SELECT COUNT(*) FROM gp_configs WHERE branch = ? AND internal_sku = ? AND b_mode = ?`, []any{"Alberton", "668", "auto"}, 1)
}

func TestRunKeepsEditedRecords(t *testing.T) {
	t.Parallel()

	database, err := db.Open(filepath.Join(t.TempDir(), "seed-edit.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, nil); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := Run(database, Config{Branches: testBranches}); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	if _, err := database.Exec(`UPDATE supplier_products SET invoice_price = 999 WHERE id = 'p1'`); err != nil {
		t.Fatalf("edit product: %v", err)
	}
	if _, err := database.Exec(`UPDATE gp_configs SET g = 0.25 WHERE branch = 'Alberton' AND internal_sku = '619'`); err != nil {
		t.Fatalf("edit gp config: %v", err)
	}

	if _, err := Run(database, Config{Branches: testBranches}); err != nil {
		t.Fatalf("rerun seed: %v", err)
	}

	assertCount(t, database, `SELECT COUNT(*) FROM supplier_products WHERE id = 'p1' AND invoice_price = 999`, nil, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM gp_configs WHERE branch = 'Alberton' AND internal_sku = '619' AND g = 0.25`, nil, 1)
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
