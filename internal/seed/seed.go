// Package seed loads the demo catalog into an empty store.
package seed

import (
	"database/sql"
	"fmt"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

// Config contains the values required by startup seed.
type Config struct {
	Branches []string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

var demoSuppliers = []pricing.Supplier{
	{ID: "s1", Name: "Exide"},
	{ID: "s2", Name: "Willard"},
	{ID: "s3", Name: "Electro City"},
	{ID: "s4", Name: "Enertec"},
}

var demoProducts = []pricing.SupplierProduct{
	{ID: "p1", SupplierID: "s1", SupplierSKU: "619", InternalSKU: "619", InvoicePrice: 900, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
	{ID: "p2", SupplierID: "s2", SupplierSKU: "619", InternalSKU: "619", InvoicePrice: 950, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
	{ID: "p3", SupplierID: "s3", SupplierSKU: "EC-619", InternalSKU: "619", InvoicePrice: 700, SupplierType: pricing.LocalImport, ScrapType: pricing.ScrapStandard},
	{ID: "p6", SupplierID: "s1", SupplierSKU: "628", InternalSKU: "628", InvoicePrice: 1100, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
	{ID: "p7", SupplierID: "s2", SupplierSKU: "628", InternalSKU: "628", InvoicePrice: 1150, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
	{ID: "p8", SupplierID: "s4", SupplierSKU: "EN-628", InternalSKU: "628", InvoicePrice: 850, SupplierType: pricing.LocalImport, ScrapType: pricing.ScrapStandard},
	{ID: "p9", SupplierID: "s1", SupplierSKU: "652", InternalSKU: "652", InvoicePrice: 1500, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
	{ID: "p10", SupplierID: "s2", SupplierSKU: "652", InternalSKU: "652", InvoicePrice: 1550, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
	{ID: "p11", SupplierID: "s3", SupplierSKU: "EC-652", InternalSKU: "652", InvoicePrice: 1200, SupplierType: pricing.LocalImport, ScrapType: pricing.ScrapLarge},
	{ID: "p12", SupplierID: "s1", SupplierSKU: "668", InternalSKU: "668", InvoicePrice: 1800, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
}

// Run executes the startup seed in an idempotent way. Records that already
// exist are left untouched, including edited prices and GP settings.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, sup := range demoSuppliers {
		if err := ensureSupplier(tx, sup, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	for _, p := range demoProducts {
		if err := ensureProduct(tx, p, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		if err := ensureGpDefaults(tx, cfg.Branches, p.InternalSKU, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSupplier(tx *sql.Tx, sup pricing.Supplier, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM suppliers WHERE id = ? LIMIT 1)`, sup.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check supplier %q existence: %w", sup.ID, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO suppliers (id, name) VALUES (?, ?)`, sup.ID, sup.Name); err != nil {
		return fmt.Errorf("insert supplier %q: %w", sup.ID, err)
	}
	stats.Inserts++
	return nil
}

func ensureProduct(tx *sql.Tx, p pricing.SupplierProduct, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM supplier_products WHERE id = ? LIMIT 1)`, p.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check product %q existence: %w", p.ID, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO supplier_products (id, supplier_id, supplier_sku, internal_sku, invoice_price, supplier_type, scrap_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.SupplierID, p.SupplierSKU, p.InternalSKU, p.InvoicePrice, string(p.SupplierType), string(p.ScrapType)); err != nil {
		return fmt.Errorf("insert product %q: %w", p.ID, err)
	}
	stats.Inserts++
	return nil
}

func ensureGpDefaults(tx *sql.Tx, branches []string, sku string, stats *Stats) error {
	def := pricing.DefaultGpConfig()
	for _, branch := range branches {
		result, err := tx.Exec(`
			INSERT INTO gp_configs (branch, internal_sku, g, s, b_mode, b_value)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(branch, internal_sku) DO NOTHING
		`, branch, sku, def.G, def.S, string(def.BMode), def.BValue)
		if err != nil {
			return fmt.Errorf("insert gp defaults %s/%s: %w", branch, sku, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("count gp defaults %s/%s: %w", branch, sku, err)
		}
		stats.Inserts += int(affected)
	}
	return nil
}
