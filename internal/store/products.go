package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

// ListProducts returns all supplier products in creation order.
func (s *Store) ListProducts(ctx context.Context) ([]pricing.SupplierProduct, error) {
	return listProducts(ctx, s.db)
}

// ListProductsBySupplier returns one supplier's products.
func (s *Store) ListProductsBySupplier(ctx context.Context, supplierID string) ([]pricing.SupplierProduct, error) {
	products, err := listProducts(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]pricing.SupplierProduct, 0)
	for _, p := range products {
		if p.SupplierID == supplierID {
			out = append(out, p)
		}
	}
	return out, nil
}

// CreateProduct adds a product with a generated ID and makes sure every
// branch has a GP configuration for its SKU.
func (s *Store) CreateProduct(ctx context.Context, p pricing.SupplierProduct) (pricing.SupplierProduct, error) {
	p.ID = uuid.NewString()
	return s.writeProduct(ctx, p, insertProduct)
}

// UpdateProduct overwrites an existing product.
func (s *Store) UpdateProduct(ctx context.Context, p pricing.SupplierProduct) (pricing.SupplierProduct, error) {
	return s.writeProduct(ctx, p, updateProduct)
}

// DeleteProduct removes a product. GP configuration for its SKU is kept.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM supplier_products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(result, "delete product")
}

func (s *Store) writeProduct(ctx context.Context, p pricing.SupplierProduct, write func(context.Context, queryer, pricing.SupplierProduct) error) (pricing.SupplierProduct, error) {
	p = p.Normalized()
	p.InternalSKU = strings.TrimSpace(p.InternalSKU)
	p.SupplierSKU = strings.TrimSpace(p.SupplierSKU)
	if err := p.Validate(); err != nil {
		return pricing.SupplierProduct{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pricing.SupplierProduct{}, fmt.Errorf("begin product transaction: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM suppliers WHERE id = ?)`, p.SupplierID).Scan(&exists); err != nil {
		_ = tx.Rollback()
		return pricing.SupplierProduct{}, fmt.Errorf("check product supplier: %w", err)
	}
	if !exists {
		_ = tx.Rollback()
		return pricing.SupplierProduct{}, &pricing.MissingReferenceError{ProductID: p.ID, SupplierID: p.SupplierID}
	}

	if err := write(ctx, tx, p); err != nil {
		_ = tx.Rollback()
		return pricing.SupplierProduct{}, err
	}
	if err := ensureDefaultGpConfigs(ctx, tx, s.branches, p.InternalSKU); err != nil {
		_ = tx.Rollback()
		return pricing.SupplierProduct{}, err
	}

	if err := tx.Commit(); err != nil {
		return pricing.SupplierProduct{}, fmt.Errorf("commit product transaction: %w", err)
	}
	return p, nil
}

func insertProduct(ctx context.Context, q queryer, p pricing.SupplierProduct) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO supplier_products (id, supplier_id, supplier_sku, internal_sku, invoice_price, supplier_type, scrap_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.SupplierID, p.SupplierSKU, p.InternalSKU, p.InvoicePrice, string(p.SupplierType), string(p.ScrapType))
	if err != nil {
		return fmt.Errorf("insert product %q: %w", p.ID, err)
	}
	return nil
}

func updateProduct(ctx context.Context, q queryer, p pricing.SupplierProduct) error {
	result, err := q.ExecContext(ctx, `
		UPDATE supplier_products
		SET
			supplier_id = ?,
			supplier_sku = ?,
			internal_sku = ?,
			invoice_price = ?,
			supplier_type = ?,
			scrap_type = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.SupplierID, p.SupplierSKU, p.InternalSKU, p.InvoicePrice, string(p.SupplierType), string(p.ScrapType), p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(result, "update product")
}

func listProducts(ctx context.Context, q queryer) ([]pricing.SupplierProduct, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, supplier_id, supplier_sku, internal_sku, invoice_price, supplier_type, scrap_type
		FROM supplier_products
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]pricing.SupplierProduct, 0)
	for rows.Next() {
		var p pricing.SupplierProduct
		var supplierType, scrapType string
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.SupplierSKU, &p.InternalSKU, &p.InvoicePrice, &supplierType, &scrapType); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.SupplierType = pricing.SupplierType(supplierType)
		p.ScrapType = pricing.ScrapType(scrapType)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}
