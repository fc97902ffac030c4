package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

// ListSuppliers returns suppliers in creation order.
func (s *Store) ListSuppliers(ctx context.Context) ([]pricing.Supplier, error) {
	return listSuppliers(ctx, s.db)
}

// GetSupplier returns the supplier with id.
func (s *Store) GetSupplier(ctx context.Context, id string) (pricing.Supplier, error) {
	var sup pricing.Supplier
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM suppliers WHERE id = ?`, id).Scan(&sup.ID, &sup.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Supplier{}, fmt.Errorf("supplier %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return pricing.Supplier{}, fmt.Errorf("query supplier: %w", err)
	}
	return sup, nil
}

// CreateSupplier adds a supplier with a generated ID.
func (s *Store) CreateSupplier(ctx context.Context, name string) (pricing.Supplier, error) {
	sup := pricing.Supplier{ID: uuid.NewString(), Name: strings.TrimSpace(name)}
	if err := sup.Validate(); err != nil {
		return pricing.Supplier{}, err
	}
	if err := insertSupplier(ctx, s.db, sup); err != nil {
		return pricing.Supplier{}, err
	}
	return sup, nil
}

// UpdateSupplier renames a supplier. Renaming can turn a supplier into or out
// of an anchor brand.
func (s *Store) UpdateSupplier(ctx context.Context, sup pricing.Supplier) error {
	sup.Name = strings.TrimSpace(sup.Name)
	if err := sup.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET
			name = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, sup.Name, sup.ID)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return requireAffected(result, "update supplier")
}

// DeleteSupplier removes a supplier that no product references.
func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete supplier transaction: %w", err)
	}

	var inUse bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM supplier_products WHERE supplier_id = ?)`, id).Scan(&inUse); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("check supplier products: %w", err)
	}
	if inUse {
		_ = tx.Rollback()
		return fmt.Errorf("delete supplier %q: %w", id, ErrSupplierInUse)
	}

	if err := deleteSupplier(ctx, tx, id); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete supplier transaction: %w", err)
	}
	return nil
}

// deleteSupplier reports a foreign key rejection as ErrSupplierInUse.
func deleteSupplier(ctx context.Context, q queryer, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("delete supplier %q: %w", id, ErrSupplierInUse)
	}
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return requireAffected(result, "delete supplier")
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func insertSupplier(ctx context.Context, q queryer, sup pricing.Supplier) error {
	if _, err := q.ExecContext(ctx, `INSERT INTO suppliers (id, name) VALUES (?, ?)`, sup.ID, sup.Name); err != nil {
		return fmt.Errorf("insert supplier %q: %w", sup.ID, err)
	}
	return nil
}

func listSuppliers(ctx context.Context, q queryer) ([]pricing.Supplier, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name FROM suppliers ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := make([]pricing.Supplier, 0)
	for rows.Next() {
		var sup pricing.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, sup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suppliers: %w", err)
	}

	return suppliers, nil
}
