// Package store keeps suppliers, supplier products and GP configuration in
// SQLite and hands consistent snapshots of them to the pricing engine.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrSupplierInUse = errors.New("supplier still has products")
	ErrUnknownBranch = errors.New("unknown branch")
)

// Store is the CRUD collaborator of the pricing engine.
type Store struct {
	db       *sql.DB
	branches []string
}

// New returns a store whose GP configuration is limited to branches.
func New(db *sql.DB, branches []string) *Store {
	return &Store{db: db, branches: slices.Clone(branches)}
}

// Branches returns the configured branches.
func (s *Store) Branches() []string {
	return slices.Clone(s.branches)
}

func (s *Store) checkBranch(branch string) error {
	if !slices.Contains(s.branches, branch) {
		return fmt.Errorf("%w: %q", ErrUnknownBranch, branch)
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Snapshot reads everything the engine needs in one transaction.
func (s *Store) Snapshot(ctx context.Context) (pricing.Inputs, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pricing.Inputs{}, fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	suppliers, err := listSuppliers(ctx, tx)
	if err != nil {
		return pricing.Inputs{}, err
	}
	products, err := listProducts(ctx, tx)
	if err != nil {
		return pricing.Inputs{}, err
	}
	gp, err := listGpConfigs(ctx, tx)
	if err != nil {
		return pricing.Inputs{}, err
	}

	return pricing.Inputs{Suppliers: suppliers, SupplierProducts: products, GpInputs: gp}, nil
}

// Replace swaps the whole store content for in. Nothing is changed when any
// record is invalid.
func (s *Store) Replace(ctx context.Context, in pricing.Inputs) error {
	products, err := s.validateInputs(in)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}

	if err := replaceAll(ctx, tx, in, products, s.branches); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace transaction: %w", err)
	}
	return nil
}

func (s *Store) validateInputs(in pricing.Inputs) ([]pricing.SupplierProduct, error) {
	known := make(map[string]struct{}, len(in.Suppliers))
	for _, sup := range in.Suppliers {
		if err := sup.Validate(); err != nil {
			return nil, err
		}
		if _, dup := known[sup.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate supplier id %q", pricing.ErrInvalidRecord, sup.ID)
		}
		known[sup.ID] = struct{}{}
	}

	products := make([]pricing.SupplierProduct, 0, len(in.SupplierProducts))
	productIDs := make(map[string]struct{}, len(in.SupplierProducts))
	for _, p := range in.SupplierProducts {
		p = p.Normalized()
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := productIDs[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", pricing.ErrInvalidRecord, p.ID)
		}
		productIDs[p.ID] = struct{}{}
		if _, ok := known[p.SupplierID]; !ok {
			return nil, &pricing.MissingReferenceError{ProductID: p.ID, SupplierID: p.SupplierID}
		}
		products = append(products, p)
	}

	for branch, configs := range in.GpInputs {
		if err := s.checkBranch(branch); err != nil {
			return nil, err
		}
		for sku, cfg := range configs {
			if err := cfg.Validate(); err != nil {
				return nil, locate(err, branch, sku)
			}
		}
	}
	return products, nil
}

func replaceAll(ctx context.Context, tx *sql.Tx, in pricing.Inputs, products []pricing.SupplierProduct, branches []string) error {
	for _, stmt := range []string{
		`DELETE FROM gp_configs`,
		`DELETE FROM supplier_products`,
		`DELETE FROM suppliers`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
	}

	for _, sup := range in.Suppliers {
		if err := insertSupplier(ctx, tx, sup); err != nil {
			return err
		}
	}
	for _, p := range products {
		if err := insertProduct(ctx, tx, p); err != nil {
			return err
		}
	}
	for branch, configs := range in.GpInputs {
		for sku, cfg := range configs {
			if err := upsertGpConfig(ctx, tx, branch, sku, cfg); err != nil {
				return err
			}
		}
	}
	for _, p := range products {
		if err := ensureDefaultGpConfigs(ctx, tx, branches, p.InternalSKU); err != nil {
			return err
		}
	}
	return nil
}

func locate(err error, branch, sku string) error {
	var cerr *pricing.ConfigurationError
	if errors.As(err, &cerr) {
		located := *cerr
		located.Branch, located.SKU = branch, sku
		return &located
	}
	return err
}

func requireAffected(result sql.Result, what string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
