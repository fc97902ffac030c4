package store

import (
	"context"
	"fmt"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

// GpInputs returns every stored GP configuration.
func (s *Store) GpInputs(ctx context.Context) (pricing.GpInputs, error) {
	return listGpConfigs(ctx, s.db)
}

// SetGpConfig validates and stores the configuration of sku in branch. An
// unusable configuration is rejected here, before anything is priced with it.
func (s *Store) SetGpConfig(ctx context.Context, branch, sku string, cfg pricing.GpConfig) error {
	if err := s.checkBranch(branch); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return locate(err, branch, sku)
	}
	return upsertGpConfig(ctx, s.db, branch, sku, cfg)
}

func upsertGpConfig(ctx context.Context, q queryer, branch, sku string, cfg pricing.GpConfig) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO gp_configs (branch, internal_sku, g, s, b_mode, b_value)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(branch, internal_sku) DO UPDATE SET
			g = excluded.g,
			s = excluded.s,
			b_mode = excluded.b_mode,
			b_value = excluded.b_value,
			updated_at = CURRENT_TIMESTAMP
	`, branch, sku, cfg.G, cfg.S, string(cfg.BMode), cfg.BValue)
	if err != nil {
		return fmt.Errorf("upsert gp config %s/%s: %w", branch, sku, err)
	}
	return nil
}

func ensureDefaultGpConfigs(ctx context.Context, q queryer, branches []string, sku string) error {
	def := pricing.DefaultGpConfig()
	for _, branch := range branches {
		_, err := q.ExecContext(ctx, `
			INSERT INTO gp_configs (branch, internal_sku, g, s, b_mode, b_value)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(branch, internal_sku) DO NOTHING
		`, branch, sku, def.G, def.S, string(def.BMode), def.BValue)
		if err != nil {
			return fmt.Errorf("insert default gp config %s/%s: %w", branch, sku, err)
		}
	}
	return nil
}

func listGpConfigs(ctx context.Context, q queryer) (pricing.GpInputs, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT branch, internal_sku, g, s, b_mode, b_value
		FROM gp_configs
		ORDER BY branch, internal_sku
	`)
	if err != nil {
		return nil, fmt.Errorf("query gp configs: %w", err)
	}
	defer rows.Close()

	inputs := pricing.GpInputs{}
	for rows.Next() {
		var branch, sku, mode string
		var cfg pricing.GpConfig
		if err := rows.Scan(&branch, &sku, &cfg.G, &cfg.S, &mode, &cfg.BValue); err != nil {
			return nil, fmt.Errorf("scan gp config: %w", err)
		}
		cfg.BMode = pricing.BMode(mode)
		inputs.Set(branch, sku, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gp configs: %w", err)
	}

	return inputs, nil
}
