package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Engine memoizes matrices by the content of their inputs. A cache miss
// rebuilds the whole matrix; nothing is ever patched in place.
type Engine struct {
	catalog Catalog
	cache   *lru.Cache[string, *Matrix]
}

// NewEngine returns an engine keeping up to size matrices.
func NewEngine(cat Catalog, size int) (*Engine, error) {
	cache, err := lru.New[string, *Matrix](size)
	if err != nil {
		return nil, fmt.Errorf("create matrix cache: %w", err)
	}
	return &Engine{catalog: cat.clone(), cache: cache}, nil
}

// Catalog returns a copy of the engine's catalog.
func (e *Engine) Catalog() Catalog {
	return e.catalog.clone()
}

// Matrix returns the matrix for in, building it on a cache miss.
func (e *Engine) Matrix(in Inputs) (*Matrix, error) {
	key, err := InputsKey(in)
	if err != nil {
		return nil, err
	}
	if m, ok := e.cache.Get(key); ok {
		return m, nil
	}
	m := Build(e.catalog, in)
	e.cache.Add(key, m)
	return m, nil
}

// InputsKey hashes the canonical JSON form of in. Map keys are encoded in
// sorted order, so equal inputs always hash equally.
func InputsKey(in Inputs) (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode pricing inputs: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
