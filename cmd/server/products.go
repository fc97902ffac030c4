package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

type productRequest struct {
	SupplierID   string               `json:"supplierId"`
	SupplierSKU  string               `json:"supplierSku"`
	InternalSKU  string               `json:"internalSku"`
	InvoicePrice float64              `json:"invoicePrice"`
	SupplierType pricing.SupplierType `json:"supplierType"`
	ScrapType    pricing.ScrapType    `json:"scrapType"`
}

func (req productRequest) product(id string) pricing.SupplierProduct {
	return pricing.SupplierProduct{
		ID:           id,
		SupplierID:   req.SupplierID,
		SupplierSKU:  req.SupplierSKU,
		InternalSKU:  req.InternalSKU,
		InvoicePrice: req.InvoicePrice,
		SupplierType: req.SupplierType,
		ScrapType:    req.ScrapType,
	}
}

func (s *server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []pricing.SupplierProduct
		err      error
	)
	if supplierID := r.URL.Query().Get("supplierId"); supplierID != "" {
		products, err = s.store.ListProductsBySupplier(r.Context(), supplierID)
	} else {
		products, err = s.store.ListProducts(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.store.CreateProduct(r.Context(), req.product(""))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.store.UpdateProduct(r.Context(), req.product(chi.URLParam(r, "id")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
