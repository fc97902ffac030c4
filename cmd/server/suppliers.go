package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/batteryprice/internal/export"
)

type supplierRequest struct {
	Name string `json:"name"`
}

func (s *server) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.store.ListSuppliers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (s *server) handleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sup, err := s.store.CreateSupplier(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sup)
}

func (s *server) handleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sup, err := s.store.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sup.Name = req.Name
	if err := s.store.UpdateSupplier(r.Context(), sup); err != nil {
		s.writeError(w, r, err)
		return
	}

	sup, err = s.store.GetSupplier(r.Context(), sup.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

func (s *server) handleDeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSupplierCostsCSV(w http.ResponseWriter, r *http.Request) {
	sup, err := s.store.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	products, err := s.store.ListProductsBySupplier(r.Context(), sup.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rows := export.SupplierCosts(s.engine.Catalog(), products)
	setDownload(w, "text/csv; charset=utf-8", export.Filename("Supplier_Costs", sup.Name, s.now(), "csv"))
	if err := export.WriteSupplierCostsCSV(w, rows); err != nil {
		s.logger.WithError(err).WithField("supplier", sup.ID).Error("write supplier costs csv")
	}
}
