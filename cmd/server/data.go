package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Simplici0/batteryprice/internal/interchange"
	"github.com/Simplici0/batteryprice/internal/store"
)

const maxImportBytes = 32 << 20

func (s *server) handleExportData(w http.ResponseWriter, r *http.Request) {
	in, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("gbsa_pricing_data_%s.json", s.now().Format("2006-01-02"))
	setDownload(w, "application/json", filename)
	if err := interchange.Encode(w, in); err != nil {
		s.logger.WithError(err).Error("write interchange document")
	}
}

type importResponse struct {
	Suppliers        int `json:"suppliers"`
	SupplierProducts int `json:"supplierProducts"`
}

// handleImportData replaces the whole catalog. A rejected document leaves the
// store as it was.
func (s *server) handleImportData(w http.ResponseWriter, r *http.Request) {
	in, err := interchange.Decode(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = badRequest("document larger than %d bytes", tooLarge.Limit)
		}
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Replace(r.Context(), in); err != nil {
		if errors.Is(err, store.ErrUnknownBranch) {
			err = badRequest("%v", err)
		}
		s.writeError(w, r, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"suppliers": len(in.Suppliers),
		"products":  len(in.SupplierProducts),
	}).Info("catalog imported")
	writeJSON(w, http.StatusOK, importResponse{Suppliers: len(in.Suppliers), SupplierProducts: len(in.SupplierProducts)})
}
