package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Simplici0/batteryprice/internal/interchange"
	"github.com/Simplici0/batteryprice/internal/pricing"
	"github.com/Simplici0/batteryprice/internal/store"
)

const maxBodyBytes = 1 << 20

type server struct {
	store  *store.Store
	engine *pricing.Engine
	logger *logrus.Logger
	now    func() time.Time
}

func newServer(st *store.Store, engine *pricing.Engine, logger *logrus.Logger) *server {
	return &server{store: st, engine: engine, logger: logger, now: time.Now}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/suppliers", s.handleListSuppliers)
		r.Post("/suppliers", s.handleCreateSupplier)
		r.Put("/suppliers/{id}", s.handleUpdateSupplier)
		r.Delete("/suppliers/{id}", s.handleDeleteSupplier)
		r.Get("/suppliers/{id}/costs.csv", s.handleSupplierCostsCSV)

		r.Get("/products", s.handleListProducts)
		r.Post("/products", s.handleCreateProduct)
		r.Put("/products/{id}", s.handleUpdateProduct)
		r.Delete("/products/{id}", s.handleDeleteProduct)

		r.Get("/matrix", s.handleFullMatrix)
		r.Get("/branches", s.handleListBranches)
		r.Route("/branches/{branch}", func(r chi.Router) {
			r.Use(s.requireBranch)
			r.Get("/matrix", s.handleMatrix)
			r.Get("/matrix.csv", s.handleMatrixCSV)
			r.Get("/matrix.xlsx", s.handleMatrixXLSX)
			r.Get("/gp", s.handleListGpConfigs)
			r.Put("/gp", s.handleSetGpConfig)
			r.Get("/analysis", s.handleAnalysis)
			r.Get("/pricelist", s.handlePriceList)
			r.Get("/pricelist.csv", s.handlePriceListCSV)
		})

		r.Get("/data/export", s.handleExportData)
		r.Post("/data/import", s.handleImportData)
	})
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"durationMs": time.Since(start).Milliseconds(),
			"requestId":  middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

func (s *server) requireBranch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		branch := chi.URLParam(r, "branch")
		if !s.engine.Catalog().HasBranch(branch) {
			s.writeError(w, r, fmt.Errorf("%w: %q", store.ErrUnknownBranch, branch))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// matrix prices the current store content. Build issues are logged and
// returned to the caller with the matrix.
func (s *server) matrix(r *http.Request) (*pricing.Matrix, error) {
	_, m, err := s.snapshotMatrix(r)
	return m, err
}

// snapshotMatrix returns one store snapshot together with the matrix priced
// from it.
func (s *server) snapshotMatrix(r *http.Request) (pricing.Inputs, *pricing.Matrix, error) {
	in, err := s.store.Snapshot(r.Context())
	if err != nil {
		return pricing.Inputs{}, nil, err
	}
	m, err := s.engine.Matrix(in)
	if err != nil {
		return pricing.Inputs{}, nil, err
	}
	if issues := m.Issues(); len(issues) > 0 {
		s.logger.WithFields(logrus.Fields{
			"issues":    len(issues),
			"detail":    pricing.IssueMessages(issues),
			"requestId": middleware.GetReqID(r.Context()),
		}).Warn("pricing matrix has data issues")
	}
	return in, m, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrUnknownBranch):
		return http.StatusNotFound
	case errors.Is(err, store.ErrSupplierInUse):
		return http.StatusConflict
	case errors.Is(err, pricing.ErrConfiguration),
		errors.Is(err, pricing.ErrMissingReference),
		errors.Is(err, pricing.ErrInvalidRecord),
		errors.Is(err, interchange.ErrInvalidDocument),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithFields(logrus.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"requestId": middleware.GetReqID(r.Context()),
		}).WithError(err).Error("request failed")
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid json body: %v", err)
	}
	return nil
}

func setDownload(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, badRequest("%s must be numeric", field)
	}
	if value < 0 {
		return 0, badRequest("%s must be greater than or equal to 0", field)
	}
	return value, nil
}
