package main

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/batteryprice/internal/export"
	"github.com/Simplici0/batteryprice/internal/pricing"
)

const defaultPriceListRounding = 50

func (s *server) handleListBranches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Branches())
}

type matrixResponse struct {
	Branch string                          `json:"branch"`
	States map[string]pricing.PricingState `json:"states"`
	Issues []string                        `json:"issues"`
}

func (s *server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	branch := chi.URLParam(r, "branch")
	m, err := s.matrix(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := matrixResponse{Branch: branch, States: map[string]pricing.PricingState{}, Issues: []string{}}
	for _, state := range m.Branch(branch) {
		resp.States[state.SKU] = state
	}
	for _, issue := range m.Issues() {
		resp.Issues = append(resp.Issues, issue.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleFullMatrix returns every branch with the build issues.
func (s *server) handleFullMatrix(w http.ResponseWriter, r *http.Request) {
	m, err := s.matrix(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *server) handleMatrixCSV(w http.ResponseWriter, r *http.Request) {
	branch := chi.URLParam(r, "branch")
	m, err := s.matrix(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setDownload(w, "text/csv; charset=utf-8", export.Filename("Pricing_Matrix", branch, s.now(), "csv"))
	if err := export.WriteMatrixCSV(w, export.MatrixRows(m, branch)); err != nil {
		s.logger.WithError(err).WithField("branch", branch).Error("write matrix csv")
	}
}

func (s *server) handleMatrixXLSX(w http.ResponseWriter, r *http.Request) {
	branch := chi.URLParam(r, "branch")
	m, err := s.matrix(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteMatrixXLSX(&buf, branch, export.MatrixRows(m, branch)); err != nil {
		s.writeError(w, r, err)
		return
	}
	setDownload(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.Filename("Pricing_Matrix", branch, s.now(), "xlsx"))
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleListGpConfigs(w http.ResponseWriter, r *http.Request) {
	gp, err := s.store.GpInputs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	configs := gp[chi.URLParam(r, "branch")]
	if configs == nil {
		configs = map[string]pricing.GpConfig{}
	}
	writeJSON(w, http.StatusOK, configs)
}

func (s *server) handleSetGpConfig(w http.ResponseWriter, r *http.Request) {
	branch := chi.URLParam(r, "branch")
	sku := strings.TrimSpace(r.URL.Query().Get("sku"))
	if sku == "" {
		s.writeError(w, r, badRequest("sku is required"))
		return
	}

	var cfg pricing.GpConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	if cfg.BMode == pricing.BModeAuto {
		cfg = cfg.WithAutoB()
	}

	if err := s.store.SetGpConfig(r.Context(), branch, sku, cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type analysisResponse struct {
	Status   string             `json:"status"`
	Brand    string             `json:"brand"`
	Tier     string             `json:"tier"`
	Analysis pricing.GPAnalysis `json:"analysis"`
}

func (s *server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	branch := chi.URLParam(r, "branch")
	q := r.URL.Query()
	sku := q.Get("sku")
	brand := q.Get("brand")
	tier, err := parseTier(q.Get("tier"), pricing.TierG)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if sku == "" || brand == "" {
		s.writeError(w, r, badRequest("sku and brand are required"))
		return
	}

	in, m, err := s.snapshotMatrix(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cat := m.Catalog()
	if !cat.IsAnchor(brand) && !cat.IsHouse(brand) {
		s.writeError(w, r, badRequest("unknown brand %q", brand))
		return
	}

	resp := analysisResponse{
		Status:   "no_data",
		Brand:    brand,
		Tier:     string(tier),
		Analysis: pricing.GPAnalysis{SKU: sku, Suppliers: []pricing.SupplierGP{}},
	}
	if t, ok := m.Tier(branch, sku, brand, tier); ok {
		resp.Analysis = cat.AnalyzeGP(t.SellPrice, sku, in.SupplierProducts, in.Suppliers)
		if !resp.Analysis.NoData() {
			resp.Status = "ok"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) priceList(r *http.Request) (export.PriceList, error) {
	q := r.URL.Query()
	query := export.PriceListQuery{
		Options: pricing.DisplayOptions{Rounding: defaultPriceListRounding, ShowVAT: true},
		Search:  q.Get("q"),
	}

	var err error
	if query.Tier, err = parseTier(q.Get("tier"), pricing.TierS); err != nil {
		return export.PriceList{}, err
	}
	if raw := q.Get("rounding"); raw != "" {
		if query.Options.Rounding, err = parseNonNegativeFloat(raw, "rounding"); err != nil {
			return export.PriceList{}, err
		}
	}
	if raw := q.Get("vat"); raw != "" {
		if query.Options.ShowVAT, err = strconv.ParseBool(raw); err != nil {
			return export.PriceList{}, badRequest("vat must be true or false")
		}
	}

	m, err := s.matrix(r)
	if err != nil {
		return export.PriceList{}, err
	}
	return export.BuildPriceList(m, chi.URLParam(r, "branch"), query), nil
}

func (s *server) handlePriceList(w http.ResponseWriter, r *http.Request) {
	list, err := s.priceList(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) handlePriceListCSV(w http.ResponseWriter, r *http.Request) {
	list, err := s.priceList(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setDownload(w, "text/csv; charset=utf-8", export.Filename("GBSA_Price_List", list.Tier, s.now(), "csv"))
	if err := export.WritePriceListCSV(w, list); err != nil {
		s.logger.WithError(err).WithField("branch", list.Branch).Error("write price list csv")
	}
}

func parseTier(raw string, fallback pricing.TierName) (pricing.TierName, error) {
	if raw == "" {
		return fallback, nil
	}
	tier, ok := pricing.ParseTier(strings.ToLower(raw))
	if !ok {
		return "", badRequest("tier must be one of g, b, s, a")
	}
	return tier, nil
}
