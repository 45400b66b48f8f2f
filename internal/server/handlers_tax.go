package server

import (
	"net/http"
	"strconv"
	"time"
)

// handlePortfolioGains handles GET /api/portfolios/{id}/gains.
// Optional query parameters: year (tax year, defaults to the current year)
// and as_of (YYYY-MM-DD valuation date, defaults to now).
func (s *Server) handlePortfolioGains(w http.ResponseWriter, r *http.Request, portfolioID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	asOf := time.Now()
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "as_of must be formatted YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	year := asOf.Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		year = parsed
	}

	p, err := s.app.PortfolioService.GetPortfolio(r.Context(), userID, portfolioID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	report := s.app.TaxService.CalculateGains(p.Investments, year, asOf)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   report,
	})
}

// handlePortfolioHarvest handles GET /api/portfolios/{id}/harvest.
func (s *Server) handlePortfolioHarvest(w http.ResponseWriter, r *http.Request, portfolioID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	p, err := s.app.PortfolioService.GetPortfolio(r.Context(), userID, portfolioID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	candidates := s.app.TaxService.SelectHarvestCandidates(p.Investments)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   candidates,
	})
}
