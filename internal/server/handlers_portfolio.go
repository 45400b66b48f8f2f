package server

import (
	"net/http"

	"github.com/folioai/folio/internal/models"
	"github.com/folioai/folio/internal/services/portfolio"
)

// handlePortfolios handles GET (list) and POST (create) on /api/portfolios.
func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()

	if r.Method == http.MethodGet {
		portfolios, err := s.app.PortfolioService.ListPortfolios(ctx, userID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if portfolios == nil {
			portfolios = []*models.Portfolio{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"data":   portfolios,
		})
		return
	}

	var p models.Portfolio
	if !DecodeJSON(w, r, &p) {
		return
	}

	created, err := s.app.PortfolioService.CreatePortfolio(ctx, userID, &p)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "ok",
		"data":   created,
	})
}

// handlePortfolio handles GET/PUT/DELETE on /api/portfolios/{id}.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request, portfolioID string) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		p, err := s.app.PortfolioService.GetPortfolio(ctx, userID, portfolioID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"data":   p,
		})

	case http.MethodPut:
		var update models.PortfolioUpdate
		if !DecodeJSON(w, r, &update) {
			return
		}
		p, err := s.app.PortfolioService.UpdatePortfolio(ctx, userID, portfolioID, update)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"data":   p,
		})

	case http.MethodDelete:
		if err := s.app.PortfolioService.DeletePortfolio(ctx, userID, portfolioID); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// handlePortfolioDefault handles POST /api/portfolios/{id}/default.
func (s *Server) handlePortfolioDefault(w http.ResponseWriter, r *http.Request, portfolioID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	p, err := s.app.PortfolioService.SetDefaultPortfolio(r.Context(), userID, portfolioID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   p,
	})
}

// handleInvestmentAdd handles POST /api/portfolios/{id}/investments.
func (s *Server) handleInvestmentAdd(w http.ResponseWriter, r *http.Request, portfolioID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	var inv models.Investment
	if !DecodeJSON(w, r, &inv) {
		return
	}

	p, err := s.app.PortfolioService.AddInvestment(r.Context(), userID, portfolioID, &inv)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "ok",
		"data":   p,
	})
}

// handleInvestment handles PUT/DELETE on /api/portfolios/{id}/investments/{lotID}.
func (s *Server) handleInvestment(w http.ResponseWriter, r *http.Request, portfolioID, lotID string) {
	if !RequireMethod(w, r, http.MethodPut, http.MethodDelete) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()

	switch r.Method {
	case http.MethodPut:
		var inv models.Investment
		if !DecodeJSON(w, r, &inv) {
			return
		}
		p, err := s.app.PortfolioService.UpdateInvestment(ctx, userID, portfolioID, lotID, &inv)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"data":   p,
		})

	case http.MethodDelete:
		p, err := s.app.PortfolioService.RemoveInvestment(ctx, userID, portfolioID, lotID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"data":   p,
		})
	}
}

// handlePortfolioRefresh handles POST /api/portfolios/{id}/refresh.
func (s *Server) handlePortfolioRefresh(w http.ResponseWriter, r *http.Request, portfolioID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	result, err := s.app.PortfolioService.RefreshPrices(r.Context(), userID, portfolioID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   result,
	})
}

// handlePortfolioChart handles GET /api/portfolios/{id}/chart — growth PNG.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request, portfolioID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	points, err := s.app.PortfolioService.GrowthSeries(r.Context(), userID, portfolioID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	png, err := portfolio.RenderGrowthChart(points)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
