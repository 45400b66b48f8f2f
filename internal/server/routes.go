package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/folioai/folio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Users
	mux.HandleFunc("/api/users/me", s.handleUserMe)
	mux.HandleFunc("/api/users/me/preferences", s.handleUserPreferences)
	mux.HandleFunc("/api/users", s.handleUserCreate)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Portfolios
	mux.HandleFunc("/api/portfolios/", s.routePortfolios)
	mux.HandleFunc("/api/portfolios", s.handlePortfolios)
}

// routePortfolios dispatches /api/portfolios/{id}/* to the appropriate handler.
func (s *Server) routePortfolios(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	if path == "" {
		s.handlePortfolios(w, r)
		return
	}

	// Split into id and sub-path
	parts := strings.SplitN(path, "/", 2)
	portfolioID := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		s.handlePortfolio(w, r, portfolioID)
	case "default":
		s.handlePortfolioDefault(w, r, portfolioID)
	case "investments":
		s.handleInvestmentAdd(w, r, portfolioID)
	case "refresh":
		s.handlePortfolioRefresh(w, r, portfolioID)
	case "gains":
		s.handlePortfolioGains(w, r, portfolioID)
	case "harvest":
		s.handlePortfolioHarvest(w, r, portfolioID)
	case "chart":
		s.handlePortfolioChart(w, r, portfolioID)
	case "advice":
		s.handlePortfolioAdvice(w, r, portfolioID)
	default:
		if strings.HasPrefix(subpath, "investments/") {
			lotID := strings.TrimPrefix(subpath, "investments/")
			s.handleInvestment(w, r, portfolioID, lotID)
			return
		}
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	// In production only admins may shut the server down.
	if s.app.Config.IsProduction() && !common.IsAdmin(r.Context()) {
		WriteError(w, http.StatusForbidden, "Shutdown requires admin privileges in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
