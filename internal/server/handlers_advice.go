package server

import (
	"net/http"

	"github.com/folioai/folio/internal/models"
)

// handlePortfolioAdvice handles POST /api/portfolios/{id}/advice.
// The request body selects the advice type: advice, optimize, tax_loss,
// or regulatory. An empty body defaults to general advice.
func (s *Server) handlePortfolioAdvice(w http.ResponseWriter, r *http.Request, portfolioID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	var req struct {
		Type string `json:"type"`
	}
	if r.ContentLength > 0 {
		if !DecodeJSON(w, r, &req) {
			return
		}
	}

	kind := models.AdviceKind(req.Type)
	if req.Type == "" {
		kind = models.AdviceKindGeneral
	}

	if s.app.GeminiClient == nil {
		WriteError(w, http.StatusServiceUnavailable, "advisory service not configured: missing Gemini API key")
		return
	}

	advice, err := s.app.AdvisorService.Advise(r.Context(), userID, portfolioID, kind)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   advice,
	})
}
