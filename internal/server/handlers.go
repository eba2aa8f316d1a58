package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quantdesk/advisor/internal/domain"
	"github.com/quantdesk/advisor/internal/modules/recommend"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// generateRequest is the body for POST /api/recommendations/generate.
type generateRequest struct {
	Mode            string `json:"mode"` // all | short | long
	StockLimit      int    `json:"stock_limit"`
	FundLimit       int    `json:"fund_limit"`
	UseExplanations bool   `json:"use_explanations"`
	ForceRefresh    bool   `json:"force_refresh"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req := generateRequest{Mode: recommend.ModeAll}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	switch req.Mode {
	case "", recommend.ModeAll, recommend.ModeShort, recommend.ModeLong:
	default:
		s.writeError(w, http.StatusBadRequest, "mode must be all, short or long")
		return
	}
	if req.Mode == "" {
		req.Mode = recommend.ModeAll
	}
	if req.StockLimit <= 0 {
		req.StockLimit = 20
	}
	if req.FundLimit <= 0 {
		req.FundLimit = 20
	}

	result, err := s.recommend.Generate(r.Context(), recommend.GenerateOptions{
		Mode:            req.Mode,
		StockLimit:      req.StockLimit,
		FundLimit:       req.FundLimit,
		UseExplanations: req.UseExplanations,
		ForceRefresh:    req.ForceRefresh,
	})
	if err != nil {
		if errors.Is(err, domain.ErrGenerationBusy) {
			s.writeError(w, http.StatusConflict, "a generation run is already in progress, retry later")
			return
		}
		s.log.Error().Err(err).Msg("Generation failed")
		s.writeError(w, http.StatusInternalServerError, "generation failed")
		return
	}

	s.writeJSON(w, http.StatusOK, recommendationView(result))
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	result, err := s.recommend.Latest()
	if err != nil {
		s.writeError(w, http.StatusNotFound, "no recommendations generated yet")
		return
	}
	s.writeJSON(w, http.StatusOK, recommendationView(result))
}

func (s *Server) handleFactorStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.recommend.FactorStatus()
	if err != nil {
		s.writeError(w, http.StatusNotFound, "no recommendations generated yet")
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

// compareRequest is the body for POST /api/comparison/funds.
type compareRequest struct {
	Codes []string `json:"codes"`
}

func (s *Server) handleCompareFunds(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.comparison.Compare(r.Context(), req.Codes)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidComparison) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrDataUnavailable) {
			s.writeError(w, http.StatusServiceUnavailable, "market data unavailable, retry later")
			return
		}
		s.log.Error().Err(err).Msg("Comparison failed")
		s.writeError(w, http.StatusInternalServerError, "comparison failed")
		return
	}

	s.writeJSON(w, http.StatusOK, comparisonView(result))
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
