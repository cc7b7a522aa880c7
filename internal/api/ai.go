package api

import (
	"encoding/base64"
	"net/http"

	"github.com/erazemk/zapuscina/internal/liquidate"
	"github.com/erazemk/zapuscina/internal/model"
)

// AIHandler exposes the stateless generation endpoints. They run the same
// remote-or-local policy as the owner-scoped routes but never read or write
// the catalog.
type AIHandler struct {
	Service *liquidate.Service
}

// GenerateBrief handles POST /api/ai/generate-liquidation-brief.
func (h *AIHandler) GenerateBrief(w http.ResponseWriter, r *http.Request) {
	var req model.LiquidationBriefRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PhotoJpegBase64 != "" {
		if _, err := base64.StdEncoding.DecodeString(req.PhotoJpegBase64); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid photoJpegBase64")
			return
		}
	}

	brief, err := h.Service.GenerateBriefFromRequest(r.Context(), req)
	if err != nil {
		liquidationError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, brief)
}

// GeneratePlan handles POST /api/ai/generate-liquidation-plan.
func (h *AIHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req model.LiquidationPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan := h.Service.GeneratePlanFromRequest(r.Context(), req)
	jsonResponse(w, http.StatusOK, plan)
}
