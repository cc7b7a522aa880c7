package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/erazemk/zapuscina/internal/ai"
	"github.com/erazemk/zapuscina/internal/liquidate"
	"github.com/erazemk/zapuscina/internal/model"
)

// LiquidationHandler serves the owner-scoped liquidation workflow. Each route
// is registered once per owner type; the handler methods return the bound
// http.HandlerFunc.
type LiquidationHandler struct {
	Service *liquidate.Service
}

type generateBriefRequest struct {
	Goal         string                        `json:"goal"`
	Constraints  *model.LiquidationConstraints `json:"constraints"`
	LocationHint string                        `json:"location_hint"`
}

type generatePlanRequest struct {
	ChosenPath string `json:"chosen_path"`
}

type checklistNoteRequest struct {
	Notes string `json:"notes"`
}

// liquidationError maps service failures onto HTTP statuses: missing owners
// and steps are 404, caller mistakes 400, workflow preconditions 409, an
// unusable remote reply 502, and corrupt stored state 500.
func liquidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, liquidate.ErrOwnerNotFound):
		jsonError(w, http.StatusNotFound, "owner not found")
	case errors.Is(err, liquidate.ErrChecklistItemNotFound):
		jsonError(w, http.StatusNotFound, "checklist item not found")
	case errors.Is(err, liquidate.ErrUnknownPath):
		jsonError(w, http.StatusBadRequest, "unknown liquidation path")
	case errors.Is(err, liquidate.ErrNoBrief):
		jsonError(w, http.StatusConflict, "no active brief")
	case errors.Is(err, liquidate.ErrBriefNeedsInfo):
		jsonError(w, http.StatusConflict, "brief needs more information before planning")
	case errors.Is(err, liquidate.ErrNoPlan):
		jsonError(w, http.StatusConflict, "no active plan")
	case errors.Is(err, liquidate.ErrCorruptPayload):
		jsonError(w, http.StatusInternalServerError, "stored liquidation payload is corrupt")
	case ai.IsSchema(err):
		jsonError(w, http.StatusBadGateway, "remote generation returned an unusable reply")
	default:
		jsonError(w, http.StatusInternalServerError, "liquidation operation failed")
	}
}

func ownerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid owner id")
		return 0, false
	}
	return id, true
}

// GenerateBrief handles POST /api/{owner}/{id}/liquidation/brief.
func (h *LiquidationHandler) GenerateBrief(ownerType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := ownerID(w, r)
		if !ok {
			return
		}

		// The request body is optional; an empty body generates a brief
		// with defaults.
		var req generateBriefRequest
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		brief, rec, err := h.Service.GenerateBrief(r.Context(), ownerType, id, liquidate.GenerateOptions{
			Goal:         model.Goal(req.Goal),
			Constraints:  req.Constraints,
			LocationHint: req.LocationHint,
		})
		if err != nil {
			liquidationError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, map[string]any{
			"brief":     brief,
			"record_id": rec.ID,
		})
	}
}

// GeneratePlan handles POST /api/{owner}/{id}/liquidation/plan.
func (h *LiquidationHandler) GeneratePlan(ownerType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := ownerID(w, r)
		if !ok {
			return
		}

		var req generatePlanRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		plan, rec, err := h.Service.GeneratePlan(r.Context(), ownerType, id, model.Path(req.ChosenPath))
		if err != nil {
			liquidationError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, map[string]any{
			"plan":      plan,
			"record_id": rec.ID,
		})
	}
}

// State handles GET /api/{owner}/{id}/liquidation.
func (h *LiquidationHandler) State(ownerType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := ownerID(w, r)
		if !ok {
			return
		}

		state, err := h.Service.State(r.Context(), ownerType, id)
		if err != nil {
			liquidationError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, state)
	}
}

// History handles GET /api/{owner}/{id}/liquidation/history.
func (h *LiquidationHandler) History(ownerType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := ownerID(w, r)
		if !ok {
			return
		}

		records, err := h.Service.History(r.Context(), ownerType, id)
		if err != nil {
			liquidationError(w, err)
			return
		}
		if records == nil {
			records = []model.LiquidationRecord{}
		}
		jsonResponse(w, http.StatusOK, records)
	}
}

// DeletePlan handles DELETE /api/{owner}/{id}/liquidation/plan.
func (h *LiquidationHandler) DeletePlan(ownerType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := ownerID(w, r)
		if !ok {
			return
		}

		status, err := h.Service.DeletePlan(r.Context(), ownerType, id)
		if err != nil {
			liquidationError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": status})
	}
}

// ToggleItem handles POST /api/{owner}/{id}/liquidation/plan/items/{order}/toggle.
func (h *LiquidationHandler) ToggleItem(ownerType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := ownerID(w, r)
		if !ok {
			return
		}
		order, err := strconv.Atoi(r.PathValue("order"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid item order")
			return
		}

		plan, status, err := h.Service.ToggleChecklistItem(r.Context(), ownerType, id, order)
		if err != nil {
			liquidationError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"plan":   plan,
			"status": status,
		})
	}
}

// SetItemNotes handles PUT /api/{owner}/{id}/liquidation/plan/items/{order}/notes.
func (h *LiquidationHandler) SetItemNotes(ownerType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := ownerID(w, r)
		if !ok {
			return
		}
		order, err := strconv.Atoi(r.PathValue("order"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid item order")
			return
		}

		var req checklistNoteRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		plan, err := h.Service.SetChecklistNote(r.Context(), ownerType, id, order, req.Notes)
		if err != nil {
			liquidationError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{"plan": plan})
	}
}
