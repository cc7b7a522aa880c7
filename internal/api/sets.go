package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/zapuscina/internal/model"
	"github.com/erazemk/zapuscina/internal/store"
)

// SetsHandler handles item set endpoints.
type SetsHandler struct {
	DB *sql.DB
}

type setRequest struct {
	Name                   string `json:"name"`
	SetType                string `json:"set_type"`
	Story                  string `json:"story"`
	SellTogetherPreference string `json:"sell_together_preference"`
	Completeness           string `json:"completeness"`
	ClosetItemCount        *int   `json:"closet_item_count"`
	ClosetSizeBand         string `json:"closet_size_band"`
	ClosetConditionBand    string `json:"closet_condition_band"`
	ClosetBrands           string `json:"closet_brands"`
}

func (req setRequest) toModel() *model.ItemSet {
	return &model.ItemSet{
		Name:                   req.Name,
		SetType:                req.SetType,
		Story:                  req.Story,
		SellTogetherPreference: req.SellTogetherPreference,
		Completeness:           req.Completeness,
		ClosetItemCount:        req.ClosetItemCount,
		ClosetSizeBand:         req.ClosetSizeBand,
		ClosetConditionBand:    req.ClosetConditionBand,
		ClosetBrands:           req.ClosetBrands,
	}
}

type addMemberRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity *int  `json:"quantity"`
}

// List handles GET /api/sets.
func (h *SetsHandler) List(w http.ResponseWriter, r *http.Request) {
	sets, err := store.ListSets(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list sets")
		return
	}
	if sets == nil {
		sets = []model.ItemSet{}
	}
	jsonResponse(w, http.StatusOK, sets)
}

// Create handles POST /api/sets.
func (h *SetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	set, err := store.CreateSet(r.Context(), h.DB, req.toModel())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create set")
		return
	}

	jsonResponse(w, http.StatusCreated, set)
}

// Get handles GET /api/sets/{id}. The response includes the member rows so
// one request renders a whole lot.
func (h *SetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid set id")
		return
	}

	set, err := store.GetSet(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get set")
		return
	}
	if set == nil {
		jsonError(w, http.StatusNotFound, "set not found")
		return
	}

	members, err := store.ListSetMembers(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list set members")
		return
	}
	if members == nil {
		members = []model.SetMember{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"set":     set,
		"members": members,
	})
}

// Update handles PUT /api/sets/{id}.
func (h *SetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid set id")
		return
	}

	var req setRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	existing, err := store.GetSet(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get set")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "set not found")
		return
	}

	if err := store.UpdateSet(r.Context(), h.DB, id, req.toModel()); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update set")
		return
	}

	set, _ := store.GetSet(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, set)
}

// Delete handles DELETE /api/sets/{id}.
func (h *SetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid set id")
		return
	}

	if err := store.DeleteSet(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete set")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "set deleted"})
}

// AddMember handles POST /api/sets/{id}/members.
func (h *SetsHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid set id")
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := store.GetSet(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get set")
		return
	}
	if set == nil {
		jsonError(w, http.StatusNotFound, "set not found")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, req.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := store.AddSetMember(r.Context(), h.DB, id, req.ItemID, req.Quantity); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to add set member")
		return
	}

	members, _ := store.ListSetMembers(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, members)
}

// RemoveMember handles DELETE /api/sets/{id}/members/{itemID}.
func (h *SetsHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid set id")
		return
	}
	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.RemoveSetMember(r.Context(), h.DB, id, itemID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to remove set member")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "member removed"})
}
