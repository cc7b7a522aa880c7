package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/zapuscina/internal/liquidate"
	"github.com/erazemk/zapuscina/internal/model"
	"github.com/erazemk/zapuscina/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, svc *liquidate.Service, flags *store.Flags) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}
	setsHandler := &SetsHandler{DB: db}
	liquidationHandler := &LiquidationHandler{Service: svc}
	aiHandler := &AIHandler{Service: svc}
	settingsHandler := &SettingsHandler{DB: db, Flags: flags}

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Items.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("PUT /api/items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /api/items/{id}", itemsHandler.Delete)
	mux.HandleFunc("PUT /api/items/{id}/photo", itemsHandler.UploadPhoto)
	mux.HandleFunc("GET /api/items/{id}/photo", itemsHandler.GetPhoto)

	// Sets.
	mux.HandleFunc("GET /api/sets", setsHandler.List)
	mux.HandleFunc("POST /api/sets", setsHandler.Create)
	mux.HandleFunc("GET /api/sets/{id}", setsHandler.Get)
	mux.HandleFunc("PUT /api/sets/{id}", setsHandler.Update)
	mux.HandleFunc("DELETE /api/sets/{id}", setsHandler.Delete)
	mux.HandleFunc("POST /api/sets/{id}/members", setsHandler.AddMember)
	mux.HandleFunc("DELETE /api/sets/{id}/members/{itemID}", setsHandler.RemoveMember)

	// Item liquidation workflow.
	mux.HandleFunc("POST /api/items/{id}/liquidation/brief", liquidationHandler.GenerateBrief(model.LiquidationOwnerItem))
	mux.HandleFunc("POST /api/items/{id}/liquidation/plan", liquidationHandler.GeneratePlan(model.LiquidationOwnerItem))
	mux.HandleFunc("GET /api/items/{id}/liquidation", liquidationHandler.State(model.LiquidationOwnerItem))
	mux.HandleFunc("GET /api/items/{id}/liquidation/history", liquidationHandler.History(model.LiquidationOwnerItem))
	mux.HandleFunc("DELETE /api/items/{id}/liquidation/plan", liquidationHandler.DeletePlan(model.LiquidationOwnerItem))
	mux.HandleFunc("POST /api/items/{id}/liquidation/plan/items/{order}/toggle", liquidationHandler.ToggleItem(model.LiquidationOwnerItem))
	mux.HandleFunc("PUT /api/items/{id}/liquidation/plan/items/{order}/notes", liquidationHandler.SetItemNotes(model.LiquidationOwnerItem))

	// Set liquidation workflow.
	mux.HandleFunc("POST /api/sets/{id}/liquidation/brief", liquidationHandler.GenerateBrief(model.LiquidationOwnerSet))
	mux.HandleFunc("POST /api/sets/{id}/liquidation/plan", liquidationHandler.GeneratePlan(model.LiquidationOwnerSet))
	mux.HandleFunc("GET /api/sets/{id}/liquidation", liquidationHandler.State(model.LiquidationOwnerSet))
	mux.HandleFunc("GET /api/sets/{id}/liquidation/history", liquidationHandler.History(model.LiquidationOwnerSet))
	mux.HandleFunc("DELETE /api/sets/{id}/liquidation/plan", liquidationHandler.DeletePlan(model.LiquidationOwnerSet))
	mux.HandleFunc("POST /api/sets/{id}/liquidation/plan/items/{order}/toggle", liquidationHandler.ToggleItem(model.LiquidationOwnerSet))
	mux.HandleFunc("PUT /api/sets/{id}/liquidation/plan/items/{order}/notes", liquidationHandler.SetItemNotes(model.LiquidationOwnerSet))

	// Stateless generation.
	mux.HandleFunc("POST /api/ai/generate-liquidation-brief", aiHandler.GenerateBrief)
	mux.HandleFunc("POST /api/ai/generate-liquidation-plan", aiHandler.GeneratePlan)

	// Settings.
	mux.HandleFunc("GET /api/settings", settingsHandler.Get)
	mux.HandleFunc("PUT /api/settings", settingsHandler.Update)

	return mux
}
