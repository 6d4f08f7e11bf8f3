package admin

import (
	"log"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/catering-admin/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger *log.Logger
	menus  adminapp.MenuAdminService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger *log.Logger
	Menus  adminapp.MenuAdminService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		logger: logger,
		menus:  cfg.Menus,
	}
}

// Register mounts admin routes onto router. Authentication and role checks are applied by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Get("/menus", h.menuListHandler())
	r.Get("/menus/{id}", h.menuDetailHandler())
	r.Post("/menus/{id}/close", h.menuCloseHandler())
	r.Post("/menus/{id}/reopen", h.menuReopenHandler())
	r.Post("/menus/{id}/add-ons", h.addOnCreateHandler())
	r.Delete("/menus/{id}/add-ons/{addOnId}", h.addOnDeleteHandler())
	r.Get("/menus/{id}/summary", h.menuSummaryHandler())
	r.Patch("/day-slots/{id}", h.daySlotUpdateHandler())
	r.Put("/selections/{slotId}/{employeeId}", h.selectionOnBehalfHandler())
}
