package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	menuapp "github.com/sngm3741/catering-admin/api/internal/menu/application"
)

// Handler wires employee-facing HTTP endpoints to application services.
type Handler struct {
	logger     *log.Logger
	menus      menuapp.MenuService
	selections menuapp.SelectionService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger     *log.Logger
	Menus      menuapp.MenuService
	Selections menuapp.SelectionService
}

// NewHandler constructs an employee HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		logger:     logger,
		menus:      cfg.Menus,
		selections: cfg.Selections,
	}
}

// Register mounts all employee routes onto the router. Every route requires authentication.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/auth/verify", h.authVerifyHandler())
		r.Get("/me/menu", h.myMenuHandler())
		r.Get("/me/options", h.myOptionsHandler())
		r.Put("/me/selections/{slotId}", h.mySelectionHandler())
		r.Post("/menus/resolve", h.menuResolveHandler())
	})
}
