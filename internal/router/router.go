package router

import (
	"net/http"

	"prank-kart/internal/handler"
	"prank-kart/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Cart    *handler.CartHandler
	Wizard  *handler.WizardHandler
	Order   *handler.OrderHandler
	Address *handler.AddressHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS -> APIKeyAuth
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Identity(logger))

		r.Get("/pranks", h.Catalog.ListPranks)
		r.Get("/pranks/{id}", h.Catalog.GetPrank)
		r.Get("/boxes", h.Catalog.ListBoxes)
		r.Get("/wraps", h.Catalog.ListWraps)
		r.Get("/categories", h.Catalog.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Put("/items", h.Cart.PutItem)
			r.Delete("/items/{prankId}", h.Cart.RemoveItem)
		})

		r.Route("/wizard", func(r chi.Router) {
			r.Post("/", h.Wizard.Start)
			r.Get("/{id}", h.Wizard.Get)
			r.Post("/{id}/prank", h.Wizard.ChoosePrank)
			r.Post("/{id}/box", h.Wizard.ChooseBox)
			r.Post("/{id}/wrap", h.Wizard.ChooseWrap)
			r.Post("/{id}/message", h.Wizard.WriteMessage)
			r.Post("/{id}/terms", h.Wizard.ConfirmTerms)
		})

		r.Post("/checkout", h.Order.Checkout)
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Order.List)
			r.Get("/{id}", h.Order.GetByID)
			r.Get("/{id}/progress", h.Order.Progress)
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", h.Address.List)
			r.Post("/", h.Address.Create)
			r.Put("/{id}/default", h.Address.SetDefault)
		})
	})

	return r
}
