package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/sharifShaikh1/cravecrafters-frontend/internal/middleware"
)

func chiURLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// SetupRouter настраивает HTTP-маршруты и middleware шлюза витрины.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Group(func(r chi.Router) {
		r.Use(custommiddleware.RateLimit(h.rateLimitRPS, int(h.rateLimitRPS)+1))

		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.GetProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/categories", h.GetCategories)
		r.Get("/search", h.Search)

		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.Auth)

			r.Post("/checkout", h.CreateCheckout)
			r.Get("/checkout/confirm", h.ConfirmCheckout)

			r.Get("/cart", h.GetCart)
			r.Post("/cart", h.AddToCart)
			r.Put("/cart/update", h.UpdateCart)
			r.Delete("/cart", h.ClearCart)

			r.Get("/orders", h.GetOrders)
			r.Put("/orders/cancel/{id}", h.CancelOrder)

			r.Get("/auth/profile", h.GetProfile)
			r.Put("/auth/update-profile", h.UpdateProfile)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/products", h.CreateProduct)
				r.Put("/products/{id}", h.UpdateProduct)
				r.Delete("/products/{id}", h.DeleteProduct)
				r.Post("/categories", h.CreateCategory)
				r.Get("/orders", h.AdminOrders)
				r.Put("/orders/{id}", h.UpdateOrderStatus)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
