package handler

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/avolkov/marketplace-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware магазина.
// Оформление заказа, история заказов, корзина и профиль требуют
// действующей сессии; страничный маршрут профиля при её отсутствии
// перенаправляет на страницу входа, API-маршруты отвечают 401.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Post("/products", h.AddProduct)
	r.Get("/products", h.GetProducts)
	r.Get("/products/category/{category}", h.GetProductsByCategory)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/search/{searchTerm}", h.SearchProducts)

	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)

	r.Post("/feedback", h.AddFeedback)
	r.Get("/feedback/{productId}", h.GetFeedback)

	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireSession)

		r.Post("/orders", h.PlaceOrder)
		r.Get("/orders/{userId}", h.GetOrders)

		r.Post("/addToCart", h.AddToCart)
		r.Get("/cart/{userId}", h.GetCart)

		r.Get("/users/{id}", h.GetUser)
	})

	r.With(h.auth.RequireSessionPage).Get("/profile.html", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(h.staticDir, "profile.html"))
	})

	r.Handle("/*", http.FileServer(http.Dir(h.staticDir)))

	return r
}
