package web

import (
	"net/http"

	"github.com/bmizerany/pat"
)

func (app *Application) Routes() http.Handler {
	mux := pat.New()

	mux.Get("/", http.HandlerFunc(app.home))
	mux.Get("/health", http.HandlerFunc(app.health))

	mux.Get("/products", http.HandlerFunc(app.listProducts))
	mux.Post("/products", app.requireAdmin(app.createProduct))
	mux.Get("/products/latest", http.HandlerFunc(app.latestProduct))
	mux.Get("/products/:id", http.HandlerFunc(app.showProduct))
	mux.Put("/products/:id/toggle", app.requireAdmin(app.toggleProduct))
	mux.Put("/products/:id", app.requireAdmin(app.updateProduct))
	mux.Del("/products/:id", app.requireAdmin(app.deleteProduct))

	mux.Get("/categories", http.HandlerFunc(app.listCategories))
	mux.Get("/categories/:slug/products", http.HandlerFunc(app.categoryProducts))

	mux.Post("/auth/login", http.HandlerFunc(app.login))
	mux.Post("/auth/register", http.HandlerFunc(app.register))
	mux.Get("/auth/me", app.requireAuth(app.me))

	mux.Get("/orders", app.requireAdmin(app.listOrders))
	mux.Post("/orders", http.HandlerFunc(app.createOrder))
	mux.Get("/orders/:id", app.requireAdmin(app.showOrder))
	mux.Put("/orders/:id", app.requireAdmin(app.updateOrder))

	mux.NotFound = http.HandlerFunc(app.notFound)

	return app.recoverPanic(app.logRequest(CORS(app.normalizePath(mux))))
}
