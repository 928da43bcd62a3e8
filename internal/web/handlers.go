package web

import (
	"net/http"
	"time"

	"givento/internal/models"
)

func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, envelope{"message": "Givento API is running"})
}

// health always answers 200; the store state is reported in the body.
func (app *Application) health(w http.ResponseWriter, r *http.Request) {
	mongo := "Disconnected"
	if app.DB != nil && app.DB.Ping(r.Context()) == nil {
		mongo = "Connected"
	}

	app.writeJSON(w, http.StatusOK, envelope{
		"status":      "OK",
		"message":     "API is running",
		"mongodb":     mongo,
		"timestamp":   app.now().Format(time.RFC3339),
		"environment": app.Environment,
	})
}

// --- PRODUCTS ---

func (app *Application) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := app.Products.List(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, products)
}

func (app *Application) latestProduct(w http.ResponseWriter, r *http.Request) {
	p, err := app.Products.Latest(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, p)
}

func (app *Application) showProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.handleError(w, err, "Product")
		return
	}

	p, err := app.Products.Get(r.Context(), id)
	if err != nil {
		app.handleError(w, err, "Product")
		return
	}
	app.writeJSON(w, http.StatusOK, p)
}

func (app *Application) createProduct(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	if err := app.readJSON(w, r, &in); err != nil {
		app.handleError(w, err, "Product")
		return
	}

	p, err := in.Product(app.now())
	if err != nil {
		app.handleError(w, err, "Product")
		return
	}

	if err := app.Products.Insert(r.Context(), p); err != nil {
		app.serverError(w, err)
		return
	}

	app.InfoLog.Printf("product created: %s", p.ID.Hex())
	app.writeJSON(w, http.StatusCreated, p)
}

func (app *Application) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.handleError(w, err, "Product")
		return
	}

	var in models.ProductUpdate
	if err := app.readJSON(w, r, &in); err != nil {
		app.handleError(w, err, "Product")
		return
	}

	set, err := in.Fields()
	if err != nil {
		app.handleError(w, err, "Product")
		return
	}

	p, err := app.Products.Update(r.Context(), id, set)
	if err != nil {
		app.handleError(w, err, "Product")
		return
	}
	app.writeJSON(w, http.StatusOK, p)
}

func (app *Application) toggleProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.handleError(w, err, "Product")
		return
	}

	p, err := app.Products.ToggleAvailability(r.Context(), id)
	if err != nil {
		app.handleError(w, err, "Product")
		return
	}
	app.writeJSON(w, http.StatusOK, p)
}

func (app *Application) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.handleError(w, err, "Product")
		return
	}

	if err := app.Products.Delete(r.Context(), id); err != nil {
		app.handleError(w, err, "Product")
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "Product deleted successfully"})
}

// --- CATEGORIES ---

// listCategories degrades to an empty list when the store fails so the
// storefront navigation still renders.
func (app *Application) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := app.Categories.List(r.Context())
	if err != nil {
		app.ErrorLog.Printf("list categories: %v", err)
		cats = []models.Category{}
	}
	app.writeJSON(w, http.StatusOK, cats)
}

func (app *Application) categoryProducts(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get(":slug")

	products, err := app.Categories.ProductsByCategorySlug(r.Context(), slug)
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, products)
}

// --- ORDERS ---

func (app *Application) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := app.Orders.List(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, orders)
}

func (app *Application) createOrder(w http.ResponseWriter, r *http.Request) {
	var in models.OrderInput
	if err := app.readJSON(w, r, &in); err != nil {
		app.handleError(w, err, "Order")
		return
	}

	o, err := in.Order(app.now())
	if err != nil {
		app.handleError(w, err, "Order")
		return
	}

	if err := app.Orders.Insert(r.Context(), o); err != nil {
		app.serverError(w, err)
		return
	}

	app.InfoLog.Printf("order created: %s (%d items, total %.2f)", o.ID.Hex(), len(o.Items), o.TotalAmount)
	app.writeJSON(w, http.StatusCreated, o)
}

func (app *Application) showOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.handleError(w, err, "Order")
		return
	}

	o, err := app.Orders.Get(r.Context(), id)
	if err != nil {
		app.handleError(w, err, "Order")
		return
	}
	app.writeJSON(w, http.StatusOK, o)
}

func (app *Application) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.handleError(w, err, "Order")
		return
	}

	var in models.OrderUpdate
	if err := app.readJSON(w, r, &in); err != nil {
		app.handleError(w, err, "Order")
		return
	}

	set, status, err := in.Fields()
	if err != nil {
		app.handleError(w, err, "Order")
		return
	}

	o, err := app.Orders.Update(r.Context(), id, set, status)
	if err != nil {
		app.handleError(w, err, "Order")
		return
	}
	app.writeJSON(w, http.StatusOK, o)
}
