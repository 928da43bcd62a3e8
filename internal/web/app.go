package web

import (
	"context"
	"log"
	"time"

	"givento/internal/auth"
	"givento/internal/models"
	"givento/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductStore interface {
	List(ctx context.Context) ([]*models.Product, error)
	Latest(ctx context.Context) (*models.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error)
	ToggleAvailability(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	ProductsByCategorySlug(ctx context.Context, slug string) ([]*models.Product, error)
}

type OrderStore interface {
	List(ctx context.Context) ([]*models.Order, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Insert(ctx context.Context, o *models.Order) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M, status *models.OrderStatus) (*models.Order, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Application holds the dependencies shared by every handler.
type Application struct {
	ErrorLog *log.Logger
	InfoLog  *log.Logger

	Products   ProductStore
	Categories CategoryStore
	Orders     OrderStore
	Auth       *auth.Service
	DB         Pinger

	// Prefix is the mount point stripped from request paths, e.g. "/api".
	Prefix      string
	Environment string

	Now func() time.Time
}

// NewApplication wires the MongoDB-backed repositories into an Application.
func NewApplication(db *models.MongoDB, tokens *auth.TokenManager, infoLog, errorLog *log.Logger) *Application {
	products := &models.ProductModel{Collection: db.Products}

	return &Application{
		ErrorLog:   errorLog,
		InfoLog:    infoLog,
		Products:   products,
		Categories: &models.CategoryModel{Products: db.Products, Categories: db.Categories},
		Orders:     &models.OrderModel{Collection: db.Orders, Products: products},
		Auth: &auth.Service{
			Users:  &repository.UserRepository{Collection: db.Users},
			Tokens: tokens,
		},
		DB: db,
	}
}

func (app *Application) now() time.Time {
	if app.Now != nil {
		return app.Now().UTC()
	}
	return time.Now().UTC()
}
