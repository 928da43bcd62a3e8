package models

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// opTimeout bounds every single store operation.
const opTimeout = 5 * time.Second

var ErrNoURI = errors.New("models: mongodb connection string is empty")

type MongoDB struct {
	Products   *mongo.Collection
	Users      *mongo.Collection
	Orders     *mongo.Collection
	Categories *mongo.Collection
}

func NewMongoDB(db *mongo.Database) *MongoDB {
	return &MongoDB{
		Products:   db.Collection("products"),
		Users:      db.Collection("users"),
		Orders:     db.Collection("orders"),
		Categories: db.Collection("categories"),
	}
}

func (m *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return m.Products.Database().Client().Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes the repositories rely on. It is safe to
// call on every start.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*opTimeout)
	defer cancel()

	_, err := m.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	byNewest := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
	if _, err := m.Products.Indexes().CreateOne(ctx, byNewest); err != nil {
		return fmt.Errorf("products createdAt index: %w", err)
	}
	if _, err := m.Orders.Indexes().CreateOne(ctx, byNewest); err != nil {
		return fmt.Errorf("orders createdAt index: %w", err)
	}

	_, err = m.Categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("categories slug index: %w", err)
	}
	return nil
}

// Connector owns the client lifecycle. The first successful Connect is
// cached and shared by every later caller until Close.
type Connector struct {
	uri      string
	database string
	timeout  time.Duration

	mu     sync.Mutex
	client *mongo.Client
	db     *MongoDB
}

func NewConnector(uri, database string, timeout time.Duration) *Connector {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Connector{uri: uri, database: database, timeout: timeout}
}

// Connect returns the cached handle or dials and pings the server. A failed
// attempt is returned to the caller and not cached.
func (c *Connector) Connect(ctx context.Context) (*MongoDB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}
	if c.uri == "" {
		return nil, ErrNoURI
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(c.uri).
		SetServerSelectionTimeout(c.timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	c.client = client
	c.db = NewMongoDB(client.Database(c.database))
	return c.db, nil
}

// Connected reports whether a live handle is cached.
func (c *Connector) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db != nil
}

func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	c.db = nil
	return err
}

// ParseID validates a hex ObjectID taken from a path segment.
func ParseID(s string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
