package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

type ProductModel struct {
	Collection *mongo.Collection
}

func (m *ProductModel) List(ctx context.Context) ([]*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return findProducts(ctx, m.Collection, bson.M{})
}

// Latest returns the most recently created product, or nil when the
// collection is empty.
func (m *ProductModel) Latest(ctx context.Context) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var p Product
	opts := options.FindOne().SetSort(newestFirst)
	err := m.Collection.FindOne(ctx, bson.M{}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest product: %w", err)
	}
	return &p, nil
}

func (m *ProductModel) Get(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var p Product
	err := m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id.Hex(), err)
	}
	return &p, nil
}

// GetMany returns the stored products among ids keyed by hex id. Missing ids
// are simply absent from the result.
func (m *ProductModel) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[string]*Product, error) {
	found := make(map[string]*Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	products, err := findProducts(ctx, m.Collection, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		found[p.ID.Hex()] = p
	}
	return found, nil
}

// Insert stores p and assigns its id.
func (m *ProductModel) Insert(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := m.Collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update applies set to the product and returns the stored result.
func (m *ProductModel) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	fields := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range set {
		fields[k] = v
	}

	var p Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id.Hex(), err)
	}
	return &p, nil
}

// ToggleAvailability flips isAvailable in a single server-side update, so
// concurrent toggles of the same product never observe the same state.
func (m *ProductModel) ToggleAvailability(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	flip := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "isAvailable", Value: bson.D{{Key: "$not", Value: bson.A{"$isAvailable"}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}

	var p Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, flip, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("toggle product %s: %w", id.Hex(), err)
	}
	return &p, nil
}

func (m *ProductModel) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := m.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

// DeleteAll empties the collection and reports how many products went.
func (m *ProductModel) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := m.Collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("clear products: %w", err)
	}
	return res.DeletedCount, nil
}

func findProducts(ctx context.Context, coll *mongo.Collection, filter any) ([]*Product, error) {
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	products := []*Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}
