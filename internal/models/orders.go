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

type OrderModel struct {
	Collection *mongo.Collection
	Products   *ProductModel
}

func (m *OrderModel) List(ctx context.Context) ([]*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := m.Collection.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := []*Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// Get loads one order and attaches the current product document to every
// item whose product id still resolves.
func (m *OrderModel) Get(ctx context.Context, id primitive.ObjectID) (*Order, error) {
	o, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Products == nil {
		return o, nil
	}

	var ids []primitive.ObjectID
	for _, it := range o.Items {
		if oid, err := primitive.ObjectIDFromHex(it.Product); err == nil {
			ids = append(ids, oid)
		}
	}

	products, err := m.Products.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("expand order %s: %w", id.Hex(), err)
	}
	for i := range o.Items {
		o.Items[i].ProductDetails = products[o.Items[i].Product]
	}
	return o, nil
}

func (m *OrderModel) get(ctx context.Context, id primitive.ObjectID) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var o Order
	err := m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id.Hex(), err)
	}
	return &o, nil
}

func (m *OrderModel) Insert(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if _, err := m.Collection.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Update applies set and, when status is non-nil, moves the order to that
// status. The status guard is part of the update filter so a transition is
// decided against the stored status, not a previously read copy.
func (m *OrderModel) Update(ctx context.Context, id primitive.ObjectID, set bson.M, status *OrderStatus) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	fields := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range set {
		fields[k] = v
	}
	if status != nil {
		filter["status"] = bson.M{"$in": predecessors(*status)}
		fields["status"] = *status
	}

	var o Order
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": fields}, opts).Decode(&o)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update order %s: %w", id.Hex(), err)
	}
	if status == nil {
		return nil, ErrNoRecord
	}

	n, err := m.Collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", id.Hex(), err)
	}
	if n == 0 {
		return nil, ErrNoRecord
	}
	return nil, ErrInvalidTransition
}
