package models

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var whitespace = regexp.MustCompile(`\s+`)

// Slugify lowercases name and replaces each run of whitespace with a hyphen.
func Slugify(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// NameFromSlug reverses Slugify as far as it can: hyphens become spaces.
func NameFromSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

// CategoryModel derives categories from the category field of stored
// products. The Categories collection is only written by Backfill.
type CategoryModel struct {
	Products   *mongo.Collection
	Categories *mongo.Collection
}

func (m *CategoryModel) List(ctx context.Context) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	names, err := m.distinct(ctx)
	if err != nil {
		return nil, err
	}

	cats := make([]Category, 0, len(names))
	for _, name := range names {
		cats = append(cats, Category{Name: name, Slug: Slugify(name)})
	}
	return cats, nil
}

// ProductsByCategorySlug returns the products whose category contains the
// name encoded by slug, ignoring case, newest first.
func (m *CategoryModel) ProductsByCategorySlug(ctx context.Context, slug string) ([]*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	name := NameFromSlug(slug)
	filter := bson.M{"category": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
	return findProducts(ctx, m.Products, filter)
}

// Backfill upserts one CategoryRecord per distinct product category and
// returns how many records were created.
func (m *CategoryModel) Backfill(ctx context.Context, now time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 4*opTimeout)
	defer cancel()

	names, err := m.distinct(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, name := range names {
		slug := Slugify(name)
		res, err := m.Categories.UpdateOne(ctx,
			bson.M{"slug": slug},
			bson.M{"$setOnInsert": CategoryRecord{
				Name:      name,
				Slug:      slug,
				IsActive:  true,
				CreatedAt: now,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return created, fmt.Errorf("backfill category %q: %w", name, err)
		}
		if res.UpsertedCount > 0 {
			created++
		}
	}
	return created, nil
}

func (m *CategoryModel) distinct(ctx context.Context) ([]string, error) {
	values, err := m.Products.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	var names []string
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			names = append(names, s)
		}
	}
	return names, nil
}
