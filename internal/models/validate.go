package models

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs the struct tag rules and folds any failures into a single
// ValidationError naming the json fields involved.
func check(msg string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		fields = append(fields, ns)
	}
	return invalid(msg, fields...)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// maxQuantity bounds a line quantity so it always fits in an int32.
var maxQuantity = decimal.NewFromInt(math.MaxInt32)

func wholeNumber(d decimal.Decimal) (int, bool) {
	if !d.Equal(d.Truncate(0)) || d.GreaterThan(maxQuantity) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// ProductInput is the create payload. Prices may arrive as JSON numbers or
// numeric strings.
type ProductInput struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	Category      string          `json:"category"`
	Sizes         []string        `json:"sizes"`
	Colors        []string        `json:"colors"`
	Images        []string        `json:"images"`
}

// Product converts the payload into a new, validated Product.
func (in ProductInput) Product(now time.Time) (*Product, error) {
	if len(in.Images) == 0 {
		return nil, invalid("At least one image is required", "images")
	}

	p := &Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		OriginalPrice: money(in.OriginalPrice),
		SalePrice:     money(in.SalePrice),
		Category:      strings.TrimSpace(in.Category),
		Sizes:         nonNil(in.Sizes),
		Colors:        nonNil(in.Colors),
		Images:        in.Images,
		IsAvailable:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := check("Invalid product", p); err != nil {
		return nil, err
	}
	return p, nil
}

// ProductUpdate carries a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	SalePrice     *decimal.Decimal `json:"salePrice"`
	Category      *string          `json:"category"`
	Sizes         *[]string        `json:"sizes"`
	Colors        *[]string        `json:"colors"`
	Images        *[]string        `json:"images"`
	IsAvailable   *bool            `json:"isAvailable"`
}

// Fields returns the $set document for the provided fields.
func (u ProductUpdate) Fields() (bson.M, error) {
	set := bson.M{}
	var bad []string

	if u.Name != nil {
		if name := strings.TrimSpace(*u.Name); name == "" {
			bad = append(bad, "name")
		} else {
			set["name"] = name
		}
	}
	if u.Description != nil {
		if *u.Description == "" {
			bad = append(bad, "description")
		} else {
			set["description"] = *u.Description
		}
	}
	if u.OriginalPrice != nil {
		if !u.OriginalPrice.IsPositive() {
			bad = append(bad, "originalPrice")
		} else {
			set["originalPrice"] = money(*u.OriginalPrice)
		}
	}
	if u.SalePrice != nil {
		if !u.SalePrice.IsPositive() {
			bad = append(bad, "salePrice")
		} else {
			set["salePrice"] = money(*u.SalePrice)
		}
	}
	if u.Category != nil {
		if c := strings.TrimSpace(*u.Category); c == "" {
			bad = append(bad, "category")
		} else {
			set["category"] = c
		}
	}
	if u.Sizes != nil {
		set["sizes"] = nonNil(*u.Sizes)
	}
	if u.Colors != nil {
		set["colors"] = nonNil(*u.Colors)
	}
	if u.Images != nil {
		if len(*u.Images) == 0 {
			return nil, invalid("At least one image is required", "images")
		}
		for _, img := range *u.Images {
			if img == "" {
				return nil, invalid("Image paths must not be empty", "images")
			}
		}
		set["images"] = *u.Images
	}
	if u.IsAvailable != nil {
		set["isAvailable"] = *u.IsAvailable
	}

	if len(bad) > 0 {
		return nil, invalid("Invalid product", bad...)
	}
	return set, nil
}

type OrderItemInput struct {
	Product     string          `json:"product"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

type OrderInput struct {
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	AlternatePhone  string           `json:"alternatePhone"`
	CustomerAddress string           `json:"customerAddress"`
	Items           []OrderItemInput `json:"items"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
}

// Order converts the payload into a new pending Order.
func (in OrderInput) Order(now time.Time) (*Order, error) {
	if strings.TrimSpace(in.CustomerName) == "" || strings.TrimSpace(in.CustomerPhone) == "" ||
		strings.TrimSpace(in.CustomerAddress) == "" || len(in.Items) == 0 {
		return nil, invalid("Customer name, phone, address and items are required")
	}

	o := &Order{
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		AlternatePhone:  strings.TrimSpace(in.AlternatePhone),
		CustomerAddress: strings.TrimSpace(in.CustomerAddress),
		Items:           make([]OrderItem, 0, len(in.Items)),
		TotalAmount:     money(in.TotalAmount),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for i, it := range in.Items {
		qty, ok := wholeNumber(it.Quantity)
		if !ok {
			return nil, invalid("Invalid order", "items["+strconv.Itoa(i)+"].quantity")
		}
		o.Items = append(o.Items, OrderItem{
			Product:     strings.TrimSpace(it.Product),
			ProductName: it.ProductName,
			Quantity:    qty,
			Size:        it.Size,
			Color:       it.Color,
			Price:       money(it.Price),
			Image:       it.Image,
		})
	}

	if err := check("Invalid order", o); err != nil {
		return nil, err
	}
	return o, nil
}

// OrderUpdate is the partial update accepted for orders: the status and the
// customer contact fields.
type OrderUpdate struct {
	Status          *OrderStatus `json:"status"`
	CustomerName    *string      `json:"customerName"`
	CustomerPhone   *string      `json:"customerPhone"`
	AlternatePhone  *string      `json:"alternatePhone"`
	CustomerAddress *string      `json:"customerAddress"`
}

// Fields returns the $set document for the contact fields and the requested
// status, if any. The status is returned separately because it is applied
// through the transition guard.
func (u OrderUpdate) Fields() (bson.M, *OrderStatus, error) {
	set := bson.M{}
	var bad []string

	required := map[string]*string{
		"customerName":    u.CustomerName,
		"customerPhone":   u.CustomerPhone,
		"customerAddress": u.CustomerAddress,
	}
	for field, v := range required {
		if v == nil {
			continue
		}
		if s := strings.TrimSpace(*v); s == "" {
			bad = append(bad, field)
		} else {
			set[field] = s
		}
	}
	if u.AlternatePhone != nil {
		set["alternatePhone"] = strings.TrimSpace(*u.AlternatePhone)
	}

	if u.Status != nil && !u.Status.Valid() {
		bad = append(bad, "status")
	}

	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, nil, invalid("Invalid order update", bad...)
	}
	return set, u.Status, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

