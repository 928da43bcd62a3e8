package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"givento/internal/auth"
	"givento/internal/models"
	"givento/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

type fakeProducts struct {
	mu       sync.Mutex
	products []*models.Product
	writes   int
}

func (f *fakeProducts) List(context.Context) ([]*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*models.Product, 0, len(f.products))
	for i := len(f.products) - 1; i >= 0; i-- {
		out = append(out, f.products[i])
	}
	return out, nil
}

func (f *fakeProducts) Latest(context.Context) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.products) == 0 {
		return nil, nil
	}
	return f.products[len(f.products)-1], nil
}

func (f *fakeProducts) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.products {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, models.ErrNoRecord
}

func (f *fakeProducts) Insert(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p.ID = primitive.NewObjectID()
	cp := *p
	f.products = append(f.products, &cp)
	f.writes++
	return nil
}

func (f *fakeProducts) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.products {
		if p.ID != id {
			continue
		}
		for k, v := range set {
			switch k {
			case "name":
				p.Name = v.(string)
			case "description":
				p.Description = v.(string)
			case "originalPrice":
				p.OriginalPrice = v.(float64)
			case "salePrice":
				p.SalePrice = v.(float64)
			case "category":
				p.Category = v.(string)
			case "sizes":
				p.Sizes = v.([]string)
			case "colors":
				p.Colors = v.([]string)
			case "images":
				p.Images = v.([]string)
			case "isAvailable":
				p.IsAvailable = v.(bool)
			}
		}
		f.writes++
		cp := *p
		return &cp, nil
	}
	return nil, models.ErrNoRecord
}

func (f *fakeProducts) ToggleAvailability(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.products {
		if p.ID == id {
			p.IsAvailable = !p.IsAvailable
			f.writes++
			cp := *p
			return &cp, nil
		}
	}
	return nil, models.ErrNoRecord
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, p := range f.products {
		if p.ID == id {
			f.products = slices.Delete(f.products, i, i+1)
			f.writes++
			return nil
		}
	}
	return models.ErrNoRecord
}

func (f *fakeProducts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.products)
}

type fakeCategories struct {
	products *fakeProducts
	err      error
}

func (f *fakeCategories) List(ctx context.Context) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	products, _ := f.products.List(ctx)

	var cats []models.Category
	seen := map[string]bool{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, models.Category{Name: p.Category, Slug: models.Slugify(p.Category)})
		}
	}
	return cats, nil
}

func (f *fakeCategories) ProductsByCategorySlug(ctx context.Context, slug string) ([]*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	products, _ := f.products.List(ctx)

	name := strings.ToLower(models.NameFromSlug(slug))
	out := []*models.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Category), name) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeOrders struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
}

func (f *fakeOrders) List(context.Context) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*models.Order{}
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	return o, nil
}

func (f *fakeOrders) Insert(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	o.ID = primitive.NewObjectID()
	f.orders[o.ID] = o
	return nil
}

func (f *fakeOrders) Update(_ context.Context, id primitive.ObjectID, set bson.M, status *models.OrderStatus) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	if status != nil {
		if !o.Status.CanTransition(*status) {
			return nil, models.ErrInvalidTransition
		}
		o.Status = *status
	}
	if v, ok := set["customerAddress"]; ok {
		o.CustomerAddress = v.(string)
	}
	return o, nil
}

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func (f *fakeUsers) Insert(_ context.Context, name, email, password string, isAdmin bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email = repository.NormalizeEmail(email)
	if _, ok := f.byEmail[email]; ok {
		return nil, models.ErrDuplicateEmail
	}
	hash, err := repository.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{ID: primitive.NewObjectID(), Name: name, Email: email, PasswordHash: hash, IsAdmin: isAdmin}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	f.mu.Lock()
	u, ok := f.byEmail[repository.NormalizeEmail(email)]
	f.mu.Unlock()

	if !ok {
		return nil, models.ErrInvalidCredentials
	}
	if err := repository.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, err
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNoRecord
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type testEnv struct {
	app        *Application
	products   *fakeProducts
	categories *fakeCategories
	orders     *fakeOrders
	users      *fakeUsers
	tokens     *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenManager("test-secret", auth.TokenTTL)
	if err != nil {
		t.Fatal(err)
	}

	products := &fakeProducts{}
	env := &testEnv{
		products:   products,
		categories: &fakeCategories{products: products},
		orders:     &fakeOrders{orders: map[primitive.ObjectID]*models.Order{}},
		users:      &fakeUsers{byEmail: map[string]*models.User{}},
		tokens:     tokens,
	}

	env.app = &Application{
		ErrorLog:    log.New(io.Discard, "", 0),
		InfoLog:     log.New(io.Discard, "", 0),
		Products:    env.products,
		Categories:  env.categories,
		Orders:      env.orders,
		Auth:        &auth.Service{Users: env.users, Tokens: tokens},
		DB:          fakePinger{},
		Prefix:      "/api",
		Environment: "test",
		Now:         func() time.Time { return testNow },
	}
	return env
}

// token issues a signed token for a fresh account with the given role.
func (env *testEnv) token(t *testing.T, isAdmin bool) string {
	t.Helper()

	u, err := env.users.Insert(context.Background(), "Test", primitive.NewObjectID().Hex()+"@example.com", "pa55word", isAdmin)
	if err != nil {
		t.Fatal(err)
	}
	token, err := env.tokens.Issue(u)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &testServer{ts}
}

// do sends a request with an optional JSON body and bearer token and returns
// the status, headers and raw body.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, http.Header, []byte) {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		js, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rs, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer rs.Body.Close()

	raw, err := io.ReadAll(rs.Body)
	if err != nil {
		t.Fatal(err)
	}
	return rs.StatusCode, rs.Header, bytes.TrimSpace(raw)
}

func decodeJSON[T any](t *testing.T, raw []byte) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func message(t *testing.T, raw []byte) string {
	t.Helper()
	msg, _ := decodeJSON[map[string]any](t, raw)["message"].(string)
	return msg
}

var errStore = errors.New("store unavailable")
