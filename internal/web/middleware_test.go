package web

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"givento/internal/auth"
)

func TestCORS(t *testing.T) {
	env := newTestEnv(t)
	ts := newTestServer(t, env.app.Routes())

	t.Run("Preflight", func(t *testing.T) {
		code, h, body := ts.do(t, http.MethodOptions, "/api/products", "", nil)
		if code != http.StatusOK {
			t.Errorf("want 200; got %d", code)
		}
		if len(body) != 0 {
			t.Errorf("want empty body; got %s", body)
		}
		if h.Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("missing allow-origin header")
		}
		if h.Get("Access-Control-Allow-Headers") != "Content-Type, Authorization, x-auth-token" {
			t.Errorf("unexpected allow-headers %q", h.Get("Access-Control-Allow-Headers"))
		}
	})

	t.Run("Regular response", func(t *testing.T) {
		_, h, _ := ts.do(t, http.MethodGet, "/api/products", "", nil)
		if h.Get("Access-Control-Allow-Origin") != "*" || h.Get("Access-Control-Allow-Credentials") != "true" {
			t.Errorf("CORS headers missing: %v", h)
		}
	})
}

func TestPathNormalization(t *testing.T) {
	env := newTestEnv(t)
	ts := newTestServer(t, env.app.Routes())

	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{"Prefixed", "/api/products", http.StatusOK},
		{"Trailing slash", "/api/products/", http.StatusOK},
		{"Unprefixed", "/products", http.StatusOK},
		{"Prefix root", "/api", http.StatusOK},
		{"Prefix lookalike", "/apiproducts", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, body := ts.do(t, http.MethodGet, tt.path, "", nil)
			if code != tt.wantCode {
				t.Errorf("want %d; got %d %s", tt.wantCode, code, body)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)
	ts := newTestServer(t, env.app.Routes())

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		code, _, body := ts.do(t, method, "/api/widgets", "", nil)
		if code != http.StatusNotFound {
			t.Errorf("%s: want 404; got %d", method, code)
		}
		if msg := message(t, body); msg != "Route not found: /widgets" {
			t.Errorf("%s: unexpected message %q", method, msg)
		}
	}
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)
	ts := newTestServer(t, env.app.Routes())

	tests := []struct {
		name     string
		token    string
		wantCode int
		wantMsg  string
	}{
		{"No token", "", http.StatusUnauthorized, "No token, authorization denied"},
		{"Bad token", "garbage", http.StatusUnauthorized, "Token is not valid"},
		{"Customer", env.token(t, false), http.StatusForbidden, "Admin access required"},
	}

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/665f1c2e8b3e4a0012345678"},
		{http.MethodPut, "/api/products/665f1c2e8b3e4a0012345678/toggle"},
		{http.MethodDelete, "/api/products/665f1c2e8b3e4a0012345678"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/orders/665f1c2e8b3e4a0012345678"},
		{http.MethodPut, "/api/orders/665f1c2e8b3e4a0012345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, rt := range routes {
				code, _, body := ts.do(t, rt.method, rt.path, tt.token, capPayload)
				if code != tt.wantCode {
					t.Errorf("%s %s: want %d; got %d", rt.method, rt.path, tt.wantCode, code)
				}
				if msg := message(t, body); msg != tt.wantMsg {
					t.Errorf("%s %s: want %q; got %q", rt.method, rt.path, tt.wantMsg, msg)
				}
			}
		})
	}

	if env.products.writes != 0 {
		t.Errorf("rejected requests reached the store %d times", env.products.writes)
	}
}

func TestLegacyTokenHeader(t *testing.T) {
	env := newTestEnv(t)
	ts := newTestServer(t, env.app.Routes())
	admin := env.token(t, true)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/orders", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("x-auth-token", admin)

	rs, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	rs.Body.Close()

	if rs.StatusCode != http.StatusOK {
		t.Errorf("want 200; got %d", rs.StatusCode)
	}
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t)
	ts := newTestServer(t, env.app.Routes())

	_, h, _ := ts.do(t, http.MethodGet, "/api/health", "", nil)
	if h.Get("X-Request-ID") == "" {
		t.Error("no request id assigned")
	}
}

func TestRecoverPanic(t *testing.T) {
	var logged bytes.Buffer
	app := &Application{
		ErrorLog: log.New(&logged, "", 0),
		InfoLog:  log.New(io.Discard, "", 0),
	}

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	app.recoverPanic(next).ServeHTTP(rr, r)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("want 500; got %d", rr.Code)
	}
	if rr.Header().Get("Connection") != "close" {
		t.Error("connection should be closed after a panic")
	}
	if !bytes.Contains(logged.Bytes(), []byte("boom")) {
		t.Error("panic was not logged")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{"Bearer", map[string]string{"Authorization": "Bearer abc"}, "abc"},
		{"Legacy", map[string]string{"x-auth-token": "abc"}, "abc"},
		{"Other scheme", map[string]string{"Authorization": "Basic abc"}, ""},
		{"None", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := bearerToken(r); got != tt.want {
				t.Errorf("want %q; got %q", tt.want, got)
			}
		})
	}
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	ts := newTestServer(t, env.app.Routes())

	code, _, body := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Madina", "email": "madina@example.com", "password": "pa55word", "isAdmin": true,
	})
	if code != http.StatusCreated {
		t.Fatalf("register: want 201; got %d %s", code, body)
	}
	reg := decodeJSON[auth.Session](t, body)
	if reg.User.IsAdmin {
		t.Error("register must not honour isAdmin")
	}

	code, _, body = ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Madina", "email": "MADINA@example.com", "password": "other",
	})
	if code != http.StatusBadRequest || message(t, body) != "User already exists" {
		t.Errorf("duplicate register: got %d %s", code, body)
	}

	code, _, body = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "madina@example.com", "password": "pa55word",
	})
	if code != http.StatusOK {
		t.Fatalf("login: want 200; got %d %s", code, body)
	}
	login := decodeJSON[auth.Session](t, body)

	code, _, body = ts.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	if code != http.StatusOK {
		t.Fatalf("me: want 200; got %d %s", code, body)
	}
	me := decodeJSON[map[string]any](t, body)
	if me["email"] != "madina@example.com" {
		t.Errorf("unexpected user %v", me)
	}
	if _, ok := me["password"]; ok {
		t.Error("password hash leaked")
	}
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	env := newTestEnv(t)
	ts := newTestServer(t, env.app.Routes())

	code, _, body := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Timur", "email": "timur@example.com", "password": strings.Repeat("a", 73),
	})
	if code != http.StatusBadRequest {
		t.Fatalf("want 400; got %d %s", code, body)
	}
	if got := message(t, body); got != "Password must be at most 72 bytes" {
		t.Errorf("unexpected message %q", got)
	}

	// Multi-byte characters count by their encoded length.
	code, _, body = ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Timur", "email": "timur@example.com", "password": strings.Repeat("ж", 37),
	})
	if code != http.StatusBadRequest {
		t.Errorf("74-byte password: want 400; got %d %s", code, body)
	}

	code, _, body = ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Timur", "email": "timur@example.com", "password": strings.Repeat("a", 72),
	})
	if code != http.StatusCreated {
		t.Errorf("72-byte password: want 201; got %d %s", code, body)
	}
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	env := newTestEnv(t)
	ts := newTestServer(t, env.app.Routes())

	ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Erlan", "email": "erlan@example.com", "password": "right",
	})

	wrongCode, _, wrongBody := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "erlan@example.com", "password": "wrong",
	})
	unknownCode, _, unknownBody := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "nobody@example.com", "password": "right",
	})

	if wrongCode != http.StatusBadRequest || unknownCode != http.StatusBadRequest {
		t.Errorf("want 400 for both; got %d and %d", wrongCode, unknownCode)
	}
	if !bytes.Equal(wrongBody, unknownBody) {
		t.Errorf("bodies differ: %s vs %s", wrongBody, unknownBody)
	}
}
