// Package handler exposes the API as a single serverless function. The
// platform calls Handler once per request; the router and the MongoDB
// connection are built on first use and reused while the instance is warm.
package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"

	"givento/internal/auth"
	"givento/internal/config"
	"givento/internal/models"
	"givento/internal/web"
)

var (
	infoLog  = log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog = log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	mu     sync.Mutex
	routes http.Handler

	connect = func(ctx context.Context, cfg *config.Config) (*models.MongoDB, error) {
		return models.NewConnector(cfg.MongoURI, cfg.MongoDatabase, cfg.ConnectTimeout).Connect(ctx)
	}
)

func Handler(w http.ResponseWriter, r *http.Request) {
	web.CORS(http.HandlerFunc(serve)).ServeHTTP(w, r)
}

func serve(w http.ResponseWriter, r *http.Request) {
	h, err := load(r.Context())
	if err != nil {
		errorLog.Print(err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "Server error", "error": err.Error()})
		return
	}
	h.ServeHTTP(w, r)
}

// load builds the router once. A failed attempt is not remembered, so the
// next invocation tries again.
func load(ctx context.Context) (http.Handler, error) {
	mu.Lock()
	defer mu.Unlock()

	if routes != nil {
		return routes, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	db, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	app := web.NewApplication(db, tokens, infoLog, errorLog)
	app.Prefix = cfg.APIPrefix
	app.Environment = cfg.Environment

	routes = app.Routes()
	return routes, nil
}
