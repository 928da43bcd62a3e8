package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"givento/internal/auth"
	"givento/internal/config"
	"givento/internal/models"
	"givento/internal/web"
)

func main() {
	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		errorLog.Fatal(err)
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		errorLog.Fatal(err)
	}

	defaultAddr := ":4000"
	if cfg.Port != "" {
		defaultAddr = ":" + cfg.Port
	}
	addr := flag.String("addr", defaultAddr, "HTTP network address")
	flag.Parse()

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, auth.TokenTTL)
	if err != nil {
		errorLog.Fatal(err)
	}

	conn := models.NewConnector(cfg.MongoURI, cfg.MongoDatabase, cfg.ConnectTimeout)
	db, err := conn.Connect(context.Background())
	if err != nil {
		errorLog.Fatal(err)
	}
	infoLog.Printf("Connected to MongoDB database %q", cfg.MongoDatabase)

	if err := db.EnsureIndexes(context.Background()); err != nil {
		errorLog.Fatal(err)
	}

	app := web.NewApplication(db, tokens, infoLog, errorLog)
	app.Prefix = cfg.APIPrefix
	app.Environment = cfg.Environment

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     errorLog,
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		infoLog.Printf("Starting Givento API on %s (prefix %q)", *addr, cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorLog.Fatal(err)
		}
	}()

	<-ctx.Done()
	infoLog.Print("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		errorLog.Print(err)
	}
	if err := conn.Close(shutdownCtx); err != nil {
		errorLog.Print(err)
	}
}
