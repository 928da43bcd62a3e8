// Command seed prepares a database for the storefront: it can load the
// sample catalogue, empty the products collection, create or promote an
// admin account and backfill the categories collection.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"givento/internal/config"
	"givento/internal/models"
	"givento/internal/repository"
)

func main() {
	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	clearAll := flag.Bool("clear", false, "delete every product before anything else")
	sample := flag.Bool("sample", false, "insert the sample catalogue")
	backfill := flag.Bool("backfill-categories", false, "upsert one category record per distinct product category")
	adminEmail := flag.String("admin-email", "", "create or promote this account to admin")
	adminPassword := flag.String("admin-password", "", "password for a newly created admin")
	adminName := flag.String("admin-name", "Admin", "display name for a newly created admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		errorLog.Fatal(err)
	}

	conn := models.NewConnector(cfg.MongoURI, cfg.MongoDatabase, cfg.ConnectTimeout)
	ctx := context.Background()
	db, err := conn.Connect(ctx)
	if err != nil {
		errorLog.Fatal(err)
	}
	defer conn.Close(ctx)
	infoLog.Printf("Connected to MongoDB database %q", cfg.MongoDatabase)

	if err := db.EnsureIndexes(ctx); err != nil {
		errorLog.Fatal(err)
	}

	s := &seeder{
		infoLog:    infoLog,
		products:   &models.ProductModel{Collection: db.Products},
		categories: &models.CategoryModel{Products: db.Products, Categories: db.Categories},
		users:      &repository.UserRepository{Collection: db.Users},
		now:        time.Now().UTC(),
	}

	steps := []struct {
		enabled bool
		run     func(context.Context) error
	}{
		{*clearAll, s.clearProducts},
		{*sample, s.insertSample},
		{*adminEmail != "", func(ctx context.Context) error {
			return s.ensureAdmin(ctx, *adminName, *adminEmail, *adminPassword)
		}},
		{*backfill, s.backfillCategories},
	}

	ran := false
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		ran = true
		if err := step.run(ctx); err != nil {
			errorLog.Fatal(err)
		}
	}
	if !ran {
		flag.Usage()
		os.Exit(2)
	}
}

type seeder struct {
	infoLog    *log.Logger
	products   *models.ProductModel
	categories *models.CategoryModel
	users      *repository.UserRepository
	now        time.Time
}

func (s *seeder) clearProducts(ctx context.Context) error {
	n, err := s.products.DeleteAll(ctx)
	if err != nil {
		return err
	}
	s.infoLog.Printf("Deleted %d products", n)
	return nil
}

func (s *seeder) insertSample(ctx context.Context) error {
	for i, in := range sampleCatalogue {
		// Space the timestamps so "latest" is deterministic.
		p, err := in.Product(s.now.Add(time.Duration(i) * time.Second))
		if err != nil {
			return err
		}
		if err := s.products.Insert(ctx, p); err != nil {
			return err
		}
	}
	s.infoLog.Printf("Added %d sample products", len(sampleCatalogue))
	return nil
}

func (s *seeder) ensureAdmin(ctx context.Context, name, email, password string) error {
	err := s.users.SetAdmin(ctx, email, true)
	if err == nil {
		s.infoLog.Printf("Promoted %s to admin", email)
		return nil
	}
	if !errors.Is(err, models.ErrNoRecord) {
		return err
	}

	if password == "" {
		return errors.New("seed: -admin-password is required to create a new admin")
	}
	if _, err := s.users.Insert(ctx, name, email, password, true); err != nil {
		return err
	}
	s.infoLog.Printf("Created admin %s", email)
	return nil
}

func (s *seeder) backfillCategories(ctx context.Context) error {
	n, err := s.categories.Backfill(ctx, s.now)
	if err != nil {
		return err
	}
	s.infoLog.Printf("Backfilled %d categories", n)
	return nil
}
