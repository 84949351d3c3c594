package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vinitha-rv/library-backend/common/logger"
	"github.com/vinitha-rv/library-backend/database"
	"github.com/vinitha-rv/library-backend/models"
	"github.com/vinitha-rv/library-backend/repository"
	"github.com/vinitha-rv/library-backend/services"
)

// seed-catalog loads a JSON array of books into the catalog, applying the
// same validation as POST /books.
func main() {
	var mongoURI, dbName, file string
	var dryRun bool
	flag.StringVar(&mongoURI, "mongo", os.Getenv("MONGO_URI"), "MongoDB URI")
	flag.StringVar(&dbName, "db", os.Getenv("MONGO_DB"), "MongoDB database name")
	flag.StringVar(&file, "file", "books.json", "JSON file with an array of books")
	flag.BoolVar(&dryRun, "dry-run", false, "decode the file without writing")
	flag.Parse()

	log := logger.Initialize("development")
	defer log.Sync()

	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	if dbName == "" {
		dbName = "bookstore"
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatal("read seed file", zap.String("file", file), zap.Error(err))
	}
	var books []models.CreateBookRequest
	if err := json.Unmarshal(raw, &books); err != nil {
		log.Fatal("decode seed file", zap.String("file", file), zap.Error(err))
	}
	if dryRun {
		fmt.Printf("Dry run. decoded=%d\n", len(books))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	mongo, err := database.Connect(ctx, mongoURI, dbName)
	if err != nil {
		log.Fatal("mongo connect", zap.Error(err))
	}
	defer mongo.Close()

	repo := repository.NewBookRepository(mongo.DB)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Warn("ensure indexes", zap.Error(err))
	}
	catalog := services.NewCatalogService(repo, nil)

	var count, skipped int
	for i, req := range books {
		book, err := catalog.CreateBook(ctx, req)
		if err != nil {
			log.Warn("skipping book", zap.Int("index", i), zap.String("title", req.Title), zap.Error(err))
			skipped++
			continue
		}
		count++
		if count%100 == 0 {
			log.Info("seeded books", zap.Int("count", count), zap.String("last_id", book.ID.Hex()))
		}
	}
	fmt.Printf("Seeding complete. inserted=%d skipped=%d\n", count, skipped)
}
