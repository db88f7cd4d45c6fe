package main

import (
	"context"
	"flag"
	"log"
	"time"

	"transcript-export/pkg/config"
	"transcript-export/pkg/db"
	"transcript-export/pkg/flashcard"
	"transcript-export/pkg/replication"
)

// Fills the flashcard archive without touching the CSV file or the remote API.
//
// Default mode loads already extracted transcripts into Mongo and/or Postgres.
// With -replicate it copies the Mongo archive into Postgres instead.
func main() {
	settings := config.LoadSettings()

	var (
		jsonDir     = flag.String("json-dir", settings.JSONDir(), "Directory holding extracted transcript JSON files")
		mongoURI    = flag.String("mongo-uri", settings.MongoURI, "MongoDB connection string")
		dbName      = flag.String("db", settings.MongoDatabase, "MongoDB database name")
		collection  = flag.String("collection", settings.MongoCollection, "MongoDB collection for flashcards")
		postgresDSN = flag.String("postgres-dsn", settings.PostgresDSN, "Postgres DSN")
		replicate   = flag.Bool("replicate", false, "Copy every flashcard from Mongo to Postgres")
		workers     = flag.Int("workers", 5, "Parallel Postgres batches when replicating")
		batchSize   = flag.Int("batch-size", 100, "Flashcards per Postgres batch when replicating")
	)
	flag.Parse()

	if *mongoURI == "" && *postgresDSN == "" {
		log.Fatalf("Nothing to do: set -mongo-uri and/or -postgres-dsn")
	}
	if *replicate && (*mongoURI == "" || *postgresDSN == "") {
		log.Fatalf("-replicate needs both -mongo-uri and -postgres-dsn")
	}

	ctx := context.Background()
	start := time.Now()

	var mongoClient *db.Client
	if *mongoURI != "" {
		mongoClient = db.NewClient(*mongoURI, *dbName, *collection)
		if err := mongoClient.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer mongoClient.Close(ctx)
	}

	var pg *db.PostgresClient
	if *postgresDSN != "" {
		pg = db.NewPostgresClient(db.PostgresConfig{DSN: *postgresDSN, MaxOpenConns: *workers})
		if err := pg.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer pg.Close()

		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to create schema: %v", err)
		}
	}

	if *replicate {
		replicator, err := replication.NewReplicator(replication.Config{
			Source:    mongoClient,
			Sink:      pg,
			BatchSize: *batchSize,
			Workers:   *workers,
		})
		if err != nil {
			log.Fatalf("Failed to create replicator: %v", err)
		}
		if _, err := replicator.Replicate(ctx); err != nil {
			log.Fatalf("Replication failed: %v", err)
		}
		log.Printf("Done. Duration: %s", time.Since(start))
		return
	}

	cards, err := flashcard.Flatten(*jsonDir)
	if err != nil {
		log.Fatalf("Failed to read transcripts: %v", err)
	}
	log.Printf("Read %d flashcards from %s", len(cards), *jsonDir)

	if mongoClient != nil {
		if err := mongoClient.SaveFlashcards(ctx, cards); err != nil {
			log.Fatalf("Mongo archive failed: %v", err)
		}
	}
	if pg != nil {
		if err := pg.SaveFlashcards(ctx, cards); err != nil {
			log.Fatalf("Postgres archive failed: %v", err)
		}
	}

	log.Printf("Done. Duration: %s", time.Since(start))
}
