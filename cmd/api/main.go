package main

import (
	"flag"
	"log"

	"github.com/meetapp-io/meetapp/internal/api"
	"github.com/meetapp-io/meetapp/internal/config"
	"github.com/meetapp-io/meetapp/internal/database"
	"github.com/meetapp-io/meetapp/internal/queue"
	"github.com/meetapp-io/meetapp/internal/storage"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting Meetapp API v%s with config: %s", version, *configPath)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwtSecret is not set; refusing to start with an empty signing key")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	queueClient, err := queue.NewClient(cfg.Queue.URL, cfg.Queue.Stream)
	if err != nil {
		log.Fatalf("Failed to connect to queue: %v", err)
	}
	defer queueClient.Close()

	store, err := storage.NewS3Client(
		cfg.Storage.Endpoint,
		cfg.Storage.Region,
		cfg.Storage.Bucket,
		cfg.Storage.AccessKeyID,
		cfg.Storage.SecretAccessKey,
	)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}

	a := api.NewApi(cfg, db, queueClient, store)

	log.Printf("Listening on 0.0.0.0:%d", cfg.APIPort)
	if err := a.Serve(); err != nil {
		log.Fatal(err)
	}
}
