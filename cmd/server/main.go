package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/jiyun-park/fanchannel-service/internal/channel"
	"github.com/jiyun-park/fanchannel-service/internal/chathub"
	"github.com/jiyun-park/fanchannel-service/internal/domain"
	"github.com/jiyun-park/fanchannel-service/internal/httpapi"
	"github.com/jiyun-park/fanchannel-service/internal/storage"
	"github.com/jiyun-park/fanchannel-service/internal/storage/inmemory"
	"github.com/jiyun-park/fanchannel-service/internal/storage/jsonfile"
	"github.com/jiyun-park/fanchannel-service/internal/storage/sqlite"
)

const (
	defaultPort     = "8080"
	defaultDataFile = "channel_data.json"
	defaultDBFile   = "channel_data.db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	storageType := flag.String("storage", "json", "Storage type (json, sqlite or in-memory)")
	flag.Parse()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("JWT_SECRET not set, using an insecure development secret")
		secret = "fanchannel-dev-secret"
	}

	var store storage.Store
	var err error

	log.Printf("Starting server with %s storage", *storageType)
	switch *storageType {
	case "json":
		path := os.Getenv("DATA_FILE")
		if path == "" {
			path = defaultDataFile
		}
		store = jsonfile.New(path)
	case "sqlite":
		path := os.Getenv("DATA_FILE")
		if path == "" {
			path = defaultDBFile
		}
		store, err = sqlite.New(path)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
	case "in-memory":
		store = inmemory.New()
	default:
		log.Fatalf("unknown storage type %q", *storageType)
	}

	// Force initialization so the default snapshot (and the default
	// admin credential) exists before the first request.
	snap, err := store.Load(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize snapshot: %v", err)
	}
	log.Printf("channel %q ready: %d admin post(s), %d fan post(s), %d chat message(s)",
		snap.ChatTheme.ChannelName, len(snap.FeedAdmin), len(snap.FeedFan), len(snap.Chat))

	hub := chathub.New()
	svc := channel.New(store, hub)
	handler := httpapi.NewHandler(svc, httpapi.NewTokenManager(secret))
	router := httpapi.NewRouter(handler, httpapi.NewChatStream(svc, hub))

	log.Printf("listening on http://localhost:%s (default admin: %s)", port, domain.AdminName)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}
