package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"postboard/config"
)

// ConnectMongo opens a client for cfg.URI and pings it.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	if cfg.Timeout > 0 {
		opts.SetTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Println("✅ Connected to MongoDB")
	return client, nil
}
