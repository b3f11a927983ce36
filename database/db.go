package database

import (
	"context"
	"fmt"
	"time"

	"wellportal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the global MongoDB client instance. It stays nil when no
// DATABASE_URL is configured.
var MongoClient *mongo.Client

// InitDB connects to MongoDB when a DATABASE_URL is configured and reports
// whether a client is now available.
func InitDB() (bool, error) {
	if config.AppConfig.DatabaseURL == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return false, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return false, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	MongoClient = client
	return true, nil
}

// Database returns the configured portal database.
func Database() *mongo.Database {
	return MongoClient.Database(config.AppConfig.DatabaseName)
}

// CloseDB disconnects the global client if one was opened.
func CloseDB(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
