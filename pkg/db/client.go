package db

import (
	"context"
	"fmt"

	"github.com/filmharbor/festival-backend/pkg/config"
	"github.com/filmharbor/festival-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	YearsCollection  = "years"
	AdminsCollection = "admins"
)

// Client wraps the mongo connection used by the repositories.
type Client struct {
	raw      *mongo.Client
	database *mongo.Database
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New bootstraps a Mongo client, verifies connectivity and ensures the unique
// indexes the data model relies on (years.year, admins.email).
func New(ctx context.Context, cfg config.MongoConfig, logg *logger.Logger) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	raw, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := raw.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	client := &Client{raw: raw, database: raw.Database(cfg.Database)}
	if err := client.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "database", cfg.Database), "mongo connection established")
	}
	return client, nil
}

func (c *Client) ensureIndexes(ctx context.Context) error {
	yearIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "year", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := c.database.Collection(YearsCollection).Indexes().CreateOne(ctx, yearIndex); err != nil {
		return fmt.Errorf("ensure years index: %w", err)
	}

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := c.database.Collection(AdminsCollection).Indexes().CreateOne(ctx, emailIndex); err != nil {
		return fmt.Errorf("ensure admins index: %w", err)
	}
	return nil
}

// Database returns the configured database handle.
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Ping verifies the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.raw.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (c *Client) Close(ctx context.Context) error {
	return c.raw.Disconnect(ctx)
}
