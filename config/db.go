package config

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout         = 10 * time.Second
	serverSelectionTimeout = 10 * time.Second
)

// ClientOptions builds the MongoDB client options for the configured
// deployment. Atlas clusters are pinned to the stable API v1.
func (c *Config) ClientOptions() *options.ClientOptions {
	opts := options.Client().
		ApplyURI(c.DatabaseURI()).
		SetAppName("mixer-machine-server").
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(serverSelectionTimeout)

	if c.MongoURI == "" {
		serverAPI := options.ServerAPI(options.ServerAPIVersion1).
			SetStrict(true).
			SetDeprecationErrors(true)
		opts.SetServerAPIOptions(serverAPI)
	}

	return opts
}
