package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "festas"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSessionTTL = 12 * time.Hour
	DefaultBcryptCost = 12

	// The condominium has a single bookable area today. Modeled as data so a
	// second area is a seed entry, not a schema change.
	DefaultDefaultAreaID   = "salon"
	DefaultDefaultAreaName = "Salão de Festas"

	DefaultKafkaEventTopic = "festas.booking-events"

	DefaultPaginationLimit = 100
)
