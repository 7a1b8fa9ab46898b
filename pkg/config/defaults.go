package config

import "time"

const (
	StoreMongo  = "mongo"
	StoreXlsx   = "xlsx"
	StoreMemory = "memory"

	DefaultStoreBackend = StoreXlsx
	DefaultXlsxPath     = "reservations.xlsx"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Minutes needed to load one device.
	DefaultUnitDurationMin = 3
	DefaultDayStart        = "09:00"
	DefaultDayEnd          = "16:00"

	DefaultJWTTTL         = 8 * time.Hour
	DefaultAdminUsername  = "admin"
	DefaultViewerUsername = "user"

	DefaultEventsEnabled = false
	DefaultEventsTopic   = "reservations.events"
	DefaultAuditGroupID  = "reservations-audit"
)
