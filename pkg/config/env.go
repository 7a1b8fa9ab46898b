package config

const (
	EnvStoreBackend = "STORE_BACKEND"
	EnvXlsxPath     = "XLSX_PATH"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvUnitDurationMin = "UNIT_DURATION_MIN"
	EnvDayStart        = "DAY_START"
	EnvDayEnd          = "DAY_END"

	EnvJWTSecret          = "JWT_SECRET"
	EnvJWTTTL             = "JWT_TTL"
	EnvAdminUsername      = "ADMIN_USERNAME"
	EnvAdminPasswordHash  = "ADMIN_PASSWORD_HASH"
	EnvViewerUsername     = "VIEWER_USERNAME"
	EnvViewerPasswordHash = "VIEWER_PASSWORD_HASH"

	EnvEventsEnabled  = "EVENTS_ENABLED"
	EnvEventsTopic    = "EVENTS_TOPIC"
	EnvEventsDLQTopic = "EVENTS_DLQ_TOPIC"
	EnvAuditGroupID   = "AUDIT_GROUP_ID"
)
