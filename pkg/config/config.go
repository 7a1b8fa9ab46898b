package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"slotbook/pkg/auth"
	"slotbook/pkg/client"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
	"slotbook/pkg/slots"

	"github.com/joho/godotenv"
)

var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$|^24:00$`)

type Config struct {
	StoreBackend string
	XlsxPath     string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	UnitDurationMin int
	DayStart        string
	DayEnd          string

	JWTSecret          string
	JWTTTL             time.Duration
	AdminUsername      string
	AdminPasswordHash  string
	ViewerUsername     string
	ViewerPasswordHash string

	EventsEnabled  bool
	EventsTopic    string
	EventsDLQTopic string
	AuditGroupID   string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the configuration from the environment, seeded from a .env file
// in the working directory when one exists. Invalid configuration is fatal.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg := &Config{
		StoreBackend: strings.ToLower(getEnvStr(EnvStoreBackend, DefaultStoreBackend)),
		XlsxPath:     getEnvStr(EnvXlsxPath, DefaultXlsxPath),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		UnitDurationMin: getEnvNum(EnvUnitDurationMin, DefaultUnitDurationMin),
		DayStart:        getEnvStr(EnvDayStart, DefaultDayStart),
		DayEnd:          getEnvStr(EnvDayEnd, DefaultDayEnd),

		JWTSecret:          getEnvStr(EnvJWTSecret, ""),
		JWTTTL:             getEnvDuration(EnvJWTTTL, DefaultJWTTTL),
		AdminUsername:      getEnvStr(EnvAdminUsername, DefaultAdminUsername),
		AdminPasswordHash:  getEnvStr(EnvAdminPasswordHash, ""),
		ViewerUsername:     getEnvStr(EnvViewerUsername, DefaultViewerUsername),
		ViewerPasswordHash: getEnvStr(EnvViewerPasswordHash, ""),

		EventsEnabled:  getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		EventsTopic:    getEnvStr(EnvEventsTopic, DefaultEventsTopic),
		EventsDLQTopic: getEnvStr(EnvEventsDLQTopic, ""),
		AuditGroupID:   getEnvStr(EnvAuditGroupID, DefaultAuditGroupID),

		Log:    newLogger(serviceName),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// UnitDuration is the time one device unit occupies.
func (cfg *Config) UnitDuration() time.Duration {
	return time.Duration(cfg.UnitDurationMin) * time.Minute
}

// Grid builds the booking day from the configured bounds and unit.
func (cfg *Config) Grid() (*slots.Grid, error) {
	start, err := model.ParseClock(cfg.DayStart)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseClock(cfg.DayEnd)
	if err != nil {
		return nil, err
	}
	return slots.NewGrid(start, end, cfg.UnitDuration())
}

// Accounts lists the login accounts. One without a password hash cannot log in.
func (cfg *Config) Accounts() []auth.Account {
	return []auth.Account{
		{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash, Role: auth.RoleAdmin},
		{Username: cfg.ViewerUsername, PasswordHash: cfg.ViewerPasswordHash, Role: auth.RoleViewer},
	}
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StoreBackend {
	case StoreMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case StoreXlsx:
		if strings.TrimSpace(cfg.XlsxPath) == "" {
			errors = append(errors, "XlsxPath cannot be empty")
		}
	case StoreMemory:
	default:
		errors = append(errors, fmt.Sprintf("StoreBackend must be one of %s, %s, %s, got: %s", StoreMongo, StoreXlsx, StoreMemory, cfg.StoreBackend))
	}

	if !timeOfDayRegex.MatchString(cfg.DayStart) {
		errors = append(errors, fmt.Sprintf("DayStart must be in HH:MM format (00:00-23:59), got: %s", cfg.DayStart))
	}
	if !timeOfDayRegex.MatchString(cfg.DayEnd) {
		errors = append(errors, fmt.Sprintf("DayEnd must be in HH:MM format (00:00-24:00), got: %s", cfg.DayEnd))
	}
	if cfg.UnitDurationMin <= 0 {
		errors = append(errors, fmt.Sprintf("UnitDurationMin must be positive, got: %d", cfg.UnitDurationMin))
	}
	if len(errors) == 0 {
		if _, err := cfg.Grid(); err != nil {
			errors = append(errors, fmt.Sprintf("Booking day is invalid: %v", err))
		}
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(cfg.JWTSecret) < 16 {
		errors = append(errors, "JWTSecret must be at least 16 characters")
	}
	if cfg.JWTTTL <= 0 {
		errors = append(errors, fmt.Sprintf("JWTTTL must be positive, got: %s", cfg.JWTTTL))
	}
	if cfg.AdminUsername == "" {
		errors = append(errors, "AdminUsername cannot be empty")
	}
	if cfg.AdminUsername == cfg.ViewerUsername {
		errors = append(errors, "AdminUsername and ViewerUsername must differ")
	}

	if cfg.EventsEnabled && cfg.EventsTopic == "" {
		errors = append(errors, "EventsTopic cannot be empty when events are enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_backend", cfg.StoreBackend,
		"xlsx_path", cfg.XlsxPath,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"unit_duration_min", cfg.UnitDurationMin,
		"day_start", cfg.DayStart,
		"day_end", cfg.DayEnd,
		"jwt_ttl", cfg.JWTTTL,
		"admin_username", cfg.AdminUsername,
		"admin_login_enabled", cfg.AdminPasswordHash != "",
		"viewer_username", cfg.ViewerUsername,
		"viewer_login_enabled", cfg.ViewerPasswordHash != "",
		"events_enabled", cfg.EventsEnabled,
		"events_topic", cfg.EventsTopic,
	)
}

func newLogger(serviceName string) *logger.Logger {
	return logger.New(logger.Config{
		Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}
