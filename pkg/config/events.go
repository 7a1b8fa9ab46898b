package config

import (
	"fmt"

	"slotbook/pkg/logger"

	"github.com/joho/godotenv"
)

// EventsConfig is the subset of settings a standalone event consumer needs.
// It skips the HTTP, store and credential checks Load enforces.
type EventsConfig struct {
	Topic        string
	DLQTopic     string
	AuditGroupID string

	Log *logger.Logger
}

func LoadEvents(serviceName string) *EventsConfig {
	_ = godotenv.Load()

	cfg := &EventsConfig{
		Topic:        getEnvStr(EnvEventsTopic, DefaultEventsTopic),
		DLQTopic:     getEnvStr(EnvEventsDLQTopic, ""),
		AuditGroupID: getEnvStr(EnvAuditGroupID, DefaultAuditGroupID),
		Log:          newLogger(serviceName),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.Log.Info("Events configuration loaded successfully",
		"events_topic", cfg.Topic,
		"events_dlq_topic", cfg.DLQTopic,
		"audit_group_id", cfg.AuditGroupID,
	)
	return cfg
}

func (cfg *EventsConfig) Validate() error {
	if cfg.Topic == "" {
		return fmt.Errorf("EventsTopic cannot be empty")
	}
	if cfg.AuditGroupID == "" {
		return fmt.Errorf("AuditGroupID cannot be empty")
	}
	if cfg.Topic == cfg.DLQTopic {
		return fmt.Errorf("EventsDLQTopic must differ from EventsTopic")
	}
	return nil
}
