package main

import (
	"slotbook/internal/reservations/events"
	"slotbook/internal/reservations/handler"
	"slotbook/internal/reservations/repository"
	"slotbook/internal/reservations/service"
	"slotbook/internal/reservations/validator"
	"slotbook/pkg/app"
	"slotbook/pkg/auth"
	"slotbook/pkg/config"
	"slotbook/pkg/kafka"
	kafka_config "slotbook/pkg/kafka/config"
	kafka_middleware "slotbook/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	store, err := repository.NewStore(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to open reservation store", "error", err)
	}

	publisher := initPublisher(cfg)
	reservationService := initServices(cfg, store, publisher)

	authenticator := auth.NewAuthenticator(cfg.JWTSecret, cfg.JWTTTL, ServiceName, cfg.Accounts()...)

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})
	serverApp.SetApp(
		handler.NewHealthHandler(store, cfg.Log),
		authenticator,
		[]string{handler.LoginPath},
		handler.NewAuthHandler(authenticator, cfg.Log),
		handler.NewReservationHandler(reservationService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, store repository.Store, publisher events.Publisher) service.ReservationService {
	grid, err := cfg.Grid()
	if err != nil {
		cfg.Log.Fatal("Invalid booking day", "error", err)
	}

	reservationService := service.NewReservationService(
		store,
		validator.NewReservationValidator(cfg.Log),
		grid,
		publisher,
		cfg.Log.Component("reservation-service"),
	)

	cfg.Log.Info("Reservations service initialized",
		"store_backend", cfg.StoreBackend,
		"slots_per_day", len(grid.Slots()),
	)
	return reservationService
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Reservation events disabled")
		return events.NopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic, cfg.Log.Component("kafka-producer"))
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	return events.NewKafkaPublisher(producer, ServiceName)
}
