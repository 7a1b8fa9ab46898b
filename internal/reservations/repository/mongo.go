package repository

import (
	"context"
	"errors"
	"fmt"

	reservationserrors "slotbook/internal/reservations/errors"
	"slotbook/pkg/config"
	mongotx "slotbook/pkg/db/mongo"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionName = "Reservations"
)

type mongoStore struct {
	cfg        *config.Config
	log        *logger.Logger
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager

	fetch func(ctx context.Context) ([]bson.Raw, error)
	reset func(ctx context.Context) error
}

func NewMongoStore(cfg *config.Config) Store {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	log := cfg.Log.Component("mongo-store")
	s := &mongoStore{
		cfg:        cfg,
		log:        log,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo, log),
	}
	s.fetch = s.fetchAll
	s.reset = func(ctx context.Context) error { return s.Save(ctx, nil) }
	return s
}

// Load only reinitializes the collection when its documents fail to decode.
// Query and cursor failures are returned untouched.
func (s *mongoStore) Load(ctx context.Context) ([]*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	raws, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	reservations, err := decodeDocuments(raws)
	if err != nil {
		return s.reinitialize(ctx, err)
	}
	return reservations, nil
}

func (s *mongoStore) fetchAll(ctx context.Context) ([]bson.Raw, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "start", Value: 1},
	})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var raws []bson.Raw
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("failed to read reservations: %w", err)
	}
	return raws, nil
}

// reinitialize empties a collection whose documents cannot be read back.
func (s *mongoStore) reinitialize(ctx context.Context, cause error) ([]*model.Reservation, error) {
	s.log.Warn("Reservation collection is corrupt, reinitializing it empty",
		"collection", CollectionName,
		"error", cause,
	)
	if err := s.reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reinitialize corrupt collection: %w", errors.Join(reservationserrors.ErrCorruptStore, err))
	}
	return []*model.Reservation{}, nil
}

// Save replaces the collection contents inside one transaction.
func (s *mongoStore) Save(ctx context.Context, reservations []*model.Reservation) error {
	ctx, cancel := withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, 0, len(reservations))
	for _, d := range toDocuments(reservations) {
		docs = append(docs, d)
	}

	return s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.collection.DeleteMany(sessCtx, bson.M{}); err != nil {
			return fmt.Errorf("failed to clear reservations: %w", err)
		}
		if len(docs) == 0 {
			return nil
		}
		if _, err := s.collection.InsertMany(sessCtx, docs); err != nil {
			return fmt.Errorf("failed to insert reservations: %w", err)
		}
		return nil
	})
}

func (s *mongoStore) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	if err := s.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}
