package mongo

import (
	"context"
	"errors"
	"fmt"

	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server error code returned when a transaction is attempted on a standalone mongod.
const codeIllegalOperation = 20

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	log    *logger.Logger
}

func NewTransactionManager(client *mongo.Client, log *logger.Logger) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		log:    log,
	}
}

// ExecuteTransaction runs fn inside a transaction. Deployments without
// transaction support run fn in a plain session instead.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})

	if err != nil && transactionsUnsupported(err) {
		m.log.Warn("MongoDB deployment does not support transactions, writing without one")
		err = fn(mongo.NewSessionContext(ctx, session))
	}

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == codeIllegalOperation
}
