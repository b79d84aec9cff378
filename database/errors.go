package database

import (
	"context"
	"errors"

	"gameon/apperrors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// classify maps driver errors onto the service error taxonomy. Callers
// handle mongo.ErrNoDocuments themselves.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if mongo.IsDuplicateKeyError(err) {
		return &apperrors.Error{Kind: apperrors.KindConflict, Message: apperrors.MsgConflict, Err: err}
	}
	if isUnavailable(err) {
		return apperrors.Unavailable(err)
	}
	return apperrors.Internal(err)
}

func isUnavailable(err error) bool {
	var sel topology.ServerSelectionError
	switch {
	case mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return true
	case errors.Is(err, mongo.ErrClientDisconnected):
		return true
	case errors.As(err, &sel):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}

