package account

import (
	"context"
	"time"

	"gameon/apperrors"
	"gameon/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConnectionStore interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindConnection(ctx context.Context, id primitive.ObjectID) (*models.Connection, error)
	// FindConnectionBetween looks in both directions.
	FindConnectionBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error)
	InsertConnection(ctx context.Context, c *models.Connection) error
	// TransitionConnection only moves a PENDING edge and reports whether it
	// did.
	TransitionConnection(ctx context.Context, id primitive.ObjectID, status models.ConnectionStatus, at time.Time) (bool, error)
	ListConnections(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.Connection, error)
}

const (
	msgSelfConnection   = "You cannot connect with yourself"
	msgConnectionExists = "A connection with this user already exists"
	msgRequestNotFound  = "Connection request not found"
	msgRequestAnswered  = "Connection request has already been answered"
)

type Connections struct {
	store ConnectionStore
	now   func() time.Time
}

func NewConnections(store ConnectionStore, now func() time.Time) *Connections {
	if now == nil {
		now = time.Now
	}
	return &Connections{store: store, now: now}
}

// Request creates a PENDING edge from sender to receiver.
func (c *Connections) Request(ctx context.Context, sender, receiver primitive.ObjectID) (*models.Connection, error) {
	if sender == receiver {
		return nil, apperrors.Validation(msgSelfConnection, map[string]string{"receiverId": msgSelfConnection})
	}

	target, err := c.store.FindUserByID(ctx, receiver)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NotFound("User not found")
	}

	existing, err := c.store.FindConnectionBetween(ctx, sender, receiver)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict(msgConnectionExists)
	}

	now := c.now().UTC()
	conn := &models.Connection{
		ID:         primitive.NewObjectID(),
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     models.ConnectionPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := c.store.InsertConnection(ctx, conn); err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			return nil, apperrors.Conflict(msgConnectionExists)
		}
		return nil, err
	}
	return conn, nil
}

// Respond accepts or rejects a pending request addressed to receiver.
func (c *Connections) Respond(ctx context.Context, receiver, connectionID primitive.ObjectID, accept bool) (*models.Connection, error) {
	conn, err := c.store.FindConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil || conn.ReceiverID != receiver {
		return nil, apperrors.NotFound(msgRequestNotFound)
	}
	if conn.Status != models.ConnectionPending {
		return nil, apperrors.Conflict(msgRequestAnswered)
	}

	status := models.ConnectionRejected
	if accept {
		status = models.ConnectionAccepted
	}
	now := c.now().UTC()
	moved, err := c.store.TransitionConnection(ctx, conn.ID, status, now)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperrors.Conflict(msgRequestAnswered)
	}

	conn.Status = status
	conn.UpdatedAt = now
	return conn, nil
}

// ListAccepted returns the accepted edges touching userID in either
// direction.
func (c *Connections) ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	conns, err := c.store.ListConnections(ctx, userID, models.ConnectionAccepted)
	if err != nil {
		return nil, err
	}
	if conns == nil {
		conns = []models.Connection{}
	}
	return conns, nil
}

// ListPending returns requests awaiting userID's answer.
func (c *Connections) ListPending(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	conns, err := c.store.ListConnections(ctx, userID, models.ConnectionPending)
	if err != nil {
		return nil, err
	}
	incoming := make([]models.Connection, 0, len(conns))
	for _, conn := range conns {
		if conn.ReceiverID == userID {
			incoming = append(incoming, conn)
		}
	}
	return incoming, nil
}
