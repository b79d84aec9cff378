package database

import (
	"context"
	"errors"
	"time"

	"gameon/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func involving(userID primitive.ObjectID, status models.ConnectionStatus) bson.M {
	return bson.M{
		"status": status,
		"$or": bson.A{
			bson.M{"senderId": userID},
			bson.M{"receiverId": userID},
		},
	}
}

func (s *Store) AcceptedPeerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	conns, err := s.ListConnections(ctx, userID, models.ConnectionAccepted)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(conns))
	for i := range conns {
		ids = append(ids, conns[i].Peer(userID))
	}
	return ids, nil
}

// ListConnections returns the edges in either direction with the given
// status, newest first.
func (s *Store) ListConnections(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.Connection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.connections.Find(ctx, involving(userID, status), opts)
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	var conns []models.Connection
	if err := cursor.All(ctx, &conns); err != nil {
		return nil, classify(err)
	}
	return conns, nil
}

// FindConnectionBetween looks for an edge in either direction.
func (s *Store) FindConnectionBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": a, "receiverId": b},
		bson.M{"senderId": b, "receiverId": a},
	}}
	return s.findConnection(ctx, filter)
}

func (s *Store) FindConnection(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	return s.findConnection(ctx, bson.M{"_id": id})
}

func (s *Store) findConnection(ctx context.Context, filter bson.M) (*models.Connection, error) {
	var c models.Connection
	err := s.connections.FindOne(ctx, filter).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (s *Store) InsertConnection(ctx context.Context, c *models.Connection) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := s.connections.InsertOne(ctx, c)
	return classify(err)
}

// TransitionConnection moves a PENDING edge to status. It reports false when
// the edge is no longer pending.
func (s *Store) TransitionConnection(ctx context.Context, id primitive.ObjectID, status models.ConnectionStatus, at time.Time) (bool, error) {
	res, err := s.connections.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ConnectionPending},
		bson.M{"$set": bson.M{"status": status, "updatedAt": at}},
	)
	if err != nil {
		return false, classify(err)
	}
	return res.ModifiedCount == 1, nil
}
