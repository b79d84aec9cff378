package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection       = "users"
	ConnectionsCollection = "connections"
	PostsCollection       = "posts"
	LikesCollection       = "likes"
	CommentsCollection    = "comments"
)

// Connect dials uri and pings the primary before returning the client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Println("[Database] Connected to MongoDB")
	return client, nil
}

func Disconnect(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("[Database] Disconnected from MongoDB")
	return nil
}

// Store is the MongoDB implementation of every persistence interface the
// service consumes. The client is owned by the caller.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	users       *mongo.Collection
	connections *mongo.Collection
	posts       *mongo.Collection
	likes       *mongo.Collection
	comments    *mongo.Collection
}

func NewStore(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		client:      client,
		db:          db,
		users:       db.Collection(UsersCollection),
		connections: db.Collection(ConnectionsCollection),
		posts:       db.Collection(PostsCollection),
		likes:       db.Collection(LikesCollection),
		comments:    db.Collection(CommentsCollection),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return classify(s.client.Ping(ctx, readpref.Primary()))
}

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ConnectionsCollection: {
			{Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "status", Value: 1}}},
		},
		PostsCollection: {
			{Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "authorId", Value: 1}}},
			{Keys: bson.D{{Key: "seedKey", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		LikesCollection: {
			{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CommentsCollection: {
			{Keys: bson.D{{Key: "postId", Value: 1}}},
		},
		athleteProfiles: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		coachProfiles: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		academyProfiles: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
}

// EnsureIndexes creates the indexes the queries and uniqueness rules rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for coll, idx := range indexModels() {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return classify(err)
		}
	}
	return nil
}
