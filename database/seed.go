package database

import (
	"context"

	"gameon/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The upserts below only write on insert, so re-running a seed leaves
// existing documents untouched.

func insertOnly() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
}

// UpsertUser inserts u keyed on email, together with its role profile when
// the user is new, and returns the stored user.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	existing, err := s.FindUserByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if err := s.CreateUser(ctx, u, models.NewProfileFor(u)); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) UpsertConnection(ctx context.Context, c *models.Connection) (*models.Connection, error) {
	var out models.Connection
	err := s.connections.FindOneAndUpdate(ctx,
		bson.M{"senderId": c.SenderID, "receiverId": c.ReceiverID},
		bson.M{"$setOnInsert": bson.M{
			"status":    c.Status,
			"createdAt": c.CreatedAt,
			"updatedAt": c.UpdatedAt,
		}},
		insertOnly(),
	).Decode(&out)
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// UpsertPost inserts p keyed on its SeedKey.
func (s *Store) UpsertPost(ctx context.Context, p *models.Post) (*models.Post, error) {
	var out models.Post
	err := s.posts.FindOneAndUpdate(ctx,
		bson.M{"seedKey": p.SeedKey},
		bson.M{"$setOnInsert": bson.M{
			"authorId":   p.AuthorID,
			"content":    p.Content,
			"sportsTags": p.SportsTags,
			"visibility": p.Visibility,
			"mediaUrls":  p.MediaURLs,
			"createdAt":  p.CreatedAt,
		}},
		insertOnly(),
	).Decode(&out)
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}
