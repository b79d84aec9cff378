package database

import (
	"context"

	"gameon/feed"
	"gameon/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// matchStages selects the posts admitted by f, joined with their author.
// Posts whose author no longer exists are dropped by the unwind.
func matchStages(f feed.Filter) mongo.Pipeline {
	stages := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "visibility", Value: f.Visibility}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: UsersCollection},
			{Key: "localField", Value: "authorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: "$author"}},
	}
	if f.Unrestricted() {
		return stages
	}

	var or bson.A
	if len(f.AuthorIDs) > 0 {
		or = append(or, bson.D{{Key: "authorId", Value: bson.D{{Key: "$in", Value: f.AuthorIDs}}}})
	}
	if len(f.Tags) > 0 {
		or = append(or, bson.D{{Key: "sportsTags", Value: bson.D{{Key: "$in", Value: f.Tags}}}})
	}
	if len(f.AuthorRoles) > 0 {
		or = append(or, bson.D{{Key: "author.role", Value: bson.D{{Key: "$in", Value: f.AuthorRoles}}}})
	}
	return append(stages, bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: or}}}})
}

// FeedPipeline returns one page of the feed newest first, with the ids of
// the users who liked each post and its comment count.
func FeedPipeline(f feed.Filter, limit, offset int) mongo.Pipeline {
	return append(matchStages(f),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$skip", Value: int64(offset)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: LikesCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "postId"},
			{Key: "as", Value: "likes"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CommentsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "postId"},
			{Key: "as", Value: "comments"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "likerIds", Value: "$likes.userId"},
			{Key: "commentCount", Value: bson.D{{Key: "$size", Value: "$comments"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "likes", Value: 0}, {Key: "comments", Value: 0}}}},
	)
}

// CountPipeline counts every post FeedPipeline could page over.
func CountPipeline(f feed.Filter) mongo.Pipeline {
	return append(matchStages(f), bson.D{{Key: "$count", Value: "total"}})
}

func (s *Store) FindFeedPosts(ctx context.Context, f feed.Filter, limit, offset int) ([]feed.Record, error) {
	cursor, err := s.posts.Aggregate(ctx, FeedPipeline(f, limit, offset))
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	var records []feed.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, classify(err)
	}
	return records, nil
}

func (s *Store) CountFeedPosts(ctx context.Context, f feed.Filter) (int64, error) {
	cursor, err := s.posts.Aggregate(ctx, CountPipeline(f))
	if err != nil {
		return 0, classify(err)
	}
	defer cursor.Close(ctx)

	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, classify(err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

func (s *Store) InsertPost(ctx context.Context, p *models.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := s.posts.InsertOne(ctx, p)
	return classify(err)
}
