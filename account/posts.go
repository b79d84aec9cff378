package account

import (
	"context"
	"strings"
	"time"

	"gameon/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostStore interface {
	InsertPost(ctx context.Context, p *models.Post) error
}

type PostInput struct {
	Content    string            `json:"content" validate:"required,max=5000"`
	SportsTags []string          `json:"sportsTags" validate:"max=10,dive,required"`
	Visibility models.Visibility `json:"visibility" validate:"omitempty,oneof=PUBLIC CONNECTIONS PRIVATE"`
	MediaURLs  []string          `json:"mediaUrls" validate:"max=10,dive,url"`
}

var postMessages = messages{
	"content.required": "Post content is required",
	"content.max":      "Post content must be at most 5000 characters",
	"sportsTags":       "Sports tags must be at most 10 non-empty names",
	"visibility":       "Visibility must be one of PUBLIC, CONNECTIONS, PRIVATE",
	"mediaUrls":        "Media must be at most 10 valid URLs",
}

type Posts struct {
	store    PostStore
	validate *validator.Validate
	now      func() time.Time
}

func NewPosts(store PostStore, now func() time.Time) *Posts {
	if now == nil {
		now = time.Now
	}
	return &Posts{store: store, validate: newValidator(now), now: now}
}

// Create stores a post by author. Visibility defaults to PUBLIC.
func (p *Posts) Create(ctx context.Context, author primitive.ObjectID, in PostInput) (*models.Post, error) {
	in.Content = strings.TrimSpace(in.Content)
	for i := range in.SportsTags {
		in.SportsTags[i] = strings.TrimSpace(in.SportsTags[i])
	}
	if err := p.validate.Struct(&in); err != nil {
		return nil, validationError(err, postMessages)
	}
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}

	post := &models.Post{
		ID:         primitive.NewObjectID(),
		AuthorID:   author,
		Content:    in.Content,
		SportsTags: nonNil(in.SportsTags),
		Visibility: in.Visibility,
		MediaURLs:  nonNil(in.MediaURLs),
		CreatedAt:  p.now().UTC(),
	}
	if err := p.store.InsertPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
