package feed

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"gameon/apperrors"
	"gameon/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type View string

const (
	ViewPosts  View = "posts"
	ViewEvents View = "events"
	ViewPeople View = "people"
)

// ParseView defaults an empty view to posts. Every view is served by the
// posts selection.
func ParseView(s string) View {
	if s == "" {
		return ViewPosts
	}
	return View(s)
}

// Record is a stored post joined with its author and engagement.
type Record struct {
	models.Post  `bson:",inline"`
	Author       models.User          `bson:"author"`
	LikerIDs     []primitive.ObjectID `bson:"likerIds"`
	CommentCount int                  `bson:"commentCount"`
}

type Store interface {
	// FindUserByID returns nil, nil when no such user exists.
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// AcceptedPeerIDs returns the users joined to userID by an accepted
	// connection in either direction.
	AcceptedPeerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	// FindFeedPosts returns matching posts newest first, skipping offset and
	// returning at most limit.
	FindFeedPosts(ctx context.Context, f Filter, limit, offset int) ([]Record, error)
	CountFeedPosts(ctx context.Context, f Filter) (int64, error)
}

type Request struct {
	ViewerID primitive.ObjectID
	View     View
	Limit    int
	Offset   int
}

type Author struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
	Avatar string      `json:"avatar"`
}

type Item struct {
	ID         string    `json:"id"`
	Author     Author    `json:"author"`
	Content    string    `json:"content"`
	SportsTags []string  `json:"sportsTags"`
	MediaURLs  []string  `json:"mediaUrls"`
	Timestamp  string    `json:"timestamp"`
	Likes      int       `json:"likes"`
	Comments   int       `json:"comments"`
	IsLiked    bool      `json:"isLiked"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

type Page struct {
	Posts      []Item     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// Selector computes personalized feeds. It holds no state between calls.
type Selector struct {
	store Store
	now   func() time.Time
}

// NewSelector returns a Selector reading from store. A nil now uses
// time.Now.
func NewSelector(store Store, now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	return &Selector{store: store, now: now}
}

func (s *Selector) Select(ctx context.Context, req Request) (*Page, error) {
	if req.ViewerID.IsZero() {
		return nil, apperrors.Unauthenticated("Unauthorized")
	}
	if req.Limit < 1 {
		return nil, apperrors.Validation("", map[string]string{"limit": "limit must be a positive integer"})
	}
	if req.Offset < 0 {
		return nil, apperrors.Validation("", map[string]string{"offset": "offset must be a non-negative integer"})
	}

	viewer, err := s.store.FindUserByID(ctx, req.ViewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, apperrors.NotFound("User not found")
	}

	followed, err := s.store.AcceptedPeerIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	filter := BuildFilter(viewer, followed)

	records, err := s.store.FindFeedPosts(ctx, filter, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountFeedPosts(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]Item, len(records))
	for i := range records {
		items[i] = formatItem(&records[i], viewer.ID, now)
	}

	return &Page{
		Posts: items,
		Pagination: Pagination{
			Total:   total,
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasMore: int64(req.Offset) < total-int64(req.Limit),
		},
	}, nil
}

func formatItem(r *Record, viewerID primitive.ObjectID, now time.Time) Item {
	liked := false
	for _, id := range r.LikerIDs {
		if id == viewerID {
			liked = true
			break
		}
	}
	return Item{
		ID: r.ID.Hex(),
		Author: Author{
			ID:     r.Author.ID.Hex(),
			Name:   r.Author.Name,
			Role:   r.Author.Role,
			Avatar: avatarOf(&r.Author),
		},
		Content:    r.Content,
		SportsTags: nonNil(r.SportsTags),
		MediaURLs:  nonNil(r.MediaURLs),
		Timestamp:  RelativeTime(now, r.CreatedAt),
		Likes:      len(r.LikerIDs),
		Comments:   r.CommentCount,
		IsLiked:    liked,
		CreatedAt:  r.CreatedAt,
	}
}

// avatarOf falls back to the upper-cased initial of the user's name.
func avatarOf(u *models.User) string {
	if u.Image != "" {
		return u.Image
	}
	r, _ := utf8.DecodeRuneInString(u.Name)
	if r == utf8.RuneError {
		return ""
	}
	return strings.ToUpper(string(r))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
