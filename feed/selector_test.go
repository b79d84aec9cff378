package feed

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"gameon/apperrors"
	"gameon/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func (m *memStore) addPost(author *models.User, ago time.Duration, vis models.Visibility, tags ...string) *models.Post {
	p := models.Post{
		ID:         primitive.NewObjectID(),
		AuthorID:   author.ID,
		Content:    "post by " + author.Name,
		SportsTags: tags,
		Visibility: vis,
		CreatedAt:  testNow.Add(-ago),
	}
	m.posts = append(m.posts, p)
	return &m.posts[len(m.posts)-1]
}

func ids(page *Page) []string {
	out := make([]string, len(page.Posts))
	for i, p := range page.Posts {
		out[i] = p.ID
	}
	return out
}

func TestSelectNoContextShowsAllPublicNewestFirst(t *testing.T) {
	store := newMemStore()
	viewer := store.addUser("Viewer", models.RoleAthlete)
	coach := store.addUser("Coach", models.RoleCoach)
	academy := store.addUser("Academy", models.RoleAcademy)

	old := store.addPost(coach, 3*time.Hour, models.VisibilityPublic)
	newest := store.addPost(academy, time.Minute, models.VisibilityPublic)
	store.addPost(coach, 2*time.Minute, models.VisibilityPrivate)
	mid := store.addPost(viewer, time.Hour, models.VisibilityPublic)

	page, err := NewSelector(store, fixedNow).Select(context.Background(), Request{ViewerID: viewer.ID, Limit: 20})
	require.NoError(t, err)

	require.Equal(t, []string{newest.ID.Hex(), mid.ID.Hex(), old.ID.Hex()}, ids(page))
	require.Equal(t, Pagination{Total: 3, Limit: 20, Offset: 0, HasMore: false}, page.Pagination)
}

func TestSelectOnlyPublicPosts(t *testing.T) {
	store := newMemStore()
	viewer := store.addUser("Viewer", models.RoleCoach, "Soccer")
	friend := store.addUser("Friend", models.RoleAthlete)
	store.connect(viewer, friend, models.ConnectionAccepted)

	store.addPost(friend, time.Minute, models.VisibilityConnections, "Soccer")
	store.addPost(friend, 2*time.Minute, models.VisibilityPrivate, "Soccer")
	public := store.addPost(friend, 3*time.Minute, models.VisibilityPublic)

	page, err := NewSelector(store, fixedNow).Select(context.Background(), Request{ViewerID: viewer.ID, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []string{public.ID.Hex()}, ids(page))
}

func TestSelectUnknownRoleFallsBackToConnectionsAndInterests(t *testing.T) {
	store := newMemStore()
	viewer := store.addUser("Viewer", "", "Tennis")
	friend := store.addUser("Friend", models.RoleAthlete)
	stranger := store.addUser("Stranger", models.RoleCoach)
	store.connect(friend, viewer, models.ConnectionAccepted)
	pending := store.addUser("Pending", models.RoleCoach)
	store.connect(viewer, pending, models.ConnectionPending)

	fromFriend := store.addPost(friend, time.Minute, models.VisibilityPublic)
	tennis := store.addPost(stranger, 2*time.Minute, models.VisibilityPublic, "Soccer", "Tennis")
	store.addPost(stranger, 3*time.Minute, models.VisibilityPublic, "Golf")
	store.addPost(pending, 4*time.Minute, models.VisibilityPublic)

	page, err := NewSelector(store, fixedNow).Select(context.Background(), Request{ViewerID: viewer.ID, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []string{fromFriend.ID.Hex(), tennis.ID.Hex()}, ids(page))
	require.EqualValues(t, 2, page.Pagination.Total)
}

func TestSelectPagination(t *testing.T) {
	store := newMemStore()
	viewer := store.addUser("Viewer", models.RoleAthlete)
	author := store.addUser("Author", models.RoleCoach)
	for i := 0; i < 5; i++ {
		store.addPost(author, time.Duration(i)*time.Minute, models.VisibilityPublic)
	}
	sel := NewSelector(store, fixedNow)

	tests := []struct {
		limit, offset int
		wantLen       int
		wantMore      bool
	}{
		{limit: 2, offset: 0, wantLen: 2, wantMore: true},
		{limit: 2, offset: 2, wantLen: 2, wantMore: true},
		{limit: 2, offset: 3, wantLen: 2, wantMore: false},
		{limit: 2, offset: 4, wantLen: 1, wantMore: false},
		{limit: 5, offset: 0, wantLen: 5, wantMore: false},
		{limit: 3, offset: 10, wantLen: 0, wantMore: false},
	}
	for _, tt := range tests {
		page, err := sel.Select(context.Background(), Request{ViewerID: viewer.ID, Limit: tt.limit, Offset: tt.offset})
		require.NoError(t, err)
		assert.Len(t, page.Posts, tt.wantLen, "limit=%d offset=%d", tt.limit, tt.offset)
		assert.Equal(t, tt.wantMore, page.Pagination.HasMore, "limit=%d offset=%d", tt.limit, tt.offset)
		assert.Equal(t, int64(tt.offset+tt.limit) < page.Pagination.Total, page.Pagination.HasMore)
		assert.NotNil(t, page.Posts)
	}
}

func TestSelectHugeOffsetHasNoMore(t *testing.T) {
	store := newMemStore()
	viewer := store.addUser("Viewer", models.RoleAthlete)
	store.addPost(store.addUser("Author", models.RoleCoach), 0, models.VisibilityPublic)
	sel := NewSelector(store, fixedNow)

	for _, offset := range []int{math.MaxInt - 5, math.MaxInt} {
		page, err := sel.Select(context.Background(), Request{ViewerID: viewer.ID, Limit: 20, Offset: offset})
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.Equal(t, int64(1), page.Pagination.Total)
		assert.False(t, page.Pagination.HasMore, "offset=%d", offset)
	}
}

func TestSelectIsRepeatable(t *testing.T) {
	store := newMemStore()
	viewer := store.addUser("Viewer", models.RoleAcademy)
	author := store.addUser("Author", models.RoleAthlete)
	for i := 0; i < 4; i++ {
		// identical timestamps exercise the id tie-break
		store.addPost(author, time.Hour, models.VisibilityPublic)
	}
	sel := NewSelector(store, fixedNow)
	req := Request{ViewerID: viewer.ID, Limit: 3, Offset: 1}

	first, err := sel.Select(context.Background(), req)
	require.NoError(t, err)
	second, err := sel.Select(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSelectFormatsItems(t *testing.T) {
	store := newMemStore()
	viewer := store.addUser("Viewer", models.RoleAthlete)
	author := store.addUser("marcus Trent", models.RoleCoach)
	withImage := store.addUser("Sarah", models.RoleAthlete)
	withImage.Image = "https://cdn.example/sarah.png"

	p := store.addPost(author, 5*time.Minute, models.VisibilityPublic, "Soccer")
	p.MediaURLs = []string{"https://cdn.example/clip.mp4"}
	store.addPost(withImage, 10*24*time.Hour, models.VisibilityPublic)

	other := primitive.NewObjectID()
	store.likes = append(store.likes,
		models.Like{PostID: p.ID, UserID: viewer.ID},
		models.Like{PostID: p.ID, UserID: other},
	)
	store.comments = append(store.comments, models.Comment{PostID: p.ID, UserID: other})

	page, err := NewSelector(store, fixedNow).Select(context.Background(), Request{ViewerID: viewer.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)

	first := page.Posts[0]
	assert.Equal(t, Author{ID: author.ID.Hex(), Name: "marcus Trent", Role: models.RoleCoach, Avatar: "M"}, first.Author)
	assert.Equal(t, "5m ago", first.Timestamp)
	assert.Equal(t, 2, first.Likes)
	assert.Equal(t, 1, first.Comments)
	assert.True(t, first.IsLiked)
	assert.Equal(t, []string{"Soccer"}, first.SportsTags)
	assert.Equal(t, []string{"https://cdn.example/clip.mp4"}, first.MediaURLs)

	second := page.Posts[1]
	assert.Equal(t, "https://cdn.example/sarah.png", second.Author.Avatar)
	assert.Equal(t, "3/10/2024", second.Timestamp)
	assert.False(t, second.IsLiked)
	assert.Equal(t, []string{}, second.SportsTags)
	assert.Equal(t, []string{}, second.MediaURLs)
}

func TestSelectErrors(t *testing.T) {
	store := newMemStore()
	viewer := store.addUser("Viewer", models.RoleAthlete)
	sel := NewSelector(store, fixedNow)
	ctx := context.Background()

	_, err := sel.Select(ctx, Request{Limit: 20})
	require.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	_, err = sel.Select(ctx, Request{ViewerID: primitive.NewObjectID(), Limit: 20})
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = sel.Select(ctx, Request{ViewerID: viewer.ID, Limit: 0})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = sel.Select(ctx, Request{ViewerID: viewer.ID, Limit: 5, Offset: -1})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	store.err = apperrors.Unavailable(errors.New("no reachable servers"))
	_, err = sel.Select(ctx, Request{ViewerID: viewer.ID, Limit: 5})
	require.Equal(t, apperrors.KindUnavailable, apperrors.KindOf(err))
}

func TestParseView(t *testing.T) {
	assert.Equal(t, ViewPosts, ParseView(""))
	assert.Equal(t, ViewEvents, ParseView("events"))
	assert.Equal(t, ViewPeople, ParseView("people"))
}
