package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"gameon/account"
	"gameon/apperrors"
	"gameon/feed"
	"gameon/middleware"

	"github.com/gin-gonic/gin"
)

const msgFeedFailed = "Failed to fetch feed"

// GetFeed returns the viewer's personalized feed page.
func (h *Handler) GetFeed(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	limit, err := queryInt(c, "limit", h.FeedDefaultLimit)
	if err != nil || limit < 1 || limit > h.FeedMaxLimit {
		msg := fmt.Sprintf("limit must be an integer between 1 and %d", h.FeedMaxLimit)
		fail(c, "Feed", apperrors.Validation(msg, map[string]string{"limit": msg}))
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		msg := "offset must be a non-negative integer"
		fail(c, "Feed", apperrors.Validation(msg, map[string]string{"offset": msg}))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	page, err := h.Feed.Select(ctx, feed.Request{
		ViewerID: middleware.UserID(c),
		View:     feed.ParseView(c.Query("view")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		failWith(c, "Feed", err, msgFeedFailed)
		return
	}
	c.JSON(http.StatusOK, page)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (h *Handler) CreatePost(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req account.PostInput
	if !bindJSON(c, "Post", &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	post, err := h.Posts.Create(ctx, middleware.UserID(c), req)
	if err != nil {
		fail(c, "Post", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}
