package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gameon/apperrors"
	"gameon/media"
	"gameon/middleware"

	"github.com/gin-gonic/gin"
)

type SportsPreferencesRequest struct {
	Sports []string `json:"sports"`
}

type InterestsRequest struct {
	Interests []string `json:"interests"`
}

// UpdateSportsPreferences finishes onboarding. The response carries a fresh
// session so the client sees onboardingCompleted without signing in again.
func (h *Handler) UpdateSportsPreferences(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req SportsPreferencesRequest
	if !bindJSON(c, "Preferences", &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.Onboarding.SetSportsPreferences(ctx, middleware.UserID(c), req.Sports)
	if err != nil {
		fail(c, "Preferences", err)
		return
	}
	sess, err := h.Sessions.Issue(user)
	if err != nil {
		fail(c, "Preferences", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Sports preferences saved successfully",
		"user":      user,
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
	})
}

func (h *Handler) UpdateInterests(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req InterestsRequest
	if !bindJSON(c, "Interests", &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.Onboarding.SetInterests(ctx, middleware.UserID(c), req.Interests)
	if err != nil {
		fail(c, "Interests", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Interests updated successfully", "user": user})
}

func (h *Handler) GetMe(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.Users.FindUserByID(ctx, middleware.UserID(c))
	if err != nil {
		fail(c, "Me", err)
		return
	}
	if user == nil {
		fail(c, "Me", apperrors.NotFound("User not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UploadAvatar replaces the caller's profile image with the multipart
// "avatar" file.
func (h *Handler) UploadAvatar(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxAvatarBytes+1<<20)
	fh, err := c.FormFile("avatar")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, "Avatar", apperrors.Validation("Image must be 5MB or smaller", map[string]string{"avatar": "Image must be 5MB or smaller"}))
			return
		}
		fail(c, "Avatar", apperrors.Validation("Avatar file is required", map[string]string{"avatar": "Avatar file is required"}))
		return
	}
	if fh.Size > media.MaxAvatarBytes {
		fail(c, "Avatar", apperrors.Validation("Image must be 5MB or smaller", map[string]string{"avatar": "Image must be 5MB or smaller"}))
		return
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		fail(c, "Avatar", apperrors.Validation("Only image files are allowed", map[string]string{"avatar": "Only image files are allowed"}))
		return
	}

	file, err := fh.Open()
	if err != nil {
		fail(c, "Avatar", apperrors.Internal(err))
		return
	}
	defer file.Close()

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.Avatars.Replace(ctx, middleware.UserID(c), file)
	if err != nil {
		fail(c, "Avatar", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
