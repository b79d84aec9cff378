package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"gameon/apperrors"
	"gameon/auth"

	"github.com/gin-gonic/gin"
)

const (
	stateCookie    = "oauth_state"
	stateCookieAge = 600
)

var errGoogleDisabled = errors.New("google oauth not configured")

type GoogleCredentialRequest struct {
	Credential string `json:"credential"`
}

func (h *Handler) googleEnabled(c *gin.Context) bool {
	if h.Google == nil {
		fail(c, "Google", apperrors.Unavailable(errGoogleDisabled).WithCode("OAUTH_NOT_CONFIGURED"))
		return false
	}
	return true
}

// GoogleAuthURL starts the authorization code flow. The state is echoed
// back to the callback through a short-lived cookie.
func (h *Handler) GoogleAuthURL(c *gin.Context) {
	if !h.googleEnabled(c) {
		return
	}
	state := auth.NewState()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieAge, "/api/auth/google", "", h.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"url": h.Google.AuthCodeURL(state)})
}

func (h *Handler) GoogleCallback(c *gin.Context) {
	if !h.googleEnabled(c) {
		return
	}

	want, err := c.Cookie(stateCookie)
	got := c.Query("state")
	if err != nil || got == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		fail(c, "Google", apperrors.Unauthenticated("Invalid OAuth state"))
		return
	}
	// single use
	c.SetCookie(stateCookie, "", -1, "/api/auth/google", "", h.SecureCookies, true)

	code := c.Query("code")
	if code == "" {
		fail(c, "Google", apperrors.Validation("Authorization code missing", nil))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := h.Google.Exchange(ctx, code)
	if err != nil {
		fail(c, "Google", err)
		return
	}
	h.signInOAuth(c, id)
}

// GoogleCredential signs in with a Google Identity Services ID token.
func (h *Handler) GoogleCredential(c *gin.Context) {
	if !h.googleEnabled(c) {
		return
	}
	var req GoogleCredentialRequest
	if !bindJSON(c, "Google", &req) {
		return
	}
	if req.Credential == "" {
		fail(c, "Google", apperrors.Validation("Google credential is required", map[string]string{"credential": "Google credential is required"}))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := h.Google.VerifyIDToken(ctx, req.Credential)
	if err != nil {
		fail(c, "Google", err)
		return
	}
	h.signInOAuth(c, id)
}

func (h *Handler) signInOAuth(c *gin.Context, id auth.OAuthIdentity) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.Authenticator.Resolve(ctx, id)
	if err != nil {
		fail(c, "Google", err)
		return
	}
	h.issue(c, "Google", user)
}
