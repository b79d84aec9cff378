package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"gameon/account"
	"gameon/apperrors"
	"gameon/auth"
	"gameon/feed"
	"gameon/media"
	"gameon/middleware"
	"gameon/otp"

	"github.com/gin-gonic/gin"
)

// GoogleSignIn is the Google side of OAuth sign-in.
type GoogleSignIn interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (auth.OAuthIdentity, error)
	VerifyIDToken(ctx context.Context, credential string) (auth.OAuthIdentity, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the handlers call. Google may be nil when OAuth is
// not configured.
type Deps struct {
	Feed          *feed.Selector
	Registrar     *account.Registrar
	Authenticator *auth.Authenticator
	Sessions      *auth.SessionIssuer
	Users         auth.UserFinder
	Google        GoogleSignIn
	OTP           *otp.Service
	Onboarding    *account.Onboarding
	Connections   *account.Connections
	Posts         *account.Posts
	Avatars       *media.Avatars
	DB            Pinger

	FeedDefaultLimit int
	FeedMaxLimit     int
	RequestTimeout   time.Duration
	SecureCookies    bool
}

type Handler struct {
	Deps
}

func New(d Deps) *Handler {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 10 * time.Second
	}
	return &Handler{Deps: d}
}

// requestContext bounds the work done for one request.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.RequestTimeout)
}

// fail logs unexpected errors under tag and writes the error envelope.
func fail(c *gin.Context, tag string, err error) {
	failWith(c, tag, err, "")
}

func failWith(c *gin.Context, tag string, err error, details string) {
	switch apperrors.KindOf(err) {
	case apperrors.KindInternal, apperrors.KindUnavailable:
		log.Printf("[%s] %s %s: %v", tag, c.Request.Method, c.Request.URL.Path, err)
	default:
		details = ""
	}
	env := apperrors.Format(err, time.Now())
	env.Details = details
	c.AbortWithStatusJSON(env.StatusCode, env)
}

// bindJSON decodes the request body into v, writing a validation error on
// malformed input.
func bindJSON(c *gin.Context, tag string, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		fail(c, tag, apperrors.Validation("Invalid request body", nil))
		return false
	}
	return true
}

// currentUser returns the session claims set by the auth middleware.
func currentUser(c *gin.Context) (claims *auth.Claims, ok bool) {
	claims, ok = middleware.Claims(c)
	if !ok {
		fail(c, "Auth", apperrors.Unauthenticated("Unauthorized"))
	}
	return claims, ok
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		log.Printf("[Health] Database ping failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "degraded",
			"database": "unreachable",
			"time":     time.Now().Unix(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "connected",
		"google":   h.Google != nil,
		"time":     time.Now().Unix(),
	})
}
