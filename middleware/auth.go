package middleware

import (
	"net/http"
	"strings"
	"time"

	"gameon/apperrors"
	"gameon/auth"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	claimsKey = "claims"
	userIDKey = "userId"
)

type SessionParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid session token. The token is read
// from a Bearer Authorization header, or from the token query parameter
// when no header is sent.
func Auth(sessions SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		// CORS preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			token := c.Query("token")
			if token == "" {
				Abort(c, apperrors.Unauthenticated("Authentication required"))
				return
			}
			header = "Bearer " + token
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || token == "" {
			Abort(c, apperrors.Unauthenticated("Format should be: Bearer <token>"))
			return
		}

		claims, err := sessions.Parse(token)
		if err != nil {
			if auth.IsExpired(err) {
				Abort(c, apperrors.Unauthenticated("Session expired").WithCode("SESSION_EXPIRED"))
				return
			}
			Abort(c, err)
			return
		}

		// Parse guarantees a well-formed id
		id, _ := claims.ObjectID()
		c.Set(claimsKey, claims)
		c.Set(userIDKey, id)
		c.Next()
	}
}

// Claims returns the session claims stored by Auth.
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// UserID returns the authenticated user's id, or the zero id outside Auth.
func UserID(c *gin.Context) primitive.ObjectID {
	v, ok := c.Get(userIDKey)
	if !ok {
		return primitive.NilObjectID
	}
	id, _ := v.(primitive.ObjectID)
	return id
}

// Abort writes err as an error envelope and stops the handler chain.
func Abort(c *gin.Context, err error) {
	env := apperrors.Format(err, time.Now())
	c.AbortWithStatusJSON(env.StatusCode, env)
}
