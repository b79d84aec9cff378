package auth

import (
	"context"
	"errors"
	"time"

	"gameon/apperrors"
	"gameon/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MsgInvalidSession = "Invalid or expired session"

// Claims is the payload of a session token.
type Claims struct {
	UserID              string      `json:"userId"`
	Email               string      `json:"email"`
	Role                models.Role `json:"role"`
	OnboardingCompleted bool        `json:"onboardingCompleted"`
	jwt.RegisteredClaims
}

// ObjectID returns UserID as an ObjectID.
func (c *Claims) ObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.UserID)
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserFinder interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// SessionIssuer signs and verifies HS256 session tokens.
type SessionIssuer struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

func NewSessionIssuer(secret string, maxAge time.Duration, now func() time.Time) *SessionIssuer {
	if now == nil {
		now = time.Now
	}
	return &SessionIssuer{secret: []byte(secret), maxAge: maxAge, now: now}
}

func (s *SessionIssuer) Issue(u *models.User) (Session, error) {
	now := s.now()
	expires := now.Add(s.maxAge)
	claims := Claims{
		UserID:              u.ID.Hex(),
		Email:               u.Email,
		Role:                u.Role,
		OnboardingCompleted: u.OnboardingCompleted,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, apperrors.Internal(err)
	}
	// NumericDate truncates to seconds
	return Session{Token: token, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

// Parse verifies token and returns its claims.
func (s *SessionIssuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, &apperrors.Error{Kind: apperrors.KindUnauthenticated, Message: MsgInvalidSession, Err: err}
	}
	if _, err := claims.ObjectID(); err != nil {
		return nil, &apperrors.Error{Kind: apperrors.KindUnauthenticated, Message: MsgInvalidSession, Err: err}
	}
	return claims, nil
}

// Refresh re-reads the session's user and issues a token reflecting its
// current role and onboarding state.
func (s *SessionIssuer) Refresh(ctx context.Context, users UserFinder, claims *Claims) (*models.User, Session, error) {
	id, err := claims.ObjectID()
	if err != nil {
		return nil, Session{}, apperrors.Unauthenticated(MsgInvalidSession)
	}
	user, err := users.FindUserByID(ctx, id)
	if err != nil {
		return nil, Session{}, err
	}
	if user == nil || user.Status == models.StatusSuspended {
		return nil, Session{}, apperrors.Unauthenticated(MsgInvalidSession)
	}
	sess, err := s.Issue(user)
	if err != nil {
		return nil, Session{}, err
	}
	return user, sess, nil
}

// IsExpired reports whether err is a session rejected only for age.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
