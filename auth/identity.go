// Package auth resolves sign-in identities to users and issues the signed
// session tokens that authenticate later requests.
package auth

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gameon/apperrors"
	"gameon/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MsgAccountNotLinked is returned when a provider sign-in matches an account
// it may not take over.
const MsgAccountNotLinked = "This email is already registered with a different sign-in method"

// Identity is what a sign-in attempt claims to be. It is either a
// CredentialsIdentity or an OAuthIdentity.
type Identity interface {
	identity()
}

type CredentialsIdentity struct {
	Email    string
	Password string
}

// OAuthIdentity is a profile asserted by an external provider.
type OAuthIdentity struct {
	Provider      string
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

func (CredentialsIdentity) identity() {}
func (OAuthIdentity) identity()       {}

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateUser inserts the user and its profile atomically.
	CreateUser(ctx context.Context, u *models.User, p models.Profile) error
	LinkProvider(ctx context.Context, userID primitive.ObjectID, subject, picture string) (*models.User, error)
}

type Authenticator struct {
	store UserStore
	now   func() time.Time
}

func NewAuthenticator(store UserStore, now func() time.Time) *Authenticator {
	if now == nil {
		now = time.Now
	}
	return &Authenticator{store: store, now: now}
}

// Resolve returns the user an identity signs in as. Credential failures of
// every kind produce the same Unauthenticated error.
func (a *Authenticator) Resolve(ctx context.Context, id Identity) (*models.User, error) {
	switch v := id.(type) {
	case CredentialsIdentity:
		return a.resolveCredentials(ctx, v)
	case OAuthIdentity:
		return a.resolveOAuth(ctx, v)
	}
	return nil, apperrors.Internal(fmt.Errorf("auth: unsupported identity %T", id))
}

func (a *Authenticator) resolveCredentials(ctx context.Context, id CredentialsIdentity) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" || id.Password == "" {
		log.Printf("[Auth] Missing credentials")
		return nil, apperrors.Unauthenticated(apperrors.MsgInvalidCredentials)
	}

	user, err := a.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	switch {
	case user == nil || user.PasswordHash == nil:
		log.Printf("[Auth] Invalid login: %s", email)
	case !ComparePassword(*user.PasswordHash, id.Password):
		log.Printf("[Auth] Wrong password: %s", email)
	case user.Status == models.StatusSuspended:
		log.Printf("[Auth] Suspended account: %s", email)
	default:
		return user, nil
	}
	return nil, apperrors.Unauthenticated(apperrors.MsgInvalidCredentials)
}

func (a *Authenticator) resolveOAuth(ctx context.Context, id OAuthIdentity) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" || id.Subject == "" {
		return nil, apperrors.Unauthenticated("Email not provided by " + providerName(id.Provider))
	}

	user, err := a.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	created := false
	if user == nil {
		user, created, err = a.createOAuthUser(ctx, email, id)
		if err != nil {
			return nil, err
		}
	}

	if user.Status == models.StatusSuspended {
		log.Printf("[Auth] Suspended account: %s", email)
		return nil, apperrors.Unauthenticated("This account has been suspended")
	}

	linked := user.GoogleID != nil && *user.GoogleID == id.Subject
	if !created && !linked {
		// an existing account is only linked to a provider that vouches for
		// the address, and never relinked to a different subject
		if !id.EmailVerified || user.GoogleID != nil {
			log.Printf("[Auth] Refused to link %s account: %s", providerName(id.Provider), email)
			return nil, apperrors.Unauthenticated(MsgAccountNotLinked)
		}
	}
	adopt := user.Image == "" && id.Picture != ""
	if linked && !adopt {
		return user, nil
	}
	picture := ""
	if adopt {
		picture = id.Picture
	}
	updated, err := a.store.LinkProvider(ctx, user.ID, id.Subject, picture)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return updated, nil
}

// createOAuthUser reports created=false when another sign-in created the
// account first.
func (a *Authenticator) createOAuthUser(ctx context.Context, email string, id OAuthIdentity) (*models.User, bool, error) {
	now := a.now().UTC()
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	subject := id.Subject
	user := &models.User{
		ID:                  primitive.NewObjectID(),
		Email:               email,
		Name:                name,
		Role:                models.RoleAthlete,
		Status:              models.StatusActive,
		Image:               id.Picture,
		AuthProvider:        id.Provider,
		GoogleID:            &subject,
		Interests:           []string{},
		OnboardingCompleted: false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if id.EmailVerified {
		user.EmailVerified = &now
	}

	err := a.store.CreateUser(ctx, user, models.NewProfileFor(user))
	if apperrors.KindOf(err) == apperrors.KindConflict {
		// created concurrently by another sign-in
		existing, ferr := a.store.FindUserByEmail(ctx, email)
		if ferr != nil {
			return nil, false, ferr
		}
		if existing != nil {
			return existing, false, nil
		}
	}
	if err != nil {
		return nil, false, err
	}
	log.Printf("[Auth] New %s user: %s", id.Provider, email)
	return user, true, nil
}

func providerName(p string) string {
	if p == models.ProviderGoogle {
		return "Google"
	}
	return "provider"
}
