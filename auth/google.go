package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"gameon/apperrors"
	"gameon/models"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleProvider turns Google sign-ins, either an authorization code or a
// Google Identity Services ID token, into OAuthIdentity values.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
	validate    func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
		validate:    idtoken.Validate,
	}
}

// NewState returns an unguessable value for the OAuth state parameter.
func NewState() string {
	return uuid.NewString()
}

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for the signed-in Google profile.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (OAuthIdentity, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		log.Printf("[Auth] Google token exchange failed: %v", err)
		return OAuthIdentity{}, apperrors.Unauthenticated("Failed to exchange authorization code")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return OAuthIdentity{}, apperrors.Internal(err)
	}
	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return OAuthIdentity{}, apperrors.Unavailable(fmt.Errorf("google userinfo: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[Auth] Google userinfo returned %d: %s", resp.StatusCode, body)
		return OAuthIdentity{}, apperrors.Unauthenticated("Failed to get user information")
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return OAuthIdentity{}, apperrors.Internal(fmt.Errorf("google userinfo: %w", err))
	}
	return OAuthIdentity{
		Provider:      models.ProviderGoogle,
		Subject:       info.ID,
		Email:         info.Email,
		Name:          info.Name,
		Picture:       info.Picture,
		EmailVerified: info.VerifiedEmail,
	}, nil
}

// VerifyIDToken checks a Google ID token's signature and audience.
func (g *GoogleProvider) VerifyIDToken(ctx context.Context, credential string) (OAuthIdentity, error) {
	payload, err := g.validate(ctx, credential, g.config.ClientID)
	if err != nil {
		log.Printf("[Auth] Google credential rejected: %v", err)
		return OAuthIdentity{}, &apperrors.Error{Kind: apperrors.KindUnauthenticated, Message: "Invalid Google credential", Err: err}
	}
	verified, _ := payload.Claims["email_verified"].(bool)
	return OAuthIdentity{
		Provider:      models.ProviderGoogle,
		Subject:       payload.Subject,
		Email:         stringClaim(payload.Claims, "email"),
		Name:          stringClaim(payload.Claims, "name"),
		Picture:       stringClaim(payload.Claims, "picture"),
		EmailVerified: verified,
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
