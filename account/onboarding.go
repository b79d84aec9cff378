package account

import (
	"context"
	"strings"

	"gameon/apperrors"
	"gameon/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PreferencesStore interface {
	// SetInterests stores interests, marks onboarding complete and returns
	// the updated user, or nil when the user does not exist.
	SetInterests(ctx context.Context, userID primitive.ObjectID, interests []string) (*models.User, error)
}

type Onboarding struct {
	store PreferencesStore
}

func NewOnboarding(store PreferencesStore) *Onboarding {
	return &Onboarding{store: store}
}

// SetSportsPreferences completes onboarding with the chosen sports.
func (o *Onboarding) SetSportsPreferences(ctx context.Context, userID primitive.ObjectID, sports []string) (*models.User, error) {
	return o.set(ctx, userID, "sports", "At least one sport must be selected", sports)
}

// SetInterests is the same update reached from the profile screen.
func (o *Onboarding) SetInterests(ctx context.Context, userID primitive.ObjectID, interests []string) (*models.User, error) {
	return o.set(ctx, userID, "interests", "At least one interest must be selected.", interests)
}

func (o *Onboarding) set(ctx context.Context, userID primitive.ObjectID, field, emptyMsg string, values []string) (*models.User, error) {
	cleaned, ok := cleanList(values)
	if !ok {
		return nil, apperrors.Validation(emptyMsg, map[string]string{field: emptyMsg})
	}

	user, err := o.store.SetInterests(ctx, userID, cleaned)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

// cleanList trims and de-duplicates values, keeping first occurrences. It
// fails on an empty list or any blank entry.
func cleanList(values []string) ([]string, bool) {
	if len(values) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, false
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, true
}
