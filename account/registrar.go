// Package account holds the account lifecycle outside sign-in: registration,
// onboarding preferences, connections and authored posts.
package account

import (
	"context"
	"log"
	"strings"
	"time"

	"gameon/apperrors"
	"gameon/auth"
	"gameon/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MsgEmailTaken = "An account with this email already exists"

// Tx is the set of writes available inside a registration transaction.
type Tx interface {
	InsertUser(ctx context.Context, u *models.User) error
	InsertProfile(ctx context.Context, p models.Profile) error
}

type RegistrationStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// WithTransaction commits every write fn makes through tx, or none of
	// them when fn returns an error.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type SignupInput struct {
	Name        string      `json:"name" validate:"required,min=2"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=8,haslower,hasupper,hasdigit"`
	Role        models.Role `json:"role" validate:"required,oneof=ATHLETE COACH ACADEMY"`
	DateOfBirth string      `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02,min_age=13"`
	Phone       string      `json:"phone" validate:"omitempty,phone"`
}

var signupMessages = messages{
	"name":                "Name must be at least 2 characters",
	"email":               "Invalid email address",
	"password.required":   "Password is required",
	"password.min":        "Password must be at least 8 characters",
	"password.haslower":   "Password must contain at least one lowercase letter",
	"password.hasupper":   "Password must contain at least one uppercase letter",
	"password.hasdigit":   "Password must contain at least one number",
	"role":                "Role must be one of ATHLETE, COACH, ACADEMY",
	"dateOfBirth.min_age": "You must be at least 13 years old",
	"dateOfBirth":         "Invalid date of birth",
	"phone":               "Invalid phone number format",
}

func (in *SignupInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
}

// NormalizeEmail lower-cases and trims an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Registrar struct {
	store    RegistrationStore
	validate *validator.Validate
	now      func() time.Time
}

func NewRegistrar(store RegistrationStore, now func() time.Time) *Registrar {
	if now == nil {
		now = time.Now
	}
	return &Registrar{store: store, validate: newValidator(now), now: now}
}

// Register creates a credentials account and its default role profile.
func (r *Registrar) Register(ctx context.Context, in SignupInput) (*models.User, error) {
	in.normalize()
	if err := r.validate.Struct(&in); err != nil {
		return nil, validationError(err, signupMessages)
	}

	existing, err := r.store.FindUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict(MsgEmailTaken)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := r.now().UTC()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		Status:       models.StatusActive,
		AuthProvider: models.ProviderCredentials,
		PasswordHash: &hash,
		// Credentials accounts are treated as verified at creation.
		EmailVerified: &now,
		Interests:     []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Phone != "" {
		user.Phone = &in.Phone
	}
	if in.DateOfBirth != "" {
		dob, _ := time.Parse(dateLayout, in.DateOfBirth)
		user.DateOfBirth = &dob
	}

	err = r.store.WithTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.InsertUser(ctx, user); err != nil {
			return err
		}
		return tx.InsertProfile(ctx, models.NewProfileFor(user))
	})
	if apperrors.KindOf(err) == apperrors.KindConflict {
		// lost a race with a concurrent registration of the same email
		return nil, apperrors.Conflict(MsgEmailTaken)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[Register] New user registered: %s (%s)", user.Email, user.Role)
	return user, nil
}
