package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAthlete Role = "ATHLETE"
	RoleCoach   Role = "COACH"
	RoleAcademy Role = "ACADEMY"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAthlete, RoleCoach, RoleAcademy:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusVerified  Status = "VERIFIED"
	StatusPending   Status = "PENDING"
)

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	Role         Role               `bson:"role" json:"role"`
	Status       Status             `bson:"status" json:"status"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	Phone        *string            `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth  *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	AuthProvider string             `bson:"authProvider" json:"authProvider"`

	// Authentication material, never serialized to clients.
	PasswordHash *string `bson:"passwordHash,omitempty" json:"-"`
	GoogleID     *string `bson:"googleId,omitempty" json:"-"`

	EmailVerified       *time.Time `bson:"emailVerified,omitempty" json:"emailVerified,omitempty"`
	Interests           []string   `bson:"interests" json:"interests"`
	OnboardingCompleted bool       `bson:"onboardingCompleted" json:"onboardingCompleted"`

	// Cleared once the code is verified.
	OTPHash   *string    `bson:"otpHash,omitempty" json:"-"`
	OTPExpiry *time.Time `bson:"otpExpiry,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasPendingOTP reports whether both OTP fields are set.
func (u *User) HasPendingOTP() bool {
	return u.OTPHash != nil && u.OTPExpiry != nil
}
