package otp

import (
	"context"
	"log"
	"strings"
	"time"

	"gameon/apperrors"
	"gameon/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MsgEmailRequired = "Email is required"
	MsgEmailAndCode  = "Email and OTP are required"
	MsgUserNotFound  = "User not found"
	MsgNoneRequested = "No OTP requested"
	MsgExpired       = "OTP has expired"
	MsgInvalid       = "Invalid OTP"
	MsgSuspended     = "This account has been suspended"
)

type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetOTP(ctx context.Context, userID primitive.ObjectID, hash string, expiry time.Time) error
	// CompleteVerification clears the code and marks the user verified.
	CompleteVerification(ctx context.Context, userID primitive.ObjectID, at time.Time) error
}

type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
}

// Service issues codes and verifies them. A failed verification never
// changes stored state, and attempts are not counted.
type Service struct {
	store  Store
	sender Sender
	now    func() time.Time
}

func NewService(store Store, sender Sender, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, sender: sender, now: now}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Send stores a fresh code for the user, replacing any pending one, and
// emails it.
func (s *Service) Send(ctx context.Context, email string) error {
	email = normalize(email)
	if email == "" {
		return apperrors.Validation(MsgEmailRequired, map[string]string{"email": MsgEmailRequired})
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound(MsgUserNotFound)
	}

	code, err := Generate(nil)
	if err != nil {
		return apperrors.Internal(err)
	}
	hash, err := Hash(code)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := s.store.SetOTP(ctx, user.ID, hash, s.now().Add(TTL)); err != nil {
		return err
	}

	if err := s.sender.SendOTP(ctx, email, code); err != nil {
		return apperrors.Internal(err)
	}
	log.Printf("[OTP] Code sent to %s", email)
	return nil
}

// Verify checks code against the user's pending code and, on success, marks
// the email verified.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	email = normalize(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return apperrors.Validation(MsgEmailAndCode, nil)
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound(MsgUserNotFound)
	}
	if !user.HasPendingOTP() {
		return apperrors.Validation(MsgNoneRequested, nil)
	}
	if user.Status == models.StatusSuspended {
		return apperrors.Unauthenticated(MsgSuspended)
	}

	now := s.now()
	if now.After(*user.OTPExpiry) {
		return apperrors.Validation(MsgExpired, nil)
	}
	if !Compare(*user.OTPHash, code) {
		return apperrors.Validation(MsgInvalid, nil)
	}

	if err := s.store.CompleteVerification(ctx, user.ID, now.UTC()); err != nil {
		return err
	}
	log.Printf("[OTP] Email verified: %s", email)
	return nil
}
