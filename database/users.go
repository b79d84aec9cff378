package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gameon/account"
	"gameon/apperrors"
	"gameon/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	athleteProfiles = "athlete_profiles"
	coachProfiles   = "coach_profiles"
	academyProfiles = "academy_profiles"
)

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

// FindUserByEmail matches the stored, already normalized email exactly.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

// updateUser applies update to the user and returns the new document.
func (s *Store) updateUser(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

type mongoTx struct {
	db *mongo.Database
}

func (t mongoTx) InsertUser(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := t.db.Collection(UsersCollection).InsertOne(ctx, u)
	return classify(err)
}

func (t mongoTx) InsertProfile(ctx context.Context, p models.Profile) error {
	if p == nil {
		return fmt.Errorf("insert profile: no profile")
	}
	_, err := t.db.Collection(p.Collection()).InsertOne(ctx, p)
	return classify(err)
}

// WithTransaction runs fn inside a multi-document transaction; every write
// made through tx is committed together or not at all.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx account.Tx) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return classify(err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, mongoTx{db: s.db})
	})
	return classify(err)
}

// CreateUser inserts u together with its role profile.
func (s *Store) CreateUser(ctx context.Context, u *models.User, p models.Profile) error {
	return s.WithTransaction(ctx, func(ctx context.Context, tx account.Tx) error {
		if err := tx.InsertUser(ctx, u); err != nil {
			return err
		}
		if p == nil {
			return nil
		}
		return tx.InsertProfile(ctx, p)
	})
}

func (s *Store) SetOTP(ctx context.Context, userID primitive.ObjectID, hash string, expiry time.Time) error {
	res, err := s.users.UpdateByID(ctx, userID, bson.M{"$set": bson.M{
		"otpHash":   hash,
		"otpExpiry": expiry,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("User not found")
	}
	return nil
}

// verificationUpdate marks the email verified and clears the pending code.
// A suspended account keeps its status.
func verificationUpdate(at time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"status": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.StatusSuspended}},
				"$status",
				models.StatusVerified,
			}},
			"emailVerified": at,
			"updatedAt":     at,
		}}},
		{{Key: "$unset", Value: bson.A{"otpHash", "otpExpiry"}}},
	}
}

func (s *Store) CompleteVerification(ctx context.Context, userID primitive.ObjectID, at time.Time) error {
	res, err := s.users.UpdateByID(ctx, userID, verificationUpdate(at))
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("User not found")
	}
	return nil
}

func (s *Store) SetInterests(ctx context.Context, userID primitive.ObjectID, interests []string) (*models.User, error) {
	return s.updateUser(ctx, userID, bson.M{"$set": bson.M{
		"interests":           interests,
		"onboardingCompleted": true,
		"updatedAt":           time.Now().UTC(),
	}})
}

func (s *Store) SetImage(ctx context.Context, userID primitive.ObjectID, url string) (*models.User, error) {
	return s.updateUser(ctx, userID, bson.M{"$set": bson.M{
		"image":     url,
		"updatedAt": time.Now().UTC(),
	}})
}

// LinkProvider records the OAuth subject on the user, and the picture when
// one is given.
func (s *Store) LinkProvider(ctx context.Context, userID primitive.ObjectID, subject, picture string) (*models.User, error) {
	set := bson.M{
		"googleId":  subject,
		"updatedAt": time.Now().UTC(),
	}
	if picture != "" {
		set["image"] = picture
	}
	return s.updateUser(ctx, userID, bson.M{"$set": set})
}
