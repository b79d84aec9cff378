// Package media stores user-uploaded images.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gameon/apperrors"
	"gameon/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	avatarFolder         = "gameon/avatars"
	avatarTransformation = "c_limit,w_400,h_400,q_auto"

	// MaxAvatarBytes bounds an avatar upload.
	MaxAvatarBytes = 5 << 20
)

var ErrNotConfigured = errors.New("media: uploads are not configured")

type Uploader interface {
	// UploadAvatar stores the image under the user's id and returns its
	// public https URL.
	UploadAvatar(ctx context.Context, userID string, file io.Reader) (string, error)
}

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(url string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) UploadAvatar(ctx context.Context, userID string, file io.Reader) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         avatarFolder,
		PublicID:       userID,
		Overwrite:      api.Bool(true),
		Invalidate:     api.Bool(true),
		Transformation: avatarTransformation,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// Disabled rejects every upload. It stands in when no media backend is
// configured.
type Disabled struct{}

func (Disabled) UploadAvatar(context.Context, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

type ImageStore interface {
	SetImage(ctx context.Context, userID primitive.ObjectID, url string) (*models.User, error)
}

// Avatars replaces a user's profile image.
type Avatars struct {
	uploader Uploader
	store    ImageStore
}

func NewAvatars(u Uploader, store ImageStore) *Avatars {
	return &Avatars{uploader: u, store: store}
}

func (a *Avatars) Replace(ctx context.Context, userID primitive.ObjectID, file io.Reader) (*models.User, error) {
	url, err := a.uploader.UploadAvatar(ctx, userID.Hex(), file)
	if errors.Is(err, ErrNotConfigured) {
		return nil, apperrors.Unavailable(err)
	}
	if err != nil {
		log.Printf("[Media] Avatar upload failed for %s: %v", userID.Hex(), err)
		return nil, apperrors.Internal(err)
	}

	user, err := a.store.SetImage(ctx, userID, url)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}
