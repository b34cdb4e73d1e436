package ports

import (
	"context"
	"io"
	"time"

	"github.com/talentlink/identity-api/internal/core/domain"
)

// RegisterInput carries the registration form fields. Role is optional;
// an empty value falls back to the default client role.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Country   string
	Bio       string
	BioTitle  string
	Role      string
}

type AuthService interface {
	// Register creates the user and assigns the effective role. It returns
	// the created user and the role name that was assigned.
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	// Profile resolves the full user record behind an authenticated subject.
	Profile(ctx context.Context, email string) (*domain.User, error)
}

// AvatarUpload is an uploaded file as received from the HTTP layer.
type AvatarUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type AvatarService interface {
	// Upload validates and persists the file, then points the user record
	// at it. Returns the relative path stored on the user.
	Upload(ctx context.Context, userID string, upload AvatarUpload) (string, error)
}

// TokenRegistry tracks identifiers of issued tokens for their lifetime.
type TokenRegistry interface {
	Record(ctx context.Context, jti string, ttl time.Duration) error
	IsKnown(ctx context.Context, jti string) (bool, error)
}

// FileStore abstracts the backing storage for uploaded avatars.
type FileStore interface {
	Save(name string, content io.Reader) error
	Remove(name string) error
}
