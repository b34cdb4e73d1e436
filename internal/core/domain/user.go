package domain

import (
	"errors"
	"fmt"
	"time"
)

// Canonical role names. The set is seeded at startup and never grows at
// registration time.
const (
	RoleFreelancer    = "Freelancer"
	RoleClient        = "Client"
	RoleAdministrator = "Administrator"
)

// SeededRoles is the fixed role set reconciled once during process start.
var SeededRoles = []string{RoleFreelancer, RoleClient, RoleAdministrator}

var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidLogin        = errors.New("invalid login attempt")
	ErrEmptyUpload         = errors.New("no file uploaded")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file size exceeds the limit")
)

// RoleNotFoundError reports a registration against a role that was never
// seeded. The user record already exists by the time this is returned.
type RoleNotFoundError struct {
	Role string
}

func (e *RoleNotFoundError) Error() string {
	return fmt.Sprintf("role '%s' does not exist", e.Role)
}

// User models a marketplace account. Email doubles as the username.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Country      string    `json:"country"`
	Bio          string    `json:"bio"`
	BioTitle     string    `json:"bio_title"`
	AvatarPath   string    `json:"avatar_path,omitempty"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
