package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talentlink/identity-api/internal/core/domain"
	"github.com/talentlink/identity-api/internal/core/ports"
)

// DefaultMaxAvatarBytes is the upload size cap applied when the config
// leaves it unset.
const DefaultMaxAvatarBytes = 4 * 1024 * 1024

var allowedAvatarExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// AvatarService validates uploaded avatars, writes them to the file store
// and points the owning user record at the stored file.
type AvatarService struct {
	users    ports.UserRepository
	store    ports.FileStore
	maxBytes int64
	log      zerolog.Logger
}

func NewAvatarService(users ports.UserRepository, store ports.FileStore, maxBytes int64, log zerolog.Logger) *AvatarService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAvatarBytes
	}
	return &AvatarService{
		users:    users,
		store:    store,
		maxBytes: maxBytes,
		log:      log,
	}
}

// Upload runs the checks in a fixed order: presence, extension, size. The
// file is written under a fresh unique name before the user lookup; if the
// user is missing or the record update fails, the written file is removed
// again so no orphan stays behind.
func (s *AvatarService) Upload(ctx context.Context, userID string, upload ports.AvatarUpload) (string, error) {
	if upload.Content == nil || upload.Size == 0 {
		return "", domain.ErrEmptyUpload
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if _, ok := allowedAvatarExtensions[ext]; !ok {
		return "", domain.ErrUnsupportedFileType
	}

	if upload.Size > s.maxBytes {
		return "", domain.ErrFileTooLarge
	}

	name := uuid.NewString() + ext
	if err := s.store.Save(name, upload.Content); err != nil {
		return "", err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.removeStored(name)
		return "", err
	}

	path := "/uploads/" + name
	if err := s.users.SetAvatarPath(ctx, user.ID, path); err != nil {
		s.removeStored(name)
		return "", err
	}

	return path, nil
}

// removeStored compensates a failed upload. Best-effort: a crash between
// write and remove still leaves an orphan.
func (s *AvatarService) removeStored(name string) {
	if err := s.store.Remove(name); err != nil {
		s.log.Warn().Err(err).Str("file", name).Msg("failed to remove orphaned avatar")
	}
}
