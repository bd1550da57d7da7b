package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/filevault/filevault-server/internal/filecrypt"
	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
)

// AllowedExtensions lists the upload file types accepted by the service.
var AllowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".pdf":  {},
	".txt":  {},
	".docx": {},
}

// File manages uploads and downloads. Files are stored under
// encrypt(basename) + original extension so a requested name can be located
// on disk by re-encrypting it, without a database of filenames.
type File struct {
	storage model.Storage
	cipher  *filecrypt.Cipher
	audit   *Audit
	logger  *logger.Logger
	maxSize int64
}

// NewFile creates a new File service.
func NewFile(
	storage model.Storage,
	cipher *filecrypt.Cipher,
	audit *Audit,
	logger *logger.Logger,
	maxSize int64,
) *File {
	return &File{
		storage: storage,
		cipher:  cipher,
		audit:   audit,
		logger:  logger,
		maxSize: maxSize,
	}
}

// storedKey maps an original filename to its storage key.
func (s *File) storedKey(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	token, err := s.cipher.EncryptName(base)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt filename: %w", err)
	}
	return token + ext, nil
}

// Upload validates and stores a file under its encrypted name. An upload
// whose encrypted name is already present is rejected.
func (s *File) Upload(ctx context.Context, userID uuid.UUID, filename string, size int64, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return "", model.ErrFileTypeNotAllowed
	}
	if size > s.maxSize {
		return "", model.ErrFileTooLarge
	}

	key, err := s.storedKey(filename)
	if err != nil {
		return "", err
	}

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to check file existence: %w", err)
	}
	if exists {
		return "", model.ErrDuplicateFile
	}

	if err := s.storage.Upload(ctx, key, reader); err != nil {
		return "", err
	}

	s.audit.Record(ctx, userID, "Upload", "File Uploaded",
		fmt.Sprintf("File %s uploaded successfully", key))

	s.logger.Info("File service: file uploaded", "user_id", userID, "key", key)

	return key, nil
}

// Download locates a file by re-encrypting the requested name and returns
// its content.
func (s *File) Download(ctx context.Context, userID uuid.UUID, filename string) (io.ReadCloser, error) {
	key, err := s.storedKey(filename)
	if err != nil {
		return nil, err
	}

	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrFileNotFound) || errors.Is(err, model.ErrPathTraversal) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	s.audit.Record(ctx, userID, "Download", "File Downloaded",
		fmt.Sprintf("File %s downloaded", key))

	return reader, nil
}

// List returns the original names of all stored files, sorted. Keys whose
// name part does not decrypt under the current secret are skipped.
func (s *File) List(ctx context.Context) ([]string, error) {
	keys, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	names := make([]string, 0, len(keys))
	for _, key := range keys {
		ext := filepath.Ext(key)
		name, err := s.cipher.DecryptName(strings.TrimSuffix(key, ext))
		if err != nil {
			s.logger.Warn("File service: skipping undecryptable key", "key", key)
			continue
		}
		names = append(names, name+ext)
	}
	sort.Strings(names)

	return names, nil
}
