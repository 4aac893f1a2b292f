package media

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store defines the interface for saving, retrieving, and deleting media
// assets addressed by paths relative to the media root.
type Store interface {
	// Save stores data from reader under relativeDir/filename.
	// returns the final relative path used and error
	Save(relativeDir string, filename string, data io.Reader) (string, error)
	// Get retrieves a reader for an asset
	Get(relativePath string) (io.ReadCloser, os.FileInfo, error)
	// Delete removes an asset
	Delete(relativePath string) error
	// GetFullPath returns the absolute filesystem path for a relative asset path
	GetFullPath(relativePath string) (string, error)
}

// ErrOutsideRoot is returned when a relative path resolves outside the media
// root. Callers must report it identically to a missing file.
var ErrOutsideRoot = errors.New("path resolves outside media root")

// ProfilePhotoDir builds the storage directory for a user's photo,
// namespaced by the owning user's ID: <subDir>/u<userID>.
func ProfilePhotoDir(subDir string, userID uint) string {
	return path.Join(subDir, fmt.Sprintf("u%d", userID))
}

// LocalStorage implements the Store interface using the local filesystem
type LocalStorage struct {
	basePath string // absolute path to the MEDIA_STORAGE_PATH
}

// NewLocalStorage creates a new local filesystem store
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath}, nil
}

// BasePath returns the absolute media root.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save data to the store under relativeDir/filename, creating the directory
// as needed. The write goes through a temporary file so a failed copy never
// leaves a truncated asset behind.
func (ls *LocalStorage) Save(relativeDir string, filename string, data io.Reader) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty for LocalStorage.Save")
	}

	relativePath := path.Join(relativeDir, filename)
	fullSavePath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullSavePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for '%s': %w", fullSavePath, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(fullSavePath), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file in '%s': %w", filepath.Dir(fullSavePath), err)
	}
	tmpName := tmpFile.Name()

	if _, err := io.Copy(tmpFile, data); err != nil {
		tmpFile.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write data to '%s': %w", tmpName, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temporary file '%s': %w", tmpName, err)
	}

	if err := os.Rename(tmpName, fullSavePath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move asset into place at '%s': %w", fullSavePath, err)
	}

	log.Printf("media.store: Saved asset to %s", fullSavePath)
	return filepath.ToSlash(relativePath), nil
}

func (ls *LocalStorage) Get(relativePath string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("asset not found at '%s': %w", relativePath, err)
		}
		return nil, nil, fmt.Errorf("failed to open asset '%s': %w", relativePath, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat asset '%s': %w", relativePath, err)
	}

	return file, info, nil
}

// Delete removes an asset file
func (ls *LocalStorage) Delete(relativePath string) error {
	fullPath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) { // Ignore "not exist" errors
		return fmt.Errorf("failed to delete asset '%s': %w", relativePath, err)
	}
	if err == nil {
		log.Printf("media.store: Deleted asset %s", fullPath)
	}
	return nil
}

// GetFullPath calculates the absolute path and performs the containment
// check; anything resolving outside the media root yields ErrOutsideRoot.
func (ls *LocalStorage) GetFullPath(relativePath string) (string, error) {
	// clean the relative path first to prevent simple traversal tricks
	cleanRelativePath := filepath.Clean(filepath.FromSlash(relativePath))

	fullPath := filepath.Join(ls.basePath, cleanRelativePath)

	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", relativePath, err)
	}

	if absFullPath != ls.basePath && !strings.HasPrefix(absFullPath, ls.basePath+string(os.PathSeparator)) {
		return "", fmt.Errorf("access denied for '%s': %w", relativePath, ErrOutsideRoot)
	}

	return absFullPath, nil
}
