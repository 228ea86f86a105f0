// Package output writes report artifacts to the output directory. Writes are
// serialized across processes with a directory lock and land atomically, so a
// reader never sees a half-written report.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// LockFileName is the lock file created inside the output directory
const LockFileName = ".fieldstat.lock"

// Writer saves artifacts under Dir
type Writer struct {
	Dir string
}

// NewWriter creates a Writer for dir
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// WriteArtifact writes data to Dir/name while holding the directory lock and
// returns the written path. name must be a plain file name.
func (w *Writer) WriteArtifact(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.Dir, err)
	}

	lock := flock.New(filepath.Join(w.Dir, LockFileName))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("failed to acquire lock on %s: %w", w.Dir, err)
	}
	defer lock.Unlock()

	path := filepath.Join(w.Dir, name)
	if err := AtomicWrite(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ArtifactName builds "<metric>_<YYYYMMDD-HHMMSS>.<ext>"
func ArtifactName(metric, ext string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", metric, at.UTC().Format("20060102-150405"), strings.TrimPrefix(ext, "."))
}

// AtomicWrite writes data to a temporary file next to path and renames it into place.
// If any step fails the existing file at path is left unchanged.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	committed := false
	defer func() {
		if !committed {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	committed = true
	return nil
}
