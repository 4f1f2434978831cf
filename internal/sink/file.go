package sink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxCollisionSuffix bounds the "name (N).txt" search.
const maxCollisionSuffix = 1000

// ErrInvalidName is returned when the suggested name is not a plain file name.
var ErrInvalidName = errors.New("invalid file name")

// FileSink saves export text as plain-text files in a directory.
type FileSink struct {
	Dir string

	// Overwrite replaces an existing file instead of picking a free name.
	Overwrite bool
}

// NewFileSink returns a sink writing into dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Save writes text to Dir/suggestedName and returns the path written.
// An existing file is kept and the new one gets a " (N)" suffix, the way
// browsers name repeated downloads.
func (s *FileSink) Save(text, suggestedName string) (string, error) {
	name := filepath.Base(suggestedName)
	if name != suggestedName || name == "." || name == ".." || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, suggestedName)
	}

	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	target := filepath.Join(dir, name)
	if !s.Overwrite {
		var err error
		target, err = UniquePath(target)
		if err != nil {
			return "", err
		}
	}

	if err := os.WriteFile(target, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}

// UniquePath returns path if nothing exists there, otherwise the first free
// "base (N).ext" variant.
//
// Example: with tags.txt and "tags (1).txt" present, tags.txt becomes
// "tags (2).txt".
func UniquePath(path string) (string, error) {
	if free, err := isFree(path); err != nil || free {
		return path, err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 1; n <= maxCollisionSuffix; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		free, err := isFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s after %d attempts", path, maxCollisionSuffix)
}

func isFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}
