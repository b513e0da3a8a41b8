// Package cache keeps generated replies on disk so repeated requests for the
// same prompt do not spend provider quota.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is a cached reply
type Entry struct {
	Provider  string    `json:"provider"`
	FetchedAt time.Time `json:"fetched_at"`
	Body      string    `json:"body"`
}

// Reader returns an entry when it exists and is younger than maxAge.
// A zero maxAge disables the age check.
type Reader interface {
	Read(key string, maxAge time.Duration) (*Entry, bool)
}

// Writer stores an entry under key
type Writer interface {
	Write(key string, entry *Entry) error
}

// ReadWriter combines both cache operations
type ReadWriter interface {
	Reader
	Writer
}

// FileCache stores one JSON file per key
type FileCache struct {
	dir string
}

// NewFileCache creates the cache directory. An empty dir uses
// $XDG_CACHE_HOME/coachbot (or the platform equivalent).
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("locate cache dir: %w", err)
		}
		dir = filepath.Join(base, "coachbot")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the directory entries are written to
func (fc *FileCache) Dir() string {
	return fc.dir
}

func (fc *FileCache) Read(key string, maxAge time.Duration) (*Entry, bool) {
	data, err := os.ReadFile(fc.path(key))
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if maxAge > 0 && time.Since(entry.FetchedAt) > maxAge {
		return &entry, false
	}
	return &entry, true
}

func (fc *FileCache) Write(key string, entry *Entry) error {
	path := fc.path(key)
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now()
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	// write then rename so readers never see a partial file
	tmpPath := path + fmt.Sprintf(".tmp.%d", rand.Int())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, key)
}

// KeyFor derives a stable file name from the parts of a request
func KeyFor(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h[:16]) + ".json"
}
