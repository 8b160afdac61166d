package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/sirupsen/logrus"
)

// File is a Store that persists entries as JSON files so repeated CLI
// invocations share the cache. Store failures degrade to cache misses; the
// cache is an optimization, never a correctness dependency.
type File struct {
	dir string
	now func() time.Time
	log *logrus.Entry
}

type fileEntry struct {
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
	Products  []models.Product `json:"products"`
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &File{
		dir: dir,
		now: time.Now,
		log: logrus.WithField("component", "cache"),
	}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *File) Get(key string) ([]models.Product, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, false
	}
	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		f.log.WithError(err).WithField("key", key).Warn("corrupt cache entry dropped")
		_ = os.Remove(f.path(key))
		return nil, false
	}
	if f.now().After(e.ExpiresAt) {
		_ = os.Remove(f.path(key))
		return nil, false
	}
	return e.Products, true
}

func (f *File) Set(key string, products []models.Product, ttl time.Duration) {
	e := fileEntry{
		CreatedAt: f.now(),
		ExpiresAt: f.now().Add(ttl),
		Products:  products,
	}
	data, err := json.Marshal(e)
	if err != nil {
		f.log.WithError(err).Warn("cache entry not serializable")
		return
	}
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		f.log.WithError(err).Warn("cache write failed")
		return
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		f.log.WithError(err).Warn("cache rename failed")
	}
}

// Clear removes every cache entry file.
func (f *File) Clear() {
	matches, err := filepath.Glob(filepath.Join(f.dir, "*.json"))
	if err != nil {
		return
	}
	for _, m := range matches {
		_ = os.Remove(m)
	}
}
