package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"menutheme/model"
)

// ErrNotFound is returned for slugs without a stored location.
var ErrNotFound = errors.New("location not found")

// ErrInvalidSlug is returned for slugs that cannot name a file.
var ErrInvalidSlug = errors.New("invalid slug")

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,62}$`)

// Store provides file-backed storage for location records.
type Store struct {
	baseDir string
	mu      sync.Mutex
}

// New creates a new Store instance with the given base directory.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// ValidSlug reports whether slug can be stored.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// EnsureDirs creates the necessary directory structure for storing locations.
func (s *Store) EnsureDirs() error {
	return os.MkdirAll(s.dir(), 0o755)
}

func (s *Store) dir() string {
	return filepath.Join(s.baseDir, "locations")
}

func (s *Store) path(slug string) string {
	return filepath.Join(s.dir(), slug+".json")
}

// SaveLocation writes loc atomically, stamping UpdatedAt.
func (s *Store) SaveLocation(loc *model.Location) error {
	if loc == nil {
		return fmt.Errorf("nil location")
	}
	if !ValidSlug(loc.Slug) {
		return fmt.Errorf("save %q: %w", loc.Slug, ErrInvalidSlug)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir(), 0o755); err != nil {
		return err
	}
	loc.UpdatedAt = time.Now().UTC()

	path := s.path(loc.Slug)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(loc); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Location loads the record for slug. It honours ctx cancellation before
// touching the disk.
func (s *Store) Location(ctx context.Context, slug string) (*model.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidSlug(slug) {
		return nil, fmt.Errorf("load %q: %w", slug, ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return readLocation(s.path(slug))
}

func readLocation(path string) (*model.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer f.Close()

	var loc model.Location
	if err := json.NewDecoder(f).Decode(&loc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &loc, nil
}

// ListLocations returns every stored location sorted by slug.
func (s *Store) ListLocations() ([]model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []model.Location
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		loc, err := readLocation(filepath.Join(s.dir(), e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, *loc)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}
