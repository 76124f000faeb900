package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/client/internal/shared/utils"
)

// DefaultPattern selects view definition files relative to the seed root
const DefaultPattern = "**/*.{view.yaml,view.yml,view.toml,view.json}"

// SeedResult summarises a seeding run
type SeedResult struct {
	Files  int `json:"files"`
	Views  int `json:"views"`
	Failed int `json:"failed"`
}

// Seeder loads view definition files from a directory tree
type Seeder struct {
	manager *Manager
	dir     string
	pattern string
	logger  *zap.Logger
	hasher  *utils.Hasher

	mu      sync.Mutex
	sources map[string][]string // file path -> view ids it declared
	digests map[string]string   // file path -> content digest
}

// NewSeeder creates a seeder; an empty pattern selects DefaultPattern
func NewSeeder(manager *Manager, dir, pattern string, logger *zap.Logger) *Seeder {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		manager: manager,
		dir:     dir,
		pattern: pattern,
		logger:  logger,
		hasher:  utils.DefaultHasher(),
		sources: make(map[string][]string),
		digests: make(map[string]string),
	}
}

// Dir returns the seed root
func (s *Seeder) Dir() string {
	return s.dir
}

// Seed walks the seed root and registers every matching definition file.
// A missing directory is not an error; individual bad files are logged and
// counted as failures.
func (s *Seeder) Seed(ctx context.Context) (SeedResult, error) {
	s.logger.Info("Seeding views", zap.String("dir", s.dir), zap.String("pattern", s.pattern))

	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.logger.Warn("View directory not found", zap.String("dir", s.dir))
		return SeedResult{}, nil
	}

	var files, views, failed int64
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, s.dir, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() || !s.Matches(path) {
			return nil
		}

		atomic.AddInt64(&files, 1)
		n, err := s.LoadFile(path)
		if err != nil {
			s.logger.Warn("Failed to load view definitions", zap.String("path", path), zap.Error(err))
			atomic.AddInt64(&failed, 1)
			return nil
		}
		atomic.AddInt64(&views, int64(n))
		return nil
	})

	result := SeedResult{Files: int(files), Views: int(views), Failed: int(failed)}
	if err != nil {
		return result, fmt.Errorf("failed to walk %s: %w", s.dir, err)
	}

	s.logger.Info("Seeding complete",
		zap.Int("files", result.Files),
		zap.Int("views", result.Views),
		zap.Int("failed", result.Failed))
	return result, nil
}

// Matches reports whether path, relative to the seed root, selects a definition file
func (s *Seeder) Matches(path string) bool {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(s.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// LoadFile parses one definition file and registers its views. Every
// descriptor is validated first, so a file with one bad entry registers
// nothing. Views the file declared on a previous load but no longer does
// are removed. A file whose content is unchanged since its last load is
// skipped.
func (s *Seeder) LoadFile(path string) (int, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	digest := s.hasher.Hash(data)
	s.mu.Lock()
	ids, seen := s.sources[path]
	unchanged := seen && s.digests[path] == digest
	s.mu.Unlock()
	if unchanged {
		return len(ids), nil
	}

	views, err := Parse(data, format)
	if err != nil {
		return 0, err
	}

	for _, v := range views {
		if err := validateDescriptor(v); err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidDescriptor, path, err)
		}
	}

	base := filepath.Dir(path)
	ids = make([]string, 0, len(views))
	for _, v := range views {
		if v.Resource != "" && !filepath.IsAbs(v.Resource) {
			v.Resource = filepath.Join(base, v.Resource)
		}
		if err := s.manager.Register(v); err != nil {
			return 0, err
		}
		ids = append(ids, v.ID)
	}

	s.mu.Lock()
	previous := s.sources[path]
	s.sources[path] = ids
	s.digests[path] = digest
	s.mu.Unlock()

	for _, old := range previous {
		if !slices.Contains(ids, old) {
			s.manager.Remove(old)
		}
	}

	s.logger.Debug("Loaded view definitions", zap.String("path", path), zap.Strings("views", ids))
	return len(ids), nil
}

// Forget removes the views declared by path
func (s *Seeder) Forget(path string) int {
	s.mu.Lock()
	ids := s.sources[path]
	delete(s.sources, path)
	delete(s.digests, path)
	s.mu.Unlock()

	for _, viewID := range ids {
		s.manager.Remove(viewID)
	}
	if len(ids) > 0 {
		s.logger.Info("Removed view definitions", zap.String("path", path), zap.Strings("views", ids))
	}
	return len(ids)
}
