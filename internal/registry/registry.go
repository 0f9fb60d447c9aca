// Package registry discovers exercise files under a root directory and
// turns them into exercise descriptors.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"excheck/internal/domain/exercise"
	"excheck/internal/ports"
)

// ErrNotFound signals that the exercise root directory does not exist.
// It is fatal to the whole run.
var ErrNotFound = errors.New("exercise root not found")

var _ ports.ExerciseSource = (*Registry)(nil)

// Registry enumerates the exercises below a root directory.
//
// Discovery walks the tree once, up front, and records the recognized file
// paths in identifier order. The files themselves are read and parsed
// lazily, one per Next call, so a large exercise tree costs nothing until
// it is consumed. The sequence restarts from the beginning after Reset.
type Registry struct {
	root   string
	logger *zap.Logger

	mu      sync.Mutex
	entries []entry
	index   int
	skipped int
}

type entry struct {
	id   string
	path string
	lang exercise.Language
}

// New walks root and builds a Registry over every recognized exercise file.
// A missing root yields ErrNotFound. An empty tree is not an error; the
// resulting sequence is simply empty.
func New(root string, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("stat exercise root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve exercise root: %w", err)
	}

	entries, err := discover(absRoot)
	if err != nil {
		return nil, err
	}

	return &Registry{
		root:    absRoot,
		logger:  logger,
		entries: entries,
	}, nil
}

// Root returns the absolute exercise root directory.
func (r *Registry) Root() string {
	return r.root
}

// Len reports how many recognized exercise files were discovered,
// including any that later turn out to be malformed.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Skipped reports how many files were skipped as malformed since the last
// Reset.
func (r *Registry) Skipped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped
}

// Next returns the next well-formed exercise in identifier order. Files
// whose expected-outcome marker cannot be recovered are skipped with a
// warning. Next returns io.EOF once the sequence is exhausted.
func (r *Registry) Next(ctx context.Context) (exercise.Exercise, error) {
	for {
		select {
		case <-ctx.Done():
			return exercise.Exercise{}, ctx.Err()
		default:
		}

		r.mu.Lock()
		if r.index >= len(r.entries) {
			r.mu.Unlock()
			return exercise.Exercise{}, io.EOF
		}
		ent := r.entries[r.index]
		r.index++
		r.mu.Unlock()

		ex, err := load(ent)
		if err != nil {
			var malformed *MalformedError
			if errors.As(err, &malformed) {
				r.mu.Lock()
				r.skipped++
				r.mu.Unlock()
				r.logger.Warn("skipping malformed exercise",
					zap.String("id", ent.id),
					zap.String("path", ent.path),
					zap.String("reason", malformed.Reason),
				)
				continue
			}
			return exercise.Exercise{}, fmt.Errorf("load exercise %s: %w", ent.id, err)
		}

		return ex, nil
	}
}

// Reset restarts the sequence from the first exercise.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.index = 0
	r.skipped = 0
	r.mu.Unlock()
}

func discover(root string) ([]entry, error) {
	var entries []entry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}

		lang, ok := languageForFile(name)
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		entries = append(entries, entry{
			id:   identifier(rel),
			path: path,
			lang: lang,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk exercise root: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries, nil
}

// Recognized reports whether a file name looks like an exercise file.
func Recognized(name string) bool {
	_, ok := languageForFile(name)
	return ok
}

func languageForFile(name string) (exercise.Language, bool) {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return "", false
	}
	switch {
	case strings.HasSuffix(name, "_test.go"):
		return "", false
	case strings.HasSuffix(name, ".go"):
		return exercise.LanguageGo, true
	case strings.HasSuffix(name, ".py"):
		return exercise.LanguagePython, true
	default:
		return "", false
	}
}

func identifier(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

func load(ent entry) (exercise.Exercise, error) {
	data, err := os.ReadFile(ent.path)
	if err != nil {
		return exercise.Exercise{}, err
	}

	check, err := ParseCheck(ent.lang, string(data))
	if err != nil {
		return exercise.Exercise{}, err
	}

	return exercise.Exercise{
		ID:       ent.id,
		Path:     ent.path,
		Language: ent.lang,
		Source:   string(data),
		Check:    check,
	}, nil
}
