package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/mrlokans/bookreviews/internal/logging"
	"github.com/mrlokans/bookreviews/internal/metrics"
)

const (
	UsersFile           = "users.json"
	BooksFile           = "books.json"
	ReviewsFile         = "reviews.json"
	RecommendationsFile = "recommendations.json"
)

// JSONStore keeps each collection as a JSON array in its own file under Dir.
type JSONStore struct {
	Dir string
}

func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{Dir: dir}
}

func (s *JSONStore) Name() string { return BackendJSON }

// Load reads all four files. A file that is missing or does not parse
// yields an empty collection.
func (s *JSONStore) Load(ctx context.Context) (Data, error) {
	var data Data
	readArray(s.path(UsersFile), &data.Users)
	readArray(s.path(BooksFile), &data.Books)
	readArray(s.path(ReviewsFile), &data.Reviews)
	readArray(s.path(RecommendationsFile), &data.Recommendations)

	metrics.RecordSnapshot(BackendJSON, "load", nil)
	return data, ctx.Err()
}

// Save rewrites all four files. Each file is written to a temporary name
// first and renamed into place.
func (s *JSONStore) Save(ctx context.Context, data Data) (err error) {
	defer func() { metrics.RecordSnapshot(BackendJSON, "save", err) }()

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	files := []struct {
		name string
		v    any
	}{
		{UsersFile, nonNil(data.Users)},
		{BooksFile, nonNil(data.Books)},
		{ReviewsFile, nonNil(data.Reviews)},
		{RecommendationsFile, nonNil(data.Recommendations)},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeArray(s.path(f.name), f.v); err != nil {
			return err
		}
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) path(name string) string {
	return filepath.Join(s.Dir, name)
}

func readArray[T any](path string, out *[]T) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Info().Str("file", path).Msg("snapshot file absent, starting empty")
		return
	}
	if err != nil {
		logging.Warn().Err(err).Str("file", path).Msg("failed to read snapshot file, starting empty")
		return
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logging.Warn().Err(err).Str("file", path).Msg("failed to parse snapshot file, starting empty")
		return
	}
	*out = items
}

func writeArray(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// nonNil makes empty collections encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
