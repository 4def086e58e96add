package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/codec"
)

const (
	DefaultMoviesFile = "movies.txt"
	DefaultUsersFile  = "users.txt"
)

// FileStore keeps the dataset in two text files inside one directory
type FileStore struct {
	moviesPath string
	usersPath  string
}

// NewFileStore creates a store for dir/moviesFile and dir/usersFile
func NewFileStore(dir, moviesFile, usersFile string) *FileStore {
	if moviesFile == "" {
		moviesFile = DefaultMoviesFile
	}
	if usersFile == "" {
		usersFile = DefaultUsersFile
	}
	return &FileStore{
		moviesPath: filepath.Join(dir, moviesFile),
		usersPath:  filepath.Join(dir, usersFile),
	}
}

func (s *FileStore) MoviesPath() string { return s.moviesPath }
func (s *FileStore) UsersPath() string  { return s.usersPath }

// Load reads both files. A movies file that cannot be opened is replaced by
// the seed dataset; a users file that cannot be opened yields no stored
// users. Malformed lines are skipped and listed in the result.
func (s *FileStore) Load(ctx context.Context) (*LoadResult, error) {
	result := &LoadResult{}

	movies, skipped, err := readFile(s.moviesPath, codec.ReadMovies)
	switch {
	case isOpenError(err):
		logrus.WithField("path", s.moviesPath).Warnf("Movies file unavailable, using seed data: %v", err)
		seed := SeedDataset()
		result.Movies = seed.Movies
		result.Users = seed.Users
		result.Seeded = true
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	default:
		result.Movies = movies
		result.Skipped = append(result.Skipped, skipped...)
		logSkipped(s.moviesPath, skipped)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	users, skipped, err := readFile(s.usersPath, codec.ReadUsers)
	switch {
	case isOpenError(err):
		logrus.WithField("path", s.usersPath).Warnf("Users file unavailable, starting without stored users: %v", err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	default:
		result.Users = mergeSeedUsers(result.Users, users)
		result.Skipped = append(result.Skipped, skipped...)
		logSkipped(s.usersPath, skipped)
	}

	logrus.WithFields(logrus.Fields{
		"movies":  len(result.Movies),
		"users":   len(result.Users),
		"skipped": len(result.Skipped),
		"seeded":  result.Seeded,
	}).Info("Dataset loaded")

	return result, nil
}

// Save rewrites the users file and then the movies file. Each file is
// written to a temporary sibling and renamed into place.
func (s *FileStore) Save(ctx context.Context, data Dataset) error {
	if err := writeFileAtomic(s.usersPath, func(w io.Writer) error {
		return codec.WriteUsers(w, data.Users)
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := writeFileAtomic(s.moviesPath, func(w io.Writer) error {
		return codec.WriteMovies(w, data.Movies)
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	logrus.WithFields(logrus.Fields{
		"movies": len(data.Movies),
		"users":  len(data.Users),
	}).Debug("Dataset saved")

	return nil
}

// openError marks a failure to open a file, as opposed to a failure while
// reading one that was opened.
type openError struct {
	err error
}

func (e *openError) Error() string { return e.err.Error() }
func (e *openError) Unwrap() error { return e.err }

func isOpenError(err error) bool {
	var oe *openError
	return errors.As(err, &oe)
}

func readFile[T any](path string, read func(io.Reader) ([]T, []*codec.ParseError, error)) ([]T, []*codec.ParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &openError{err: err}
	}
	defer f.Close()

	return read(f)
}

func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func logSkipped(path string, skipped []*codec.ParseError) {
	for _, pe := range skipped {
		logrus.WithFields(logrus.Fields{
			"path": path,
			"line": pe.Line,
		}).Warnf("Skipped malformed record: %v", pe.Err)
	}
}

var _ Store = (*FileStore)(nil)
