// Package repository loads and saves the box office dataset.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/codec"
	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

var ErrStorage = errors.New("storage unavailable")

// Dataset is everything the box office persists
type Dataset struct {
	Movies []models.Movie
	Users  []models.User
}

// LoadResult is a loaded dataset plus what happened while loading it
type LoadResult struct {
	Dataset
	// Skipped holds every line dropped as malformed
	Skipped []*codec.ParseError
	// Seeded is set when the movie store was unavailable and the seed
	// dataset was used instead
	Seeded bool
}

// Store is a backing store for the dataset. Save always replaces the whole
// dataset.
type Store interface {
	Load(ctx context.Context) (*LoadResult, error)
	Save(ctx context.Context, data Dataset) error
}

// SeedDataset returns the bootstrap movies and the admin user
func SeedDataset() Dataset {
	return Dataset{
		Movies: []models.Movie{
			{
				ID:          1,
				Title:       "Avengers: Secret Wars",
				Genre:       "Action",
				Director:    "Russo Bros",
				ReleaseDate: "2026",
				RunningTime: "3h 10m",
				Language:    "English",
				BasePrice:   20.0,
				Showtimes:   []string{"10:00 AM", "2:00 PM"},
				Experiences: []string{models.ExperienceStandard, models.ExperienceIMAX},
			},
			{
				ID:          2,
				Title:       "Frozen 3",
				Genre:       "Animation",
				Director:    "Jennifer Lee",
				ReleaseDate: "2025",
				RunningTime: "1h 45m",
				Language:    "English",
				BasePrice:   15.0,
				Showtimes:   []string{"11:00 AM", "4:00 PM"},
				Experiences: []string{models.ExperienceStandard, "Kids Hall"},
			},
		},
		Users: []models.User{
			{
				Name:     "Admin",
				Email:    "admin@test.com",
				Phone:    "000",
				Password: "123",
			},
		},
	}
}

// mergeSeedUsers puts the seed users ahead of the stored ones. A seed user
// whose email is already stored is dropped, so the stored record and its
// tickets win and emails stay unique.
func mergeSeedUsers(seed, stored []models.User) []models.User {
	emails := make(map[string]struct{}, len(stored))
	for _, u := range stored {
		emails[u.Email] = struct{}{}
	}

	merged := make([]models.User, 0, len(seed)+len(stored))
	for _, u := range seed {
		if _, ok := emails[u.Email]; ok {
			logrus.WithField("email", u.Email).Info("Seed user already stored, keeping the stored record")
			continue
		}
		merged = append(merged, u)
	}
	return append(merged, stored...)
}

// MovieSource supplies the current catalog when accounts are saved
type MovieSource interface {
	All() []models.Movie
}

// AccountsWriter saves the full dataset whenever the account collection
// changes. It satisfies accounts.Persister.
type AccountsWriter struct {
	store  Store
	movies MovieSource
}

// NewAccountsWriter creates a writer that pairs users with movies on save
func NewAccountsWriter(store Store, movies MovieSource) *AccountsWriter {
	return &AccountsWriter{store: store, movies: movies}
}

// SaveUsers writes users together with the current movies
func (w *AccountsWriter) SaveUsers(ctx context.Context, users []models.User) error {
	if err := w.store.Save(ctx, Dataset{Movies: w.movies.All(), Users: users}); err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	return nil
}
