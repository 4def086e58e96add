// Package catalog holds the ordered, read-only list of movies on offer.
package catalog

import (
	"fmt"

	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

// RecommendationCount is how many movies the recommendation page lists
const RecommendationCount = 3

var ErrMovieNotFound = fmt.Errorf("%w: movie", models.ErrNotFound)

// Catalog keeps movies in load order. It is not modified after construction.
type Catalog struct {
	movies []models.Movie
	byID   map[int]int
}

// New builds a catalog from movies in display order. A later duplicate ID
// is dropped so lookups stay unambiguous.
func New(movies []models.Movie) *Catalog {
	c := &Catalog{
		movies: make([]models.Movie, 0, len(movies)),
		byID:   make(map[int]int, len(movies)),
	}
	for _, m := range movies {
		if _, dup := c.byID[m.ID]; dup {
			continue
		}
		c.byID[m.ID] = len(c.movies)
		c.movies = append(c.movies, m)
	}
	return c
}

// All returns every movie in display order
func (c *Catalog) All() []models.Movie {
	return append([]models.Movie(nil), c.movies...)
}

// Get returns the movie with the given ID
func (c *Catalog) Get(id int) (models.Movie, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Movie{}, fmt.Errorf("%w: id %d", ErrMovieNotFound, id)
	}
	return c.movies[i], nil
}

// Recommendations returns the first few movies in display order
func (c *Catalog) Recommendations() []models.Movie {
	n := RecommendationCount
	if len(c.movies) < n {
		n = len(c.movies)
	}
	return append([]models.Movie(nil), c.movies[:n]...)
}

func (c *Catalog) Len() int {
	return len(c.movies)
}
