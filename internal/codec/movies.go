package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

const movieFieldCount = 7

// FormatMovie encodes id;title;genre;director;releaseDate;runningTime;basePrice.
// Language, showtimes and experiences are not written.
func FormatMovie(m models.Movie) string {
	return joinFields(
		strconv.Itoa(m.ID),
		m.Title,
		m.Genre,
		m.Director,
		m.ReleaseDate,
		m.RunningTime,
		formatAmount(m.BasePrice),
	)
}

// ParseMovie decodes a movie line. The returned movie carries the default
// showtimes and experiences.
func ParseMovie(line string) (models.Movie, error) {
	fields := strings.Split(line, FieldSeparator)
	if len(fields) != movieFieldCount {
		return models.Movie{}, fmt.Errorf("%w: movie has %d, want %d", ErrFieldCount, len(fields), movieFieldCount)
	}

	id, err := parsePositiveInt(fields[0], "movie id")
	if err != nil {
		return models.Movie{}, err
	}
	price, err := parseAmount(fields[6], "base price")
	if err != nil {
		return models.Movie{}, err
	}

	return models.Movie{
		ID:          id,
		Title:       fields[1],
		Genre:       fields[2],
		Director:    fields[3],
		ReleaseDate: fields[4],
		RunningTime: fields[5],
		BasePrice:   price,
		Showtimes:   append([]string(nil), models.DefaultShowtimes...),
		Experiences: append([]string(nil), models.DefaultExperiences...),
	}, nil
}

// WriteMovies writes one line per movie
func WriteMovies(w io.Writer, movies []models.Movie) error {
	bw := bufio.NewWriter(w)
	for _, m := range movies {
		if _, err := bw.WriteString(FormatMovie(m) + "\n"); err != nil {
			return fmt.Errorf("failed to write movie %d: %w", m.ID, err)
		}
	}
	return bw.Flush()
}

// ReadMovies decodes every well-formed movie line. Malformed lines are
// skipped and reported; the error is only set when reading itself fails.
func ReadMovies(r io.Reader) ([]models.Movie, []*ParseError, error) {
	var (
		movies  []models.Movie
		skipped []*ParseError
		lineNo  int
	)

	scanner := newScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		m, err := ParseMovie(line)
		if err != nil {
			skipped = append(skipped, &ParseError{Line: lineNo, Text: line, Err: err})
			continue
		}
		movies = append(movies, m)
	}
	if err := scanner.Err(); err != nil {
		return movies, skipped, fmt.Errorf("failed to read movies: %w", err)
	}

	return movies, skipped, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return scanner
}
