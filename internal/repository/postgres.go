package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS movies (
	position      INT PRIMARY KEY,
	id            INT NOT NULL UNIQUE,
	title         TEXT NOT NULL,
	genre         TEXT NOT NULL,
	director      TEXT NOT NULL,
	release_date  TEXT NOT NULL,
	running_time  TEXT NOT NULL,
	base_price    DOUBLE PRECISION NOT NULL CHECK (base_price >= 0)
);

CREATE TABLE IF NOT EXISTS users (
	position    INT PRIMARY KEY,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL,
	phone       TEXT NOT NULL,
	password    TEXT NOT NULL,
	is_student  BOOLEAN NOT NULL,
	uni_name    TEXT NOT NULL,
	student_id  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tickets (
	id             INT PRIMARY KEY,
	user_position  INT NOT NULL REFERENCES users(position) ON DELETE CASCADE,
	position       INT NOT NULL,
	movie_title    TEXT NOT NULL,
	date           TEXT NOT NULL,
	time           TEXT NOT NULL,
	experience     TEXT NOT NULL,
	total_price    DOUBLE PRECISION NOT NULL,
	status         TEXT NOT NULL CHECK (status IN ('Active', 'Cancelled')),
	seats          TEXT[] NOT NULL
);
`

// PostgresStore keeps the dataset in three tables. Like the file store it
// does not keep showtimes, experiences or language.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to url and creates the schema if needed
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %v", ErrStorage, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", ErrStorage, err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%w: failed to create schema: %v", ErrStorage, err)
	}
	return nil
}

// Load reads the dataset. An empty movies table is treated like a missing
// movies file and yields the seed dataset.
func (s *PostgresStore) Load(ctx context.Context) (*LoadResult, error) {
	result := &LoadResult{}

	movies, err := s.loadMovies(ctx)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		logrus.Warn("Movies table is empty, using seed data")
		seed := SeedDataset()
		result.Movies = seed.Movies
		result.Users = seed.Users
		result.Seeded = true
	} else {
		result.Movies = movies
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	result.Users = mergeSeedUsers(result.Users, users)

	logrus.WithFields(logrus.Fields{
		"movies": len(result.Movies),
		"users":  len(result.Users),
		"seeded": result.Seeded,
	}).Info("Dataset loaded from database")

	return result, nil
}

func (s *PostgresStore) loadMovies(ctx context.Context) ([]models.Movie, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, genre, director, release_date, running_time, base_price
		FROM movies
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query movies: %v", ErrStorage, err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		err := rows.Scan(&m.ID, &m.Title, &m.Genre, &m.Director, &m.ReleaseDate, &m.RunningTime, &m.BasePrice)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan movie: %v", ErrStorage, err)
		}
		m.Showtimes = append([]string(nil), models.DefaultShowtimes...)
		m.Experiences = append([]string(nil), models.DefaultExperiences...)
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read movies: %v", ErrStorage, err)
	}

	return movies, nil
}

func (s *PostgresStore) loadUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT position, name, email, phone, password, is_student, uni_name, student_id
		FROM users
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query users: %v", ErrStorage, err)
	}
	defer rows.Close()

	var users []models.User
	index := make(map[int]int)
	for rows.Next() {
		var (
			u   models.User
			pos int
		)
		err := rows.Scan(&pos, &u.Name, &u.Email, &u.Phone, &u.Password, &u.IsStudent, &u.UniName, &u.StudentID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan user: %v", ErrStorage, err)
		}
		index[pos] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read users: %v", ErrStorage, err)
	}

	ticketRows, err := s.pool.Query(ctx, `
		SELECT user_position, id, movie_title, date, time, experience, total_price, status, seats
		FROM tickets
		ORDER BY user_position, position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query tickets: %v", ErrStorage, err)
	}
	defer ticketRows.Close()

	for ticketRows.Next() {
		var (
			t      models.Ticket
			pos    int
			status string
		)
		err := ticketRows.Scan(&pos, &t.ID, &t.MovieTitle, &t.Date, &t.Time, &t.Experience, &t.TotalPrice, &status, &t.Seats)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan ticket: %v", ErrStorage, err)
		}
		t.Status = models.TicketStatus(status)
		if len(t.Seats) == 0 {
			t.Seats = nil
		}
		i, ok := index[pos]
		if !ok {
			continue
		}
		users[i].Tickets = append(users[i].Tickets, t)
	}
	if err := ticketRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read tickets: %v", ErrStorage, err)
	}

	return users, nil
}

// Save replaces every row in one transaction
func (s *PostgresStore) Save(ctx context.Context, data Dataset) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE tickets, users, movies`); err != nil {
		return fmt.Errorf("%w: failed to clear tables: %v", ErrStorage, err)
	}

	movieRows := make([][]any, 0, len(data.Movies))
	for i, m := range data.Movies {
		movieRows = append(movieRows, []any{i, m.ID, m.Title, m.Genre, m.Director, m.ReleaseDate, m.RunningTime, m.BasePrice})
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"movies"},
		[]string{"position", "id", "title", "genre", "director", "release_date", "running_time", "base_price"},
		pgx.CopyFromRows(movieRows),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to write movies: %v", ErrStorage, err)
	}

	userRows := make([][]any, 0, len(data.Users))
	var ticketRows [][]any
	for i, u := range data.Users {
		userRows = append(userRows, []any{i, u.Name, u.Email, u.Phone, u.Password, u.IsStudent, u.UniName, u.StudentID})
		for j, t := range u.Tickets {
			seats := t.Seats
			if seats == nil {
				seats = []string{}
			}
			ticketRows = append(ticketRows, []any{t.ID, i, j, t.MovieTitle, t.Date, t.Time, t.Experience, t.TotalPrice, string(t.Status), seats})
		}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"users"},
		[]string{"position", "name", "email", "phone", "password", "is_student", "uni_name", "student_id"},
		pgx.CopyFromRows(userRows),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to write users: %v", ErrStorage, err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"tickets"},
		[]string{"id", "user_position", "position", "movie_title", "date", "time", "experience", "total_price", "status", "seats"},
		pgx.CopyFromRows(ticketRows),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to write tickets: %v", ErrStorage, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit: %v", ErrStorage, err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
