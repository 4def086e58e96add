// Package accounts keeps registered users and the tickets they own.
//
// Every successful mutation is flushed through a Persister before the call
// returns. When the flush fails the in-memory change is rolled back so memory
// and storage never disagree.
package accounts

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/codec"
	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

var (
	ErrInvalidCredentials     = fmt.Errorf("%w: invalid credentials", models.ErrValidation)
	ErrMissingField           = fmt.Errorf("%w: required field is empty", models.ErrValidation)
	ErrInvalidField           = fmt.Errorf("%w: field contains reserved text", models.ErrValidation)
	ErrDuplicateEmail         = fmt.Errorf("%w: email already exists", models.ErrConflict)
	ErrUserNotFound           = fmt.Errorf("%w: user", models.ErrNotFound)
	ErrTicketNotFound         = fmt.Errorf("%w: ticket", models.ErrNotFound)
	ErrTicketAlreadyCancelled = fmt.Errorf("%w: ticket already cancelled", models.ErrConflict)
)

// Persister writes the full user collection to durable storage
type Persister interface {
	SaveUsers(ctx context.Context, users []models.User) error
}

// Store is the in-memory account collection. Users are keyed by email.
type Store struct {
	mu        sync.RWMutex
	users     []*models.User
	persister Persister
}

// NewStore creates a store holding copies of users in their stored order
func NewStore(users []models.User, persister Persister) *Store {
	s := &Store{
		users:     make([]*models.User, 0, len(users)),
		persister: persister,
	}
	for _, u := range users {
		c := u.Clone()
		s.users = append(s.users, &c)
	}
	return s
}

// FindByCredentials returns the first user whose name and password match
func (s *Store) FindByCredentials(name, password string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.VerifyLogin(name, password) {
			return u.Clone(), nil
		}
	}
	return models.User{}, ErrInvalidCredentials
}

// EmailExists reports whether a user is already registered with email
func (s *Store) EmailExists(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(email) != nil
}

// User returns a copy of the user registered with email
func (s *Store) User(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.find(email)
	if u == nil {
		return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	return u.Clone(), nil
}

// Users returns copies of every user in stored order
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Register validates the profile, appends a new user and persists the store.
// The email uniqueness check happens before anything is inserted.
func (s *Store) Register(ctx context.Context, p models.Profile) (models.User, error) {
	if err := validateProfile(p); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(p.Email) != nil {
		return models.User{}, fmt.Errorf("%w: %s", ErrDuplicateEmail, p.Email)
	}

	u := models.NewUser(p)
	s.users = append(s.users, &u)

	if err := s.persist(ctx); err != nil {
		s.users = s.users[:len(s.users)-1]
		return models.User{}, err
	}

	logrus.WithFields(logrus.Fields{
		"email":   u.Email,
		"student": u.IsStudent,
	}).Info("User registered")

	return u.Clone(), nil
}

// AddTicket appends an issued ticket to the user's collection and persists
// the store.
func (s *Store) AddTicket(ctx context.Context, email string, ticket models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.find(email)
	if u == nil {
		return fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}

	u.Tickets = append(u.Tickets, ticket.Clone())

	if err := s.persist(ctx); err != nil {
		u.Tickets = u.Tickets[:len(u.Tickets)-1]
		return err
	}

	logrus.WithFields(logrus.Fields{
		"email":     email,
		"ticket_id": ticket.ID,
		"movie":     ticket.MovieTitle,
	}).Info("Ticket added")

	return nil
}

// CancelTicket marks one of the user's active tickets as cancelled and
// persists the store. A missing ticket and an already cancelled ticket are
// reported with different errors.
func (s *Store) CancelTicket(ctx context.Context, email string, ticketID int) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.find(email)
	if u == nil {
		return models.Ticket{}, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}

	for i := range u.Tickets {
		t := &u.Tickets[i]
		if t.ID != ticketID {
			continue
		}
		if !t.IsActive() {
			return models.Ticket{}, fmt.Errorf("%w: %d", ErrTicketAlreadyCancelled, ticketID)
		}

		t.Status = models.TicketStatusCancelled
		if err := s.persist(ctx); err != nil {
			t.Status = models.TicketStatusActive
			return models.Ticket{}, err
		}

		logrus.WithFields(logrus.Fields{
			"email":     email,
			"ticket_id": ticketID,
		}).Info("Ticket cancelled")

		return t.Clone(), nil
	}

	return models.Ticket{}, fmt.Errorf("%w: %d", ErrTicketNotFound, ticketID)
}

func (s *Store) find(email string) *models.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *Store) snapshot() []models.User {
	out := make([]models.User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Clone()
	}
	return out
}

// persist must be called with the write lock held
func (s *Store) persist(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveUsers(ctx, s.snapshot()); err != nil {
		logrus.Errorf("Failed to persist accounts: %v", err)
		return fmt.Errorf("failed to persist accounts: %w", err)
	}
	return nil
}

func validateProfile(p models.Profile) error {
	required := []struct{ field, value string }{
		{"name", p.Name},
		{"email", p.Email},
		{"password", p.Password},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, r.field)
		}
	}

	for _, value := range []string{p.Name, p.Email, p.Phone, p.Password, p.UniName, p.StudentID} {
		if codec.ContainsReserved(value) {
			return fmt.Errorf("%w: %q", ErrInvalidField, value)
		}
	}

	// A user line must not read back as a ticket line.
	if p.Name == codec.TicketTag {
		return fmt.Errorf("%w: name %q", ErrInvalidField, p.Name)
	}
	return nil
}
