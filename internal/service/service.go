// Package service is the box office application layer. Front ends drive it
// with an explicit Session instead of shared "current user" state.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/accounts"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/booking"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/catalog"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/ticketid"
	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

var ErrNoSession = fmt.Errorf("%w: no active session", models.ErrValidation)

// Session identifies the logged in user for the length of one login
type Session struct {
	ID        uuid.UUID
	Email     string
	Name      string
	StartedAt time.Time
}

// Notifier receives box office activity. Implementations must not block.
type Notifier interface {
	Publish(activity models.Activity)
}

// BoxOffice defines the box office service interface
type BoxOffice interface {
	Login(ctx context.Context, name, password string) (*Session, error)
	Logout(ctx context.Context, session *Session)
	EmailTaken(ctx context.Context, email string) bool
	Register(ctx context.Context, profile models.Profile) (models.User, error)
	CurrentUser(ctx context.Context, session *Session) (models.User, error)
	Movies(ctx context.Context) []models.Movie
	Movie(ctx context.Context, id int) (models.Movie, error)
	Recommendations(ctx context.Context) []models.Movie
	IssueTicket(ctx context.Context, session *Session, draft booking.Draft) (models.Ticket, error)
	Tickets(ctx context.Context, session *Session) ([]models.Ticket, error)
	CancelTicket(ctx context.Context, session *Session, ticketID int) (models.Ticket, error)
	Debug(ctx context.Context) models.DebugDump
}

// boxOfficeImpl implements BoxOffice
type boxOfficeImpl struct {
	catalog  *catalog.Catalog
	accounts *accounts.Store
	ids      *ticketid.Allocator
	notifier Notifier
}

// NewBoxOffice creates a new BoxOffice. notifier may be nil.
func NewBoxOffice(cat *catalog.Catalog, acc *accounts.Store, ids *ticketid.Allocator, notifier Notifier) BoxOffice {
	return &boxOfficeImpl{
		catalog:  cat,
		accounts: acc,
		ids:      ids,
		notifier: notifier,
	}
}

func (s *boxOfficeImpl) Login(ctx context.Context, name, password string) (*Session, error) {
	u, err := s.accounts.FindByCredentials(name, password)
	if err != nil {
		logrus.WithField("name", name).Warn("Login failed")
		return nil, err
	}

	session := &Session{
		ID:        uuid.New(),
		Email:     u.Email,
		Name:      u.Name,
		StartedAt: time.Now(),
	}
	logrus.WithFields(logrus.Fields{
		"session": session.ID,
		"email":   u.Email,
	}).Info("User logged in")

	return session, nil
}

func (s *boxOfficeImpl) Logout(ctx context.Context, session *Session) {
	if session == nil {
		return
	}
	logrus.WithFields(logrus.Fields{
		"session":  session.ID,
		"duration": time.Since(session.StartedAt).Round(time.Second),
	}).Info("User logged out")
}

func (s *boxOfficeImpl) EmailTaken(ctx context.Context, email string) bool {
	return s.accounts.EmailExists(email)
}

func (s *boxOfficeImpl) Register(ctx context.Context, profile models.Profile) (models.User, error) {
	u, err := s.accounts.Register(ctx, profile)
	if err != nil {
		return models.User{}, err
	}

	s.publish(models.Activity{Type: models.ActivityUserRegistered})
	return u, nil
}

func (s *boxOfficeImpl) CurrentUser(ctx context.Context, session *Session) (models.User, error) {
	if session == nil {
		return models.User{}, ErrNoSession
	}
	return s.accounts.User(session.Email)
}

func (s *boxOfficeImpl) Movies(ctx context.Context) []models.Movie {
	return s.catalog.All()
}

func (s *boxOfficeImpl) Movie(ctx context.Context, id int) (models.Movie, error) {
	return s.catalog.Get(id)
}

func (s *boxOfficeImpl) Recommendations(ctx context.Context) []models.Movie {
	return s.catalog.Recommendations()
}

func (s *boxOfficeImpl) IssueTicket(ctx context.Context, session *Session, draft booking.Draft) (models.Ticket, error) {
	if session == nil {
		return models.Ticket{}, ErrNoSession
	}

	ticket, err := booking.Issue(ctx, draft, session.Email, s.ids, s.accounts)
	if err != nil {
		return models.Ticket{}, err
	}

	s.publish(models.Activity{
		Type:       models.ActivityTicketIssued,
		TicketID:   ticket.ID,
		MovieTitle: ticket.MovieTitle,
		Experience: ticket.Experience,
		Seats:      len(ticket.Seats),
	})
	return ticket, nil
}

func (s *boxOfficeImpl) Tickets(ctx context.Context, session *Session) ([]models.Ticket, error) {
	u, err := s.CurrentUser(ctx, session)
	if err != nil {
		return nil, err
	}
	return u.Tickets, nil
}

func (s *boxOfficeImpl) CancelTicket(ctx context.Context, session *Session, ticketID int) (models.Ticket, error) {
	if session == nil {
		return models.Ticket{}, ErrNoSession
	}

	ticket, err := s.accounts.CancelTicket(ctx, session.Email, ticketID)
	if err != nil {
		return models.Ticket{}, err
	}

	s.publish(models.Activity{
		Type:       models.ActivityTicketCancelled,
		TicketID:   ticket.ID,
		MovieTitle: ticket.MovieTitle,
		Experience: ticket.Experience,
		Seats:      len(ticket.Seats),
	})
	return ticket, nil
}

func (s *boxOfficeImpl) Debug(ctx context.Context) models.DebugDump {
	users := s.accounts.Users()
	movies := s.catalog.All()

	dump := models.DebugDump{
		Users:        make([]models.DebugUser, 0, len(users)),
		Movies:       make([]string, 0, len(movies)),
		NextTicketID: s.ids.Peek(),
	}
	for _, u := range users {
		dump.Users = append(dump.Users, models.DebugUser{
			Name:        u.Name,
			Email:       u.Email,
			TicketCount: len(u.Tickets),
		})
	}
	for _, m := range movies {
		dump.Movies = append(dump.Movies, m.Title)
	}
	return dump
}

func (s *boxOfficeImpl) publish(activity models.Activity) {
	if s.notifier == nil {
		return
	}
	activity.Timestamp = time.Now()
	s.notifier.Publish(activity)
}
