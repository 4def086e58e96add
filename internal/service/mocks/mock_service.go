package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/booking"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/service"
	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

// MockBoxOffice is a mock implementation of BoxOffice
type MockBoxOffice struct {
	mock.Mock
}

func (m *MockBoxOffice) Login(ctx context.Context, name, password string) (*service.Session, error) {
	args := m.Called(ctx, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockBoxOffice) Logout(ctx context.Context, session *service.Session) {
	m.Called(ctx, session)
}

func (m *MockBoxOffice) EmailTaken(ctx context.Context, email string) bool {
	args := m.Called(ctx, email)
	return args.Bool(0)
}

func (m *MockBoxOffice) Register(ctx context.Context, profile models.Profile) (models.User, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockBoxOffice) CurrentUser(ctx context.Context, session *service.Session) (models.User, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockBoxOffice) Movies(ctx context.Context) []models.Movie {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Movie)
}

func (m *MockBoxOffice) Movie(ctx context.Context, id int) (models.Movie, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Movie), args.Error(1)
}

func (m *MockBoxOffice) Recommendations(ctx context.Context) []models.Movie {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Movie)
}

func (m *MockBoxOffice) IssueTicket(ctx context.Context, session *service.Session, draft booking.Draft) (models.Ticket, error) {
	args := m.Called(ctx, session, draft)
	return args.Get(0).(models.Ticket), args.Error(1)
}

func (m *MockBoxOffice) Tickets(ctx context.Context, session *service.Session) ([]models.Ticket, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockBoxOffice) CancelTicket(ctx context.Context, session *service.Session, ticketID int) (models.Ticket, error) {
	args := m.Called(ctx, session, ticketID)
	return args.Get(0).(models.Ticket), args.Error(1)
}

func (m *MockBoxOffice) Debug(ctx context.Context) models.DebugDump {
	args := m.Called(ctx)
	return args.Get(0).(models.DebugDump)
}

var _ service.BoxOffice = (*MockBoxOffice)(nil)
