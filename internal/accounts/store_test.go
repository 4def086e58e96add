package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

type mockPersister struct {
	mock.Mock
}

func (m *mockPersister) SaveUsers(ctx context.Context, users []models.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func seedUsers() []models.User {
	return []models.User{
		{
			Name: "Admin", Email: "admin@test.com", Phone: "000", Password: "123",
			Tickets: []models.Ticket{
				{ID: 1000, MovieTitle: "Frozen 3", Date: "Today", Time: "2:00 PM", Experience: "IMAX", Seats: []string{"A1"}, TotalPrice: 22.5, Status: models.TicketStatusActive},
				{ID: 1001, MovieTitle: "Frozen 3", Date: "Today", Time: "8:00 PM", Experience: "Standard", Seats: []string{"B1"}, TotalPrice: 15, Status: models.TicketStatusCancelled},
			},
		},
		{Name: "Ann", Email: "ann@uni.edu", Phone: "555", Password: "pw", IsStudent: true, UniName: "MIT", StudentID: "S42"},
	}
}

func studentProfile(email string) models.Profile {
	return models.Profile{
		Name: "Bea", Email: email, Phone: "777", Password: "secret",
		IsStudent: true, UniName: "Oxford", StudentID: "OX1",
	}
}

func TestFindByCredentials(t *testing.T) {
	store := NewStore(seedUsers(), nil)

	tests := []struct {
		name      string
		user      string
		password  string
		wantEmail string
		wantErr   error
	}{
		{"valid admin", "Admin", "123", "admin@test.com", nil},
		{"valid student", "Ann", "pw", "ann@uni.edu", nil},
		{"wrong password", "Admin", "nope", "", ErrInvalidCredentials},
		{"unknown user", "Nobody", "123", "", ErrInvalidCredentials},
		{"name is case sensitive", "admin", "123", "", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := store.FindByCredentials(tt.user, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, models.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, u.Email)
		})
	}
}

func TestRegister_Success(t *testing.T) {
	persister := new(mockPersister)
	persister.On("SaveUsers", mock.Anything, mock.MatchedBy(func(users []models.User) bool {
		return len(users) == 3 && users[2].Email == "bea@ox.ac.uk"
	})).Return(nil).Once()

	store := NewStore(seedUsers(), persister)

	u, err := store.Register(context.Background(), studentProfile("bea@ox.ac.uk"))
	require.NoError(t, err)
	assert.Equal(t, "Bea", u.Name)
	assert.True(t, u.IsStudent)
	assert.Empty(t, u.Tickets)
	assert.Equal(t, 3, store.Len())
	assert.True(t, store.EmailExists("bea@ox.ac.uk"))

	persister.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	persister := new(mockPersister)
	store := NewStore(seedUsers(), persister)

	_, err := store.Register(context.Background(), studentProfile("admin@test.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, 2, store.Len())

	persister.AssertNotCalled(t, "SaveUsers", mock.Anything, mock.Anything)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *models.Profile)
		wantErr error
	}{
		{"empty name", func(p *models.Profile) { p.Name = "" }, ErrMissingField},
		{"blank email", func(p *models.Profile) { p.Email = "  " }, ErrMissingField},
		{"empty password", func(p *models.Profile) { p.Password = "" }, ErrMissingField},
		{"separator in name", func(p *models.Profile) { p.Name = "Bea;Admin" }, ErrInvalidField},
		{"newline in uni", func(p *models.Profile) { p.UniName = "Ox\nford" }, ErrInvalidField},
		{"ticket tag as name", func(p *models.Profile) { p.Name = "TICKET" }, ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(nil, nil)
			p := studentProfile("bea@ox.ac.uk")
			tt.mutate(&p)

			_, err := store.Register(context.Background(), p)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestRegister_PersistFailureRollsBack(t *testing.T) {
	persister := new(mockPersister)
	persister.On("SaveUsers", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	store := NewStore(seedUsers(), persister)

	_, err := store.Register(context.Background(), studentProfile("bea@ox.ac.uk"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 2, store.Len())
	assert.False(t, store.EmailExists("bea@ox.ac.uk"))
}

func TestAddTicket(t *testing.T) {
	persister := new(mockPersister)
	persister.On("SaveUsers", mock.Anything, mock.Anything).Return(nil).Once()
	store := NewStore(seedUsers(), persister)

	ticket := models.Ticket{ID: 1002, MovieTitle: "Avengers: Secret Wars", Date: "Tomorrow", Time: "10:00 AM", Experience: "Gold Class", Seats: []string{"C1", "C2"}, TotalPrice: 72, Status: models.TicketStatusActive}
	require.NoError(t, store.AddTicket(context.Background(), "ann@uni.edu", ticket))

	u, err := store.User("ann@uni.edu")
	require.NoError(t, err)
	require.Len(t, u.Tickets, 1)
	assert.Equal(t, ticket, u.Tickets[0])

	persister.AssertExpectations(t)
}

func TestAddTicket_Failures(t *testing.T) {
	persister := new(mockPersister)
	persister.On("SaveUsers", mock.Anything, mock.Anything).Return(errors.New("io error"))
	store := NewStore(seedUsers(), persister)

	ticket := models.Ticket{ID: 1002, Status: models.TicketStatusActive}

	err := store.AddTicket(context.Background(), "ghost@nowhere", ticket)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = store.AddTicket(context.Background(), "admin@test.com", ticket)
	assert.Error(t, err)

	u, _ := store.User("admin@test.com")
	assert.Len(t, u.Tickets, 2, "failed save must not leave the ticket behind")
}

func TestCancelTicket_Idempotence(t *testing.T) {
	persister := new(mockPersister)
	persister.On("SaveUsers", mock.Anything, mock.Anything).Return(nil).Once()
	store := NewStore(seedUsers(), persister)
	ctx := context.Background()

	cancelled, err := store.CancelTicket(ctx, "admin@test.com", 1000)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCancelled, cancelled.Status)

	_, err = store.CancelTicket(ctx, "admin@test.com", 1000)
	assert.ErrorIs(t, err, ErrTicketAlreadyCancelled)

	u, _ := store.User("admin@test.com")
	assert.Equal(t, models.TicketStatusCancelled, u.Tickets[0].Status)

	persister.AssertNumberOfCalls(t, "SaveUsers", 1)
}

func TestCancelTicket_Errors(t *testing.T) {
	store := NewStore(seedUsers(), nil)
	ctx := context.Background()

	_, err := store.CancelTicket(ctx, "admin@test.com", 4242)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = store.CancelTicket(ctx, "admin@test.com", 1001)
	assert.ErrorIs(t, err, ErrTicketAlreadyCancelled)

	_, err = store.CancelTicket(ctx, "ann@uni.edu", 1000)
	assert.ErrorIs(t, err, ErrTicketNotFound, "tickets of other users are not visible")

	_, err = store.CancelTicket(ctx, "ghost@nowhere", 1000)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCancelTicket_PersistFailureRestoresStatus(t *testing.T) {
	persister := new(mockPersister)
	persister.On("SaveUsers", mock.Anything, mock.Anything).Return(errors.New("read-only"))
	store := NewStore(seedUsers(), persister)

	_, err := store.CancelTicket(context.Background(), "admin@test.com", 1000)
	assert.Error(t, err)

	u, _ := store.User("admin@test.com")
	assert.Equal(t, models.TicketStatusActive, u.Tickets[0].Status)
}

func TestUsersReturnsCopies(t *testing.T) {
	store := NewStore(seedUsers(), nil)

	users := store.Users()
	users[0].Tickets[0].Seats[0] = "Z9"
	users[0].Name = "Changed"

	u, _ := store.User("admin@test.com")
	assert.Equal(t, "Admin", u.Name)
	assert.Equal(t, "A1", u.Tickets[0].Seats[0])
}
