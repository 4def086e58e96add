package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("BOXOFFICE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BOXOFFICE_TEST_DATABASE_URL not set")
	}

	store, err := NewPostgresStore(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	_, err = store.pool.Exec(context.Background(), `TRUNCATE tickets, users, movies`)
	require.NoError(t, err)
	return store
}

func TestPostgresStore_EmptyDatabaseSeeds(t *testing.T) {
	store := newTestPostgresStore(t)

	result, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Seeded)
	assert.Len(t, result.Movies, 2)
	assert.Len(t, result.Users, 1)
}

func TestPostgresStore_SaveThenLoadRoundTrip(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

	data := SeedDataset()
	data.Users[0].Tickets = []models.Ticket{
		{ID: 1000, MovieTitle: "Frozen 3", Date: "Today", Time: "4:00 PM", Experience: "IMAX", Seats: []string{"A1", "A2"}, TotalPrice: 45, Status: models.TicketStatusActive},
		{ID: 1001, MovieTitle: "Frozen 3", Date: "Tomorrow", Time: "11:00 AM", Experience: "Standard", TotalPrice: 0, Status: models.TicketStatusCancelled},
	}
	data.Users = append(data.Users, models.User{Name: "Ann", Email: "ann@uni.edu", Phone: "555", Password: "pw", IsStudent: true, UniName: "MIT", StudentID: "S42"})

	require.NoError(t, store.Save(ctx, data))
	require.NoError(t, store.Save(ctx, data), "saving twice replaces rows")

	result, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, result.Seeded)
	assert.Equal(t, data.Users, result.Users)
	require.Len(t, result.Movies, 2)
	assert.Equal(t, models.DefaultShowtimes, result.Movies[0].Showtimes)
}
