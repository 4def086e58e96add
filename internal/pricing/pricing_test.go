package pricing

import (
	"testing"

	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name       string
		adults     int
		students   int
		basePrice  float64
		experience string
		expected   float64
	}{
		{name: "imax mixed", adults: 2, students: 1, basePrice: 20.0, experience: "IMAX", expected: 84.0},
		{name: "standard single adult", adults: 1, students: 0, basePrice: 15.0, experience: "Standard", expected: 15.0},
		{name: "gold class students", adults: 0, students: 3, basePrice: 10.0, experience: "Gold Class", expected: 48.0},
		{name: "unknown experience is face value", adults: 1, students: 1, basePrice: 10.0, experience: "Kids Hall", expected: 18.0},
		{name: "free screening", adults: 4, students: 0, basePrice: 0, experience: "IMAX", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Price(tt.adults, tt.students, tt.basePrice, tt.experience)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestPrice_Deterministic(t *testing.T) {
	first := Price(3, 2, 12.5, "IMAX")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Price(3, 2, 12.5, "IMAX"))
	}
}

func TestQuote(t *testing.T) {
	total, err := Quote(3, 2, 1, 20.0, models.ExperienceIMAX)
	require.NoError(t, err)
	assert.InDelta(t, 84.0, total, 1e-9)
}

func TestQuote_ValidationFailures(t *testing.T) {
	tests := []struct {
		name      string
		seats     int
		adults    int
		students  int
		basePrice float64
		expected  error
	}{
		{name: "sum below seat count", seats: 3, adults: 1, students: 1, basePrice: 10, expected: ErrCountMismatch},
		{name: "sum above seat count", seats: 1, adults: 1, students: 1, basePrice: 10, expected: ErrCountMismatch},
		{name: "negative adults", seats: 1, adults: -1, students: 2, basePrice: 10, expected: ErrNegativeCount},
		{name: "negative base price", seats: 1, adults: 1, students: 0, basePrice: -1, expected: ErrNegativePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := Quote(tt.seats, tt.adults, tt.students, tt.basePrice, models.ExperienceStandard)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Zero(t, total)
		})
	}
}

func TestMultiplier(t *testing.T) {
	assert.Equal(t, 1.5, Multiplier("IMAX"))
	assert.Equal(t, 2.0, Multiplier("Gold Class"))
	assert.Equal(t, 1.0, Multiplier("Standard"))
	assert.Equal(t, 1.0, Multiplier("imax"))
}
