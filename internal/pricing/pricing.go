// Package pricing computes ticket totals from seat categories and the
// chosen experience.
package pricing

import (
	"fmt"

	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

const (
	// StudentRate is the fraction of the base price a student pays
	StudentRate = 0.8

	IMAXMultiplier      = 1.5
	GoldClassMultiplier = 2.0
)

var (
	ErrCountMismatch = fmt.Errorf("%w: adult and student counts do not match the number of seats", models.ErrValidation)
	ErrNegativeCount = fmt.Errorf("%w: seat counts cannot be negative", models.ErrValidation)
	ErrNegativePrice = fmt.Errorf("%w: base price cannot be negative", models.ErrValidation)
)

// Multiplier returns the price factor for an experience label.
// Unknown labels, Standard included, are charged at face value.
func Multiplier(experience string) float64 {
	switch experience {
	case models.ExperienceIMAX:
		return IMAXMultiplier
	case models.ExperienceGoldClass:
		return GoldClassMultiplier
	default:
		return 1.0
	}
}

// Price returns the total for the given seat categories
func Price(adults, students int, basePrice float64, experience string) float64 {
	subtotal := float64(adults)*basePrice + float64(students)*basePrice*StudentRate
	return subtotal * Multiplier(experience)
}

// Quote validates the categorisation against the number of selected seats
// and prices it. Nothing is computed when validation fails.
func Quote(seatCount, adults, students int, basePrice float64, experience string) (float64, error) {
	if adults < 0 || students < 0 {
		return 0, ErrNegativeCount
	}
	if basePrice < 0 {
		return 0, ErrNegativePrice
	}
	if adults+students != seatCount {
		return 0, fmt.Errorf("%w (seats: %d, adults: %d, students: %d)", ErrCountMismatch, seatCount, adults, students)
	}
	return Price(adults, students, basePrice, experience), nil
}
