// Package booking implements the booking flow as a chain of transition
// functions over a Draft value. Every step validates its input and returns
// a new Draft; nothing is stored until Issue.
package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/codec"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/pricing"
	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

// State is the position of a draft in the booking flow
type State string

const (
	StateMovieSelected        State = "movie_selected"
	StateDateSelected         State = "date_selected"
	StateExperienceSelected   State = "experience_selected"
	StateShowtimeSelected     State = "showtime_selected"
	StateSeatsSelected        State = "seats_selected"
	StateCategorizedAndPriced State = "categorized_and_priced"
	StatePaymentConfirmed     State = "payment_confirmed"
	StateTicketIssued         State = "ticket_issued"
)

// DoneToken ends seat entry
const DoneToken = "done"

// DateOptions are the bookable dates, chosen by 1-based index
var DateOptions = []string{"Today", "Tomorrow"}

var (
	ErrInvalidDate       = fmt.Errorf("%w: invalid date", models.ErrValidation)
	ErrInvalidExperience = fmt.Errorf("%w: invalid experience", models.ErrValidation)
	ErrInvalidShowtime   = fmt.Errorf("%w: invalid showtime", models.ErrValidation)
	ErrNoSeats           = fmt.Errorf("%w: no seats selected", models.ErrValidation)
	ErrInvalidSeat       = fmt.Errorf("%w: seat label contains a reserved character", models.ErrValidation)
	ErrPaymentDeclined   = fmt.Errorf("%w: payment not confirmed", models.ErrValidation)
	ErrOutOfOrder        = fmt.Errorf("%w: booking step out of order", models.ErrValidation)
)

// Draft is an in-progress booking
type Draft struct {
	State      State        `json:"state"`
	Movie      models.Movie `json:"movie"`
	Date       string       `json:"date,omitempty"`
	Experience string       `json:"experience,omitempty"`
	Showtime   string       `json:"showtime,omitempty"`
	Seats      []string     `json:"seats,omitempty"`
	Adults     int          `json:"adults"`
	Students   int          `json:"students"`
	Total      float64      `json:"total"`
}

// IDAllocator hands out ticket IDs
type IDAllocator interface {
	Next() int
}

// TicketIssuer stores an issued ticket against a user
type TicketIssuer interface {
	AddTicket(ctx context.Context, email string, ticket models.Ticket) error
}

// Start opens a draft for movie
func Start(movie models.Movie) Draft {
	return Draft{State: StateMovieSelected, Movie: movie}
}

// SelectDate picks a date by 1-based index into DateOptions
func SelectDate(d Draft, choice int) (Draft, error) {
	if err := d.expect(StateMovieSelected); err != nil {
		return d, err
	}
	date, ok := pick(DateOptions, choice)
	if !ok {
		return d, fmt.Errorf("%w: choice %d", ErrInvalidDate, choice)
	}

	d.Date = date
	d.State = StateDateSelected
	return d, nil
}

// SelectExperience picks one of the movie's experiences by 1-based index
func SelectExperience(d Draft, choice int) (Draft, error) {
	if err := d.expect(StateDateSelected); err != nil {
		return d, err
	}
	exp, ok := pick(d.Movie.Experiences, choice)
	if !ok {
		return d, fmt.Errorf("%w: choice %d of %d", ErrInvalidExperience, choice, len(d.Movie.Experiences))
	}

	d.Experience = exp
	d.State = StateExperienceSelected
	return d, nil
}

// SelectShowtime picks one of the movie's showtimes by 1-based index
func SelectShowtime(d Draft, choice int) (Draft, error) {
	if err := d.expect(StateExperienceSelected); err != nil {
		return d, err
	}
	showtime, ok := pick(d.Movie.Showtimes, choice)
	if !ok {
		return d, fmt.Errorf("%w: choice %d of %d", ErrInvalidShowtime, choice, len(d.Movie.Showtimes))
	}

	d.Showtime = showtime
	d.State = StateShowtimeSelected
	return d, nil
}

// SelectSeats records seat labels in entry order, stopping at DoneToken.
// Labels are free text apart from the ';' and ',' separators, which the
// ticket record cannot hold. Duplicates are kept.
func SelectSeats(d Draft, labels []string) (Draft, error) {
	if err := d.expect(StateShowtimeSelected); err != nil {
		return d, err
	}

	var seats []string
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == DoneToken {
			break
		}
		if label == "" {
			continue
		}
		if codec.ContainsReserved(label) || strings.Contains(label, codec.SeatSeparator) {
			return d, fmt.Errorf("%w: %q", ErrInvalidSeat, label)
		}
		seats = append(seats, label)
	}
	if len(seats) == 0 {
		return d, ErrNoSeats
	}

	d.Seats = seats
	d.State = StateSeatsSelected
	return d, nil
}

// Categorize splits the seats into adult and student tickets and prices
// the booking.
func Categorize(d Draft, adults, students int) (Draft, error) {
	if err := d.expect(StateSeatsSelected); err != nil {
		return d, err
	}
	total, err := pricing.Quote(len(d.Seats), adults, students, d.Movie.BasePrice, d.Experience)
	if err != nil {
		return d, err
	}

	d.Adults = adults
	d.Students = students
	d.Total = total
	d.State = StateCategorizedAndPriced
	return d, nil
}

// ConfirmPayment accepts "y" or "yes" in any case. Any other answer
// declines.
func ConfirmPayment(d Draft, answer string) (Draft, error) {
	if err := d.expect(StateCategorizedAndPriced); err != nil {
		return d, err
	}
	if !IsAffirmative(answer) {
		return d, ErrPaymentDeclined
	}

	d.State = StatePaymentConfirmed
	return d, nil
}

// Issue allocates an ID, builds the active ticket and stores it against the
// user. The ID is consumed even when storing fails.
func Issue(ctx context.Context, d Draft, email string, ids IDAllocator, issuer TicketIssuer) (models.Ticket, error) {
	if err := d.expect(StatePaymentConfirmed); err != nil {
		return models.Ticket{}, err
	}

	ticket := models.Ticket{
		ID:         ids.Next(),
		MovieTitle: d.Movie.Title,
		Date:       d.Date,
		Time:       d.Showtime,
		Experience: d.Experience,
		Seats:      append([]string(nil), d.Seats...),
		TotalPrice: d.Total,
		Status:     models.TicketStatusActive,
	}

	if err := issuer.AddTicket(ctx, email, ticket); err != nil {
		logrus.WithFields(logrus.Fields{
			"ticket_id": ticket.ID,
			"email":     email,
		}).Errorf("Failed to issue ticket: %v", err)
		return models.Ticket{}, fmt.Errorf("failed to issue ticket %d: %w", ticket.ID, err)
	}

	logrus.WithFields(logrus.Fields{
		"ticket_id": ticket.ID,
		"movie":     ticket.MovieTitle,
		"seats":     len(ticket.Seats),
		"total":     ticket.TotalPrice,
	}).Info("Ticket issued")

	return ticket, nil
}

// IsAffirmative reports whether answer is a yes
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func (d Draft) expect(state State) error {
	if d.State != state {
		return fmt.Errorf("%w: at %s, need %s", ErrOutOfOrder, d.State, state)
	}
	return nil
}

func pick(options []string, choice int) (string, bool) {
	if choice < 1 || choice > len(options) {
		return "", false
	}
	return options[choice-1], true
}
