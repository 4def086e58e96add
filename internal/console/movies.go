package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/booking"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/pricing"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/service"
	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

func (c *Console) browse(ctx context.Context, session *service.Session, title string, movies []models.Movie) error {
	c.heading(title)
	if len(movies) == 0 {
		c.println("No movies available.")
		return nil
	}

	for i, m := range movies {
		c.printf("%d. %s %s\n", i+1, m.Title, c.faint.Render(fmt.Sprintf("(%s, %s)", m.Genre, formatMoney(m.BasePrice))))
	}
	choice, err := c.readInt("Select movie (0 to back): ")
	if err != nil {
		return err
	}
	if choice < 1 || choice > len(movies) {
		return nil
	}
	return c.movieDetails(ctx, session, movies[choice-1])
}

func (c *Console) movieDetails(ctx context.Context, session *service.Session, m models.Movie) error {
	c.heading(strings.ToUpper(m.Title))
	c.printf("Genre: %s\n", m.Genre)
	c.printf("Director: %s\n", m.Director)
	c.printf("Release: %s\n", m.ReleaseDate)
	c.printf("Duration: %s\n", m.RunningTime)
	if m.Language != "" {
		c.printf("Language: %s\n", m.Language)
	}
	c.printf("Price: %s\n", formatMoney(m.BasePrice))

	c.menu("Buy Ticket", "Back")
	choice, err := c.readInt("Choice: ")
	if err != nil {
		return err
	}
	if choice != 1 {
		return nil
	}
	return c.buy(ctx, session, m)
}

// buy walks one booking attempt. Any invalid answer ends the attempt with
// a message and nothing stored.
func (c *Console) buy(ctx context.Context, session *service.Session, m models.Movie) error {
	d := booking.Start(m)

	c.println("Select Date:")
	c.menu(booking.DateOptions...)
	choice, err := c.readInt("Choice: ")
	if err != nil {
		return err
	}
	if d, err = booking.SelectDate(d, choice); err != nil {
		c.fail("Invalid date.")
		return nil
	}

	c.println("Select Experience:")
	for i, exp := range m.Experiences {
		c.printf("%d. %s %s\n", i+1, exp, c.faint.Render(fmt.Sprintf("x%g", pricing.Multiplier(exp))))
	}
	if choice, err = c.readInt("Choice: "); err != nil {
		return err
	}
	if d, err = booking.SelectExperience(d, choice); err != nil {
		c.fail("Invalid experience.")
		return nil
	}

	c.println("Select Showtime:")
	c.menu(m.Showtimes...)
	if choice, err = c.readInt("Choice: "); err != nil {
		return err
	}
	if d, err = booking.SelectShowtime(d, choice); err != nil {
		c.fail("Invalid showtime.")
		return nil
	}

	seats, err := c.readSeats()
	if err != nil {
		return err
	}
	if d, err = booking.SelectSeats(d, seats); err != nil {
		if errors.Is(err, booking.ErrNoSeats) {
			c.fail("No seats selected.")
		} else {
			c.fail(fmt.Sprintf("Invalid seat: %v", err))
		}
		return nil
	}

	c.printf("%d seat(s) selected.\n", len(d.Seats))
	adults, err := c.readInt("Adults: ")
	if err != nil {
		return err
	}
	students, err := c.readInt("Students: ")
	if err != nil {
		return err
	}
	if d, err = booking.Categorize(d, adults, students); err != nil {
		if errors.Is(err, pricing.ErrCountMismatch) {
			c.fail("Count mismatch!")
		} else {
			c.fail("Counts cannot be negative.")
		}
		return nil
	}

	c.printf("Total: %s\n", formatMoney(d.Total))
	answer, err := c.readLine("Confirm Pay? (y/n): ")
	if err != nil {
		return err
	}
	if d, err = booking.ConfirmPayment(d, answer); err != nil {
		c.fail("Payment cancelled.")
		return nil
	}

	ticket, err := c.svc.IssueTicket(ctx, session, d)
	if err != nil {
		c.fail(fmt.Sprintf("Booking failed: %v", err))
		return nil
	}

	c.receipt(ticket)
	c.ok("Saved to My Tickets.")
	return nil
}

// readSeats collects seat labels until a "done" token. Several labels may
// share a line, separated by spaces or commas.
func (c *Console) readSeats() ([]string, error) {
	var labels []string
	for {
		line, err := c.readLine("Enter Seat (or '" + booking.DoneToken + "'): ")
		if err != nil {
			return nil, err
		}
		for _, token := range strings.FieldsFunc(line, isSeatSeparator) {
			labels = append(labels, token)
			if token == booking.DoneToken {
				return labels, nil
			}
		}
	}
}

func isSeatSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == ';'
}

func (c *Console) receipt(t models.Ticket) {
	c.heading("RECEIPT")
	c.printf("ID: %d\n", t.ID)
	c.printf("Movie: %s\n", t.MovieTitle)
	c.printf("When: %s %s\n", t.Date, t.Time)
	c.printf("Experience: %s\n", t.Experience)
	c.printf("Seats: %s\n", strings.Join(t.Seats, ", "))
	c.printf("Paid: %s\n", formatMoney(t.TotalPrice))
}
