package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/accounts"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/service"
)

func (c *Console) myTickets(ctx context.Context, session *service.Session) error {
	tickets, err := c.svc.Tickets(ctx, session)
	if err != nil {
		c.fail(fmt.Sprintf("Could not load tickets: %v", err))
		return nil
	}

	c.heading("MY TICKETS")
	if len(tickets) == 0 {
		c.println("No tickets.")
		return nil
	}

	for _, t := range tickets {
		line := t.Details()
		if t.IsActive() {
			c.println(c.success.Render(line))
		} else {
			c.println(c.faint.Render(line))
		}
		c.println(c.faint.Render(fmt.Sprintf("    %s %s | %s | Seats: %s | %s",
			t.Date, t.Time, t.Experience, strings.Join(t.Seats, ","), formatMoney(t.TotalPrice))))
	}

	id, err := c.readInt("Enter ID to cancel or 0 to back: ")
	if err != nil {
		return err
	}
	if id == 0 {
		return nil
	}

	_, err = c.svc.CancelTicket(ctx, session, id)
	switch {
	case err == nil:
		c.ok("Ticket Cancelled.")
	case errors.Is(err, accounts.ErrTicketAlreadyCancelled):
		c.fail("Ticket already cancelled.")
	case errors.Is(err, accounts.ErrTicketNotFound):
		c.fail("Ticket not found.")
	default:
		c.fail(fmt.Sprintf("Cancellation failed: %v", err))
	}
	return nil
}
