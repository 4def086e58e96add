package models

import "fmt"

// TicketStatus is the lifecycle state of an issued ticket
type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "Active"
	TicketStatusCancelled TicketStatus = "Cancelled"
)

// Ticket represents an issued booking. MovieTitle is copied at booking time
// so later catalog changes never alter past tickets.
type Ticket struct {
	ID         int          `json:"id"`
	MovieTitle string       `json:"movieTitle"`
	Date       string       `json:"date"`
	Time       string       `json:"time"`
	Experience string       `json:"experience"`
	Seats      []string     `json:"seats"`
	TotalPrice float64      `json:"totalPrice"`
	Status     TicketStatus `json:"status"`
}

// Details returns the one-line summary shown in ticket listings
func (t Ticket) Details() string {
	return fmt.Sprintf("ID: %d | Movie: %s | Status: %s", t.ID, t.MovieTitle, t.Status)
}

// IsActive reports whether the ticket can still be cancelled
func (t Ticket) IsActive() bool {
	return t.Status == TicketStatusActive
}

// Clone returns a copy with its own seat slice
func (t Ticket) Clone() Ticket {
	out := t
	out.Seats = append([]string(nil), t.Seats...)
	return out
}
