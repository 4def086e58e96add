package models

import "time"

// ActivityType names a box office event pushed to live subscribers
type ActivityType string

const (
	ActivityTicketIssued    ActivityType = "ticket_issued"
	ActivityTicketCancelled ActivityType = "ticket_cancelled"
	ActivityUserRegistered  ActivityType = "user_registered"
)

// Activity is one box office event. Personal details are left out.
type Activity struct {
	Type       ActivityType `json:"type"`
	TicketID   int          `json:"ticketId,omitempty"`
	MovieTitle string       `json:"movieTitle,omitempty"`
	Experience string       `json:"experience,omitempty"`
	Seats      int          `json:"seats,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// DebugUser is one line of the debug dump
type DebugUser struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	TicketCount int    `json:"ticketCount"`
}

// DebugDump summarises the loaded data
type DebugDump struct {
	Users        []DebugUser `json:"users"`
	Movies       []string    `json:"movies"`
	NextTicketID int         `json:"nextTicketId"`
}
