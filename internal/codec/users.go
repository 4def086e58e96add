package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

const (
	userFieldCount = 7
	// a ticket line without its seat field is still accepted
	minTicketFieldCount = 8
	maxTicketFieldCount = 9
)

// FormatUser encodes name;email;phone;password;isStudent;uniName;studentID
func FormatUser(u models.User) string {
	return joinFields(
		u.Name,
		u.Email,
		u.Phone,
		u.Password,
		formatBool(u.IsStudent),
		u.UniName,
		u.StudentID,
	)
}

// ParseUser decodes a user line. The returned user has no tickets.
func ParseUser(line string) (models.User, error) {
	return parseUserFields(strings.Split(line, FieldSeparator))
}

func parseUserFields(fields []string) (models.User, error) {
	if len(fields) != userFieldCount {
		return models.User{}, fmt.Errorf("%w: user has %d, want %d", ErrFieldCount, len(fields), userFieldCount)
	}

	return models.User{
		Name:      fields[0],
		Email:     fields[1],
		Phone:     fields[2],
		Password:  fields[3],
		IsStudent: fields[4] == "1",
		UniName:   fields[5],
		StudentID: fields[6],
	}, nil
}

// FormatTicket encodes TICKET;id;movieTitle;date;time;experience;totalPrice;status;seats
func FormatTicket(t models.Ticket) string {
	return joinFields(
		TicketTag,
		strconv.Itoa(t.ID),
		t.MovieTitle,
		t.Date,
		t.Time,
		t.Experience,
		formatAmount(t.TotalPrice),
		string(t.Status),
		strings.Join(t.Seats, SeatSeparator),
	)
}

// ParseTicket decodes a TICKET line
func ParseTicket(line string) (models.Ticket, error) {
	return parseTicketFields(strings.Split(line, FieldSeparator))
}

func parseTicketFields(fields []string) (models.Ticket, error) {
	if len(fields) < minTicketFieldCount || len(fields) > maxTicketFieldCount {
		return models.Ticket{}, fmt.Errorf("%w: ticket has %d, want %d", ErrFieldCount, len(fields), maxTicketFieldCount)
	}
	if fields[0] != TicketTag {
		return models.Ticket{}, fmt.Errorf("%w: missing %s tag", ErrFieldCount, TicketTag)
	}

	id, err := parsePositiveInt(fields[1], "ticket id")
	if err != nil {
		return models.Ticket{}, err
	}
	total, err := parseAmount(fields[6], "total price")
	if err != nil {
		return models.Ticket{}, err
	}

	status := models.TicketStatus(fields[7])
	if status != models.TicketStatusActive && status != models.TicketStatusCancelled {
		return models.Ticket{}, fmt.Errorf("%w: %q", ErrInvalidStatus, fields[7])
	}

	var seats []string
	if len(fields) == maxTicketFieldCount && fields[8] != "" {
		seats = strings.Split(fields[8], SeatSeparator)
	}

	return models.Ticket{
		ID:         id,
		MovieTitle: fields[2],
		Date:       fields[3],
		Time:       fields[4],
		Experience: fields[5],
		Seats:      seats,
		TotalPrice: total,
		Status:     status,
	}, nil
}

// WriteUsers writes every user followed by its tickets and an END_USER line
func WriteUsers(w io.Writer, users []models.User) error {
	bw := bufio.NewWriter(w)
	for _, u := range users {
		if _, err := bw.WriteString(FormatUser(u) + "\n"); err != nil {
			return fmt.Errorf("failed to write user %s: %w", u.Email, err)
		}
		for _, t := range u.Tickets {
			if _, err := bw.WriteString(FormatTicket(t) + "\n"); err != nil {
				return fmt.Errorf("failed to write ticket %d: %w", t.ID, err)
			}
		}
		if _, err := bw.WriteString(EndUserTag + "\n"); err != nil {
			return fmt.Errorf("failed to write user %s: %w", u.Email, err)
		}
	}
	return bw.Flush()
}

// ReadUsers decodes users and their nested tickets. Malformed lines are
// skipped and reported. A malformed user line also detaches the ticket
// lines that follow it, which are then reported as orphans instead of
// being credited to the previous user.
func ReadUsers(r io.Reader) ([]models.User, []*ParseError, error) {
	var (
		users   []models.User
		skipped []*ParseError
		lineNo  int
	)
	current := -1

	scanner := newScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if line == EndUserTag {
			current = -1
			continue
		}
		if line == "" {
			continue
		}

		fields := strings.Split(line, FieldSeparator)
		if fields[0] == TicketTag {
			if current < 0 {
				skipped = append(skipped, &ParseError{Line: lineNo, Text: line, Err: ErrOrphanTicket})
				continue
			}
			t, err := parseTicketFields(fields)
			if err != nil {
				skipped = append(skipped, &ParseError{Line: lineNo, Text: line, Err: err})
				continue
			}
			users[current].Tickets = append(users[current].Tickets, t)
			continue
		}

		u, err := parseUserFields(fields)
		if err != nil {
			skipped = append(skipped, &ParseError{Line: lineNo, Text: line, Err: err})
			current = -1
			continue
		}
		users = append(users, u)
		current = len(users) - 1
	}
	if err := scanner.Err(); err != nil {
		return users, skipped, fmt.Errorf("failed to read users: %w", err)
	}

	return users, skipped, nil
}
