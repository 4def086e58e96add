// Package codec reads and writes the box office's line-oriented text format.
//
// Every record is one line of positional fields separated by ';'. A user
// line is followed by the user's TICKET lines and closed by an END_USER
// line. The last field of a ticket line is itself a ','-joined seat list.
// Nothing outside this package deals with delimiter text.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	FieldSeparator = ";"
	SeatSeparator  = ","
	TicketTag      = "TICKET"
	EndUserTag     = "END_USER"

	maxLineLength = 1024 * 1024
)

var (
	ErrFieldCount    = errors.New("wrong number of fields")
	ErrInvalidNumber = errors.New("invalid number")
	ErrInvalidStatus = errors.New("invalid ticket status")
	ErrOrphanTicket  = errors.New("ticket line outside a user record")
)

// ParseError describes a line that was skipped while reading
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ContainsReserved reports whether s holds a character that would break
// the line format if written as a field.
func ContainsReserved(s string) bool {
	return strings.ContainsAny(s, FieldSeparator+"\r\n")
}

func parsePositiveInt(field, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumber, name, field)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidNumber, name, n)
	}
	return n, nil
}

func parseAmount(field, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumber, name, field)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s cannot be negative, got %v", ErrInvalidNumber, name, v)
	}
	return v, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func joinFields(fields ...string) string {
	return strings.Join(fields, FieldSeparator)
}
