// Package console is the line-oriented terminal front end of the box office.
//
// Every page reads one line at a time. Menu choices are integers and a
// non-numeric answer is re-prompted; an out-of-range answer abandons the
// current step and returns to the enclosing menu. End of input exits
// cleanly from any page.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/service"
)

// errQuit unwinds every page when input ends or the user exits
var errQuit = errors.New("quit")

// Console drives a BoxOffice from a reader and a writer
type Console struct {
	svc           service.BoxOffice
	in            *bufio.Reader
	out           io.Writer
	loginAttempts int
	passwordFD    int
	hasTerminal   bool

	header  lipgloss.Style
	title   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	faint   lipgloss.Style
}

// Option configures a Console
type Option func(*Console)

// WithTerminal reads passwords from fd with echo disabled when fd is a
// terminal.
func WithTerminal(fd int) Option {
	return func(c *Console) {
		if term.IsTerminal(fd) {
			c.passwordFD = fd
			c.hasTerminal = true
		}
	}
}

// New creates a console. loginAttempts below one is treated as one.
func New(svc service.BoxOffice, in io.Reader, out io.Writer, loginAttempts int, opts ...Option) *Console {
	if loginAttempts < 1 {
		loginAttempts = 1
	}

	r := lipgloss.NewRenderer(out)
	c := &Console{
		svc:           svc,
		in:            bufio.NewReader(in),
		out:           out,
		loginAttempts: loginAttempts,
		header:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		title:         r.NewStyle().Bold(true),
		success:       r.NewStyle().Foreground(lipgloss.Color("42")),
		failure:       r.NewStyle().Foreground(lipgloss.Color("196")),
		faint:         r.NewStyle().Faint(true),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the welcome menu until the user exits, input ends or ctx is
// cancelled.
func (c *Console) Run(ctx context.Context) error {
	err := c.welcome(ctx)
	if errors.Is(err, errQuit) {
		c.println("Goodbye!")
		return nil
	}
	return err
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) heading(s string) {
	c.println("")
	c.println(c.header.Render("=== " + s + " ==="))
}

func (c *Console) ok(s string) {
	c.println(c.success.Render(s))
}

func (c *Console) fail(s string) {
	c.println(c.failure.Render(s))
}

func (c *Console) menu(options ...string) {
	for i, o := range options {
		c.printf("%d. %s\n", i+1, o)
	}
}

// readLine prompts and returns one line without its line ending
func (c *Console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			c.println("")
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readInt prompts until the answer parses as an integer
func (c *Console) readInt(prompt string) (int, error) {
	line, err := c.readLine(prompt)
	for {
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil {
			return n, nil
		}
		line, err = c.readLine("Invalid. Enter number: ")
	}
}

// readPassword reads without echo on a terminal, otherwise as a plain line
func (c *Console) readPassword(prompt string) (string, error) {
	if !c.hasTerminal {
		return c.readLine(prompt)
	}

	c.printf("%s", prompt)
	b, err := term.ReadPassword(c.passwordFD)
	c.println("")
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
