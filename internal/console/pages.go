package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/accounts"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/booking"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/service"
	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

// debugChoice opens the hidden data dump from the welcome menu
const debugChoice = 9

func (c *Console) welcome(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.heading("CINEMA BOX OFFICE")
		c.menu("Login", "Register", "Exit")
		choice, err := c.readInt("Choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.login(ctx)
		case 2:
			err = c.register(ctx)
		case 3:
			return errQuit
		case debugChoice:
			c.debug(ctx)
		default:
			c.fail("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) login(ctx context.Context) error {
	c.heading("LOGIN")
	for attempt := 0; attempt < c.loginAttempts; attempt++ {
		name, err := c.readLine("Name: ")
		if err != nil {
			return err
		}
		password, err := c.readPassword("Password: ")
		if err != nil {
			return err
		}

		session, err := c.svc.Login(ctx, name, password)
		if err == nil {
			return c.home(ctx, session)
		}
		c.fail("Invalid Credentials!")
	}

	c.fail("Too many attempts.")
	return nil
}

func (c *Console) register(ctx context.Context) error {
	c.heading("REGISTER")

	var p models.Profile
	var err error
	if p.Name, err = c.readLine("Name: "); err != nil {
		return err
	}
	if p.Email, err = c.readLine("Email: "); err != nil {
		return err
	}
	if c.svc.EmailTaken(ctx, p.Email) {
		c.fail("Email already exists!")
		return nil
	}
	if p.Phone, err = c.readLine("Phone: "); err != nil {
		return err
	}
	if p.Password, err = c.readPassword("Password: "); err != nil {
		return err
	}

	answer, err := c.readLine("Student? (y/n): ")
	if err != nil {
		return err
	}
	if booking.IsAffirmative(answer) {
		p.IsStudent = true
		if p.UniName, err = c.readLine("Uni Name: "); err != nil {
			return err
		}
		if p.StudentID, err = c.readLine("Student ID: "); err != nil {
			return err
		}
	}

	_, err = c.svc.Register(ctx, p)
	switch {
	case err == nil:
		c.ok("Success! Please Login.")
	case errors.Is(err, accounts.ErrDuplicateEmail):
		c.fail("Email already exists!")
	case errors.Is(err, accounts.ErrMissingField):
		c.fail("Name, email and password are required.")
	case errors.Is(err, accounts.ErrInvalidField):
		c.fail("Fields cannot contain ';' or line breaks.")
	default:
		c.fail(fmt.Sprintf("Registration failed: %v", err))
	}
	return nil
}

func (c *Console) home(ctx context.Context, session *service.Session) error {
	defer c.svc.Logout(ctx, session)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.heading("HOME")
		c.println(c.title.Render("Welcome, " + session.Name))
		c.menu("Recommendations", "All Movies", "My Tickets", "Profile", "Logout")
		choice, err := c.readInt("Choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.browse(ctx, session, "RECOMMENDED FOR YOU", c.svc.Recommendations(ctx))
		case 2:
			err = c.browse(ctx, session, "ALL MOVIES", c.svc.Movies(ctx))
		case 3:
			err = c.myTickets(ctx, session)
		case 4:
			c.profile(ctx, session)
		case 5:
			c.ok("Logged out.")
			return nil
		default:
			c.fail("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) profile(ctx context.Context, session *service.Session) {
	u, err := c.svc.CurrentUser(ctx, session)
	if err != nil {
		c.fail(fmt.Sprintf("Could not load profile: %v", err))
		return
	}

	c.heading("PROFILE")
	c.printf("Name: %s\n", u.Name)
	c.printf("Email: %s\n", u.Email)
	c.printf("Phone: %s\n", u.Phone)
	if u.IsStudent {
		c.printf("Student: Yes (%s, ID %s)\n", u.UniName, u.StudentID)
	} else {
		c.println("Student: No")
	}
	c.printf("Tickets: %d\n", len(u.Tickets))
}

func (c *Console) debug(ctx context.Context) {
	dump := c.svc.Debug(ctx)

	c.heading("DEBUG")
	c.printf("Users (%d):\n", len(dump.Users))
	for _, u := range dump.Users {
		c.printf("- %s <%s>: %d tickets\n", u.Name, u.Email, u.TicketCount)
	}
	c.printf("Movies (%d):\n", len(dump.Movies))
	for _, m := range dump.Movies {
		c.printf("- %s\n", m)
	}
	c.printf("Next ticket ID: %d\n", dump.NextTicketID)
}
