package cli

import (
	"fmt"
	"time"

	"github.com/datambit/datambit/client/auth/store"
	"github.com/datambit/datambit/schema"
)

// LoginCmd authenticates and stores the session.
type LoginCmd struct {
	User     string `long:"user" description:"username (email)"`
	Password string `long:"password" description:"password; read from stdin when omitted"`
	Remember bool   `short:"r" long:"remember" description:"keep the session in the durable store (requires accepted consent)"`
	app      *App
}

func (c *LoginCmd) Execute(_ []string) error {
	user, err := c.app.prompt("username", c.User)
	if err != nil {
		return err
	}
	password, err := c.app.prompt("password", c.Password)
	if err != nil {
		return err
	}
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	if err = cli.Login(c.app.ctx, user, password, c.Remember); err != nil {
		return err
	}
	if c.Remember && cli.Store().ActiveTier() != store.Durable {
		_, _ = fmt.Fprintln(c.app.stderr, "session kept in memory: run 'datambit consent accepted' to allow durable storage")
	}
	c.app.printf("logged in as %v\n", user)
	return nil
}

// RegisterCmd creates an account.
type RegisterCmd struct {
	User       string `long:"user" description:"username (email)"`
	Password   string `long:"password" description:"password; read from stdin when omitted"`
	AccessCode string `long:"code" description:"access code" required:"true"`
	app        *App
}

func (c *RegisterCmd) Execute(_ []string) error {
	user, err := c.app.prompt("username", c.User)
	if err != nil {
		return err
	}
	password, err := c.app.prompt("password", c.Password)
	if err != nil {
		return err
	}
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	message, err := cli.Register(c.app.ctx, user, password, c.AccessCode)
	if err != nil {
		return err
	}
	c.app.printf("%v\n", message)
	return nil
}

// LogoutCmd removes stored credentials.
type LogoutCmd struct {
	app *App
}

func (c *LogoutCmd) Execute(_ []string) error {
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	if err = cli.Logout(); err != nil {
		return err
	}
	c.app.printf("logged out\n")
	return nil
}

// ConsentCmd shows or records consent for durable credential storage.
type ConsentCmd struct {
	app *App
}

func (c *ConsentCmd) Execute(args []string) error {
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		switch store.Consent(args[0]) {
		case store.ConsentAccepted:
			err = cli.SetConsent(true)
		case store.ConsentRejected:
			err = cli.SetConsent(false)
		default:
			return fmt.Errorf("invalid consent %q, expected %v or %v", args[0], store.ConsentAccepted, store.ConsentRejected)
		}
		if err != nil {
			return err
		}
	}
	consent := cli.Consent()
	if consent == store.ConsentUnknown {
		consent = "unknown"
	}
	c.app.printf("consent: %v\n", consent)
	return nil
}

// StatusCmd shows the stored session.
type StatusCmd struct {
	Validate bool `long:"validate" description:"check the access token with the API"`
	app      *App
}

func (c *StatusCmd) Execute(_ []string) error {
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	pair, ok := cli.Store().Pair()
	if !ok {
		c.app.printf("not logged in\n")
		return nil
	}
	c.app.printf("logged in (%v store)\n", pair.Tier)
	if !pair.Expiry.IsZero() {
		state := "valid"
		if pair.Expired() {
			state = "expired"
		}
		c.app.printf("access token %v until %v\n", state, pair.Expiry.Format(time.RFC3339))
	}
	if c.Validate {
		message, err := cli.ValidateToken(c.app.ctx)
		if err != nil {
			return err
		}
		c.app.printf("%v\n", message)
	}
	return nil
}

// ResetPasswordCmd requests a one-time code, or sets a new password when the code is given.
type ResetPasswordCmd struct {
	User     string `long:"user" description:"username (email)"`
	Code     string `long:"code" description:"one-time code received by email"`
	Password string `long:"password" description:"new password; read from stdin when omitted"`
	app      *App
}

func (c *ResetPasswordCmd) Execute(_ []string) error {
	user, err := c.app.prompt("username", c.User)
	if err != nil {
		return err
	}
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	var message string
	if c.Code == "" {
		message, err = cli.RequestPasswordReset(c.app.ctx, user)
	} else {
		var password string
		if password, err = c.app.prompt("new password", c.Password); err != nil {
			return err
		}
		message, err = cli.ResetPassword(c.app.ctx, user, password, c.Code)
	}
	if err != nil {
		return err
	}
	c.app.printf("%v\n", message)
	return nil
}

// AccessCmd submits an access request.
type AccessCmd struct {
	Name          string `long:"name" description:"full name" required:"true"`
	Organisation  string `long:"organisation" description:"organisation name"`
	Designation   string `long:"designation" description:"job title"`
	Email         string `long:"email" description:"organisation email" required:"true"`
	ContactNumber string `long:"phone" description:"contact number"`
	CountryCode   string `long:"country-code" description:"phone country code, e.g. +44"`
	Reason        string `long:"reason" description:"intended use"`
	app           *App
}

func (c *AccessCmd) Execute(_ []string) error {
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	message, err := cli.RequestAccess(c.app.ctx, &schema.AccessRequest{
		Name:              c.Name,
		Organisation:      c.Organisation,
		Designation:       c.Designation,
		OrganisationEmail: c.Email,
		ContactNumber:     c.ContactNumber,
		CountryCode:       c.CountryCode,
		Reason:            c.Reason,
	})
	if err != nil {
		return err
	}
	c.app.printf("%v\n", message)
	return nil
}
