package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	token "github.com/mutablelogic/go-lingo/pkg/token"
	table "github.com/mutablelogic/go-lingo/pkg/ui/table"
	oauth2 "golang.org/x/oauth2"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type AuthCommands struct {
	Login  LoginCommand  `cmd:"" name:"login" help:"Log in and save the session." group:"AUTH"`
	Logout LogoutCommand `cmd:"" name:"logout" help:"End the saved session." group:"AUTH"`
	WhoAmI WhoAmICommand `cmd:"" name:"whoami" help:"Show the user of the saved session." group:"AUTH"`
}

type LoginCommand struct {
	User     string `arg:"" name:"user" help:"User name" optional:""`
	Password string `name:"password" env:"LINGO_PASSWORD" help:"Password (prompted for when omitted)"`
}

type LogoutCommand struct{}

type WhoAmICommand struct{}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var stdin = bufio.NewReader(os.Stdin)

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *LoginCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	user := cmd.User
	if user == "" {
		if user, err = prompt("User: "); err != nil {
			return err
		}
	}
	password := cmd.Password
	if password == "" {
		if password, err = promptPassword("Password: "); err != nil {
			return err
		}
	}

	// Sessions of the previous user are no longer valid
	if err := ctx.defaults.Clear(); err != nil {
		return err
	}
	claims, err := client.Login(ctx.ctx, user, password)
	if err != nil {
		return err
	}
	if err := ctx.defaults.Set(keyUser, user); err != nil {
		return err
	}
	if claims != nil && !claims.Expiry().IsZero() {
		return ctx.out.Status("Logged in as %q until %s", user, claims.Expiry().Local().Format(table.TimeLayout))
	}
	return ctx.out.Status("Logged in as %q", user)
}

func (cmd *LogoutCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	client.Logout()
	return ctx.out.Status("Logged out")
}

func (cmd *WhoAmICommand) Run(ctx *Globals) error {
	store, err := ctx.Store()
	if err != nil {
		return err
	}
	session, err := token.Source(store).Token()
	if token.IsNoSession(err) {
		return lingo.ErrNotFound.With("not logged in")
	} else if err != nil {
		return err
	}
	return ctx.out.Status("%s", describeSession(session, store.Claims(), ctx.defaults.Get(keyUser)))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// describeSession returns who holds the session and when the access token
// expires. An expired token is refreshed on the next request.
func describeSession(session *oauth2.Token, claims *token.Claims, user string) string {
	var who string
	if claims != nil {
		who = fmt.Sprintf("Logged in as %q (user %s)", claims.UserName, claims.UserID)
	} else {
		who = fmt.Sprintf("Logged in as %q", user)
	}
	switch {
	case session.Expiry.IsZero():
		return who
	case !session.Valid():
		return fmt.Sprintf("%s, access token expired %s", who, session.Expiry.Local().Format(table.TimeLayout))
	default:
		return fmt.Sprintf("%s, access token expires %s", who, session.Expiry.Local().Format(table.TimeLayout))
	}
}

// prompt reads a line from standard input
func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := stdin.ReadString('\n')
	if line = strings.TrimSpace(line); line != "" {
		return line, nil
	} else if err != nil {
		return "", err
	}
	return "", lingo.ErrBadParameter.With("no input")
}

// promptPassword reads a password without echo when standard input is a
// terminal
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}
	fmt.Fprint(os.Stderr, label)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(password), nil
}
