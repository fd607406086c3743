package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	terminal "github.com/mutablelogic/go-lingo/pkg/ui/terminal"
	logrus "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// Backend and session
	API     `embed:"" help:"API configuration"`
	Session `embed:"" help:"Session configuration"`

	// Context
	ctx      context.Context
	log      *logrus.Logger
	out      *terminal.Terminal
	defaults *Defaults
}

type API struct {
	Endpoint string `name:"endpoint" env:"LINGO_API_URL" help:"API endpoint" default:"http://localhost:5000/api"`
}

type Session struct {
	TokenDir   string `name:"token-dir" env:"LINGO_TOKEN_DIR" help:"Directory for the saved session (defaults to the user config directory)"`
	Passphrase string `name:"passphrase" env:"LINGO_PASSPHRASE" help:"Passphrase which encrypts the saved session"`
}

type CLI struct {
	Globals

	AuthCommands    `embed:""`
	ChatCommands    `embed:""`
	ArticleCommands `embed:""`
	WordCommands    `embed:""`
	AssistCommands  `embed:""`

	Version VersionCommand `cmd:"" name:"version" help:"Print version information"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Command line interface for the English learning assistant"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"timezone":   schema.DefaultTimeZone,
			"collection": schema.DefaultCollection,
		},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx

	// Create a logger
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cli.Debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	cli.Globals.log = log

	// Create the output
	out, err := terminal.New(os.Stdout)
	cmd.FatalIfErrorf(err)
	cli.Globals.out = out

	// Load the defaults
	defaults, err := NewDefaults(appName)
	cmd.FatalIfErrorf(err)
	cli.Globals.defaults = defaults

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		cmd.FatalIfErrorf(err)
		return
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}
