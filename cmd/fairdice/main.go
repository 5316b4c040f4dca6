package main

import (
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are shared by every subcommand.
type Globals struct {
	Debug   bool   `help:"Enable debug logging" env:"FAIRDICE_DEBUG"`
	LogFile string `help:"Write logs to this file instead of stderr" type:"path" env:"FAIRDICE_LOG_FILE"`
	NoColor bool   `help:"Disable colours" env:"NO_COLOR"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"withargs" help:"Play a provably fair dice game"`
	Verify  VerifyCmd        `cmd:"" help:"Check a revealed key and value against a published HMAC"`
	Audit   AuditCmd         `cmd:"" help:"Sample the fair random generator and test it for uniformity"`
	Odds    OddsCmd          `cmd:"" help:"Print win probabilities for a dice set"`
	Init    InitCmd          `cmd:"" help:"Write an example configuration file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("fairdice"),
		kong.Description("Provably fair dice game against the computer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
