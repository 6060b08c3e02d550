package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"partycards.hcl" help:"Path to HCL configuration file"`
	EnvFile  string `default:".env" help:"Optional .env file loaded before reading the environment"`
	LogLevel string `short:"l" help:"Log level: debug, info, warn, error (overrides config)"`
	NoColor  bool   `help:"Disable colored output"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Serve the pack API, game endpoints and static pack files"`
	Play    PlayCmd          `cmd:"" help:"Play a session in the terminal"`
	Deal    DealCmd          `cmd:"" help:"Print the prompt and hand dealt for a seed"`
	Packs   PacksCmd         `cmd:"" help:"Manage cached pack collections"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("partycards"),
		kong.Description("Deterministic party card game: shared seeds, per-player hands"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
