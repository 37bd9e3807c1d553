package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/Versifine/fpcontroller/internal/config"
	"github.com/Versifine/fpcontroller/internal/debug"
	"github.com/Versifine/fpcontroller/internal/game"
	"github.com/Versifine/fpcontroller/internal/logger"
	"github.com/Versifine/fpcontroller/internal/session"
	"github.com/Versifine/fpcontroller/internal/world"
)

var CLI struct {
	Config string `help:"YAML configuration file. Built-in defaults are used when empty." short:"c" type:"path"`
	Level  string `help:"Level file, overriding the configured level." type:"existingfile"`
	Debug  bool   `help:"Enable debug logging."`

	Play struct{} `cmd:"" default:"1" help:"Open a window and drive the agent with keyboard and mouse."`

	Console struct{} `cmd:"" help:"Drive the agent from a raw-mode terminal."`

	Sim struct {
		Script  string  `arg:"" name:"script" help:"Action script to run." type:"existingfile"`
		Seconds float64 `help:"Simulated seconds. Defaults to the script length."`
		Every   float64 `help:"Seconds between logged snapshots. Defaults to simulation.snapshot_every." default:"-1"`
	} `cmd:"" help:"Run an action script headless and check its expectations."`

	Defaults struct{} `cmd:"" name:"config" help:"Write the default configuration to standard output."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("fpdemo"),
		kong.Description("first-person character controller sandbox"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if ctx.Command() == "config" {
		data, err := config.Default().Marshal()
		if err != nil {
			fail("Failed to encode config", err)
		}
		os.Stdout.Write(data)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("Failed to load config", err)
	}

	var out io.Writer = os.Stdout
	if ctx.Command() == "console" {
		out = debug.CRLFWriter{W: os.Stderr}
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: out,
		File:   cfg.Logging.File,
	}); err != nil {
		fail("Failed to init logger", err)
	}
	defer logger.Close()

	s, err := session.New(cfg)
	if err != nil {
		fail("Failed to create session", err)
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch ctx.Command() {
	case "play":
		err = runPlay(s)
	case "console":
		err = debug.NewConsole(s).Start(signalCtx)
	case "sim <script>":
		err = runSim(signalCtx, s, cfg)
	}
	if err != nil {
		stop()
		fail("Command failed", err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if CLI.Config != "" {
		loaded, err := config.Load(CLI.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if CLI.Level != "" {
		cfg.World.LevelFile = CLI.Level
	}
	if CLI.Debug {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func runPlay(s *session.Session) error {
	g, err := game.New(s)
	if err != nil {
		return err
	}
	return g.Run()
}

func runSim(ctx context.Context, s *session.Session, cfg *config.Config) error {
	script, err := session.LoadScript(CLI.Sim.Script)
	if err != nil {
		return err
	}
	every := CLI.Sim.Every
	if every < 0 {
		every = cfg.Simulation.SnapshotEvery
	}

	result, err := s.Run(ctx, script, CLI.Sim.Seconds, every, func(snap world.Snapshot) {
		slog.Info(snap.String())
	})
	if err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	fmt.Println(result.Final.String())
	if err := script.Expect.Check(result.Final); err != nil {
		return err
	}
	if script.Expect != nil {
		slog.Info("Expectations met", "script", script.Name)
	}
	return nil
}

func fail(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
