package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/jpablobr/f4r/config"
	"github.com/jpablobr/f4r/profile"
)

func main() {
	app := &cli.Command{
		Name:  "f4r",
		Usage: "FIT activity file codec",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to f4r.yaml",
			},
			&cli.StringFlag{
				Name:  "profile-dir",
				Usage: "Directory of profile CSV tables (overrides config and embedded tables)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Set the log level to debug",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			dumpCmd(),
			copyCmd(),
			exportCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnvironment resolves the catalog and logger shared by all
// subcommands.
func loadEnvironment(cmd *cli.Command) (*profile.Catalog, *slog.Logger, error) {
	cfg := config.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	if dir := cmd.String("profile-dir"); dir != "" {
		cfg.ProfileDir = dir
	}

	level := cfg.LogLevel()
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cat, err := cfg.Catalog()
	if err != nil {
		return nil, nil, err
	}
	return cat, log, nil
}
