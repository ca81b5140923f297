package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/quizly/cmd/app/commands"
	"github.com/allisson/quizly/internal/app"
	"github.com/allisson/quizly/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "direction",
					Aliases: []string{"d"},
					Value:   "up",
					Usage:   "Migration direction: 'up' or 'down'",
				},
				&cli.IntFlag{
					Name:    "steps",
					Aliases: []string{"s"},
					Value:   0,
					Usage:   "Number of migrations to apply; 0 applies all (down requires a positive value)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)

				return commands.RunMigrations(
					container.Logger(),
					cfg.DBDriver,
					cfg.DBConnectionString,
					commands.MigrationOptions{
						Direction: cmd.String("direction"),
						Steps:     int(cmd.Int("steps")),
					},
				)
			},
		},
	}
}
