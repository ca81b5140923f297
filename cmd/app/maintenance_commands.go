package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/quizly/cmd/app/commands"
	"github.com/allisson/quizly/internal/app"
	"github.com/allisson/quizly/internal/config"
)

func getMaintenanceCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-expired-tokens",
			Usage: "Delete outstanding refresh tokens that expired more than the given days ago",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Delete tokens that expired more than this many days ago",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many tokens would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				store, err := container.TokenStore()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredTokens(
					ctx,
					store,
					container.Logger(),
					commands.Stdout(),
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
