package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/quipay/keysmith/cmd/app/commands"
	"github.com/quipay/keysmith/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "run",
			Usage: "Run the rotation scheduler and the metrics server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunService(ctx, version)
			},
		},
		{
			Name:  "health",
			Usage: "Check that the secret store is initialized and unsealed",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := commands.LoadConfig()
				if err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				secretAccess, err := container.SecretAccess()
				if err != nil {
					return err
				}

				return commands.RunHealth(
					ctx,
					secretAccess,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
