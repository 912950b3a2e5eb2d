package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/quipay/keysmith/cmd/app/commands"
	"github.com/quipay/keysmith/internal/app"
)

func getRotationCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "rotate-key",
			Usage: "Rotate a signing key now with freshly generated material",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Key name under VAULT_SECRET_PATH",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := commands.LoadConfig()
				if err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				scheduler, err := container.RotationScheduler()
				if err != nil {
					return err
				}

				return commands.RunRotateKey(
					ctx,
					scheduler,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("key"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "rotation-status",
			Usage: "Show the rotation status of a key, or list keys due for rotation",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "key",
					Aliases: []string{"k"},
					Usage:   "Key name (omit to list every key due for rotation)",
				},
				formatFlag(),
			},
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

				return commands.RunRotationStatus(
					ctx,
					secretAccess.RotationEngine(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("key"),
					cmd.String("format"),
				)
			},
		},
	}
}
