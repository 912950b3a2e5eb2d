package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/quipay/keysmith/cmd/app/commands"
	"github.com/quipay/keysmith/internal/app"
)

func getSigningCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "sign",
			Usage: "Sign a payload with a cached signing key after checking its rotation grace period",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "key",
					Aliases: []string{"k"},
					Usage:   "Signing key name (defaults to SIGNING_AGENT_KEY_NAME)",
				},
				&cli.StringFlag{
					Name:    "payload",
					Aliases: []string{"p"},
					Usage:   "Payload to sign (read from stdin when omitted)",
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

				keyCache, err := container.KeyCache()
				if err != nil {
					return err
				}

				keyName := cmd.String("key")
				if keyName == "" {
					keyName = cfg.SigningAgentKeyName
				}

				return commands.RunSign(
					ctx,
					keyCache,
					container.Logger(),
					commands.DefaultIO(),
					keyName,
					cmd.String("payload"),
					cmd.String("format"),
				)
			},
		},
	}
}
