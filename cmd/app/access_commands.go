package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/quipay/keysmith/cmd/app/commands"
	"github.com/quipay/keysmith/internal/app"
)

func getAccessCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "setup-access",
			Usage: "Provision least privilege policies and machine identities",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := commands.LoadConfig()
				if err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				provisioner, err := container.Provisioner()
				if err != nil {
					return err
				}

				return commands.RunSetupAccess(
					ctx,
					provisioner,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "enable-engine",
			Usage: "Mount a secrets engine",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "path",
					Aliases: []string{"p"},
					Value:   "secret",
					Usage:   "Mount path",
				},
				&cli.StringFlag{
					Name:    "type",
					Aliases: []string{"t"},
					Value:   "kv",
					Usage:   "Engine type (kv mounts version 2)",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "Mount description",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := commands.LoadConfig()
				if err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				provisioner, err := container.Provisioner()
				if err != nil {
					return err
				}

				return commands.RunEnableEngine(
					ctx,
					provisioner,
					container.Logger(),
					cmd.String("path"),
					cmd.String("type"),
					cmd.String("description"),
				)
			},
		},
		{
			Name:  "issue-credentials",
			Usage: "Issue an AppRole role id and secret id for a machine identity",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "role",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Role name (quipay-agent or quipay-rotation)",
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

				provisioner, err := container.Provisioner()
				if err != nil {
					return err
				}

				return commands.RunIssueCredentials(
					ctx,
					provisioner,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("role"),
					cmd.String("format"),
				)
			},
		},
	}
}
