package main

import (
	"fmt"

	auth "github.com/goliatone/go-user-auth"
	"github.com/urfave/cli/v2"
)

func tokenCmd() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Encode or decode session cookie values with the configured secret",
		Subcommands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode a user id",
				ArgsUsage: "<user id>",
				Flags:     []cli.Flag{codecFlag()},
				Action: func(ctx *cli.Context) error {
					codec, err := sessionCodec(ctx)
					if err != nil {
						return err
					}
					token, err := codec.Encode(ctx.Args().First())
					if err != nil {
						return err
					}
					fmt.Fprintln(ctx.App.Writer, token)
					return nil
				},
			},
			{
				Name:      "decode",
				Usage:     "Decode a cookie value back into a user id",
				ArgsUsage: "<token>",
				Flags:     []cli.Flag{codecFlag()},
				Action: func(ctx *cli.Context) error {
					codec, err := sessionCodec(ctx)
					if err != nil {
						return err
					}
					id, err := codec.Decode(ctx.Args().First())
					if err != nil {
						return err
					}
					fmt.Fprintln(ctx.App.Writer, id)
					return nil
				},
			},
		},
	}
}

func codecFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "codec",
		Usage: "Session codec (aes, jwt or plain), overrides SESSION_CODEC",
	}
}

func sessionCodec(ctx *cli.Context) (auth.SessionCodec, error) {
	opts, err := loadOptions(ctx)
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("codec") {
		opts.SessionCodec = ctx.String("codec")
	}
	return auth.NewSessionCodec(opts)
}
