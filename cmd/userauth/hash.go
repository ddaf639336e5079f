package main

import (
	"fmt"

	auth "github.com/goliatone/go-user-auth"
	"github.com/urfave/cli/v2"
)

func hashCmd() *cli.Command {
	return &cli.Command{
		Name:  "hash",
		Usage: "Hash a password with bcrypt and verify the result",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Password to hash",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "cost",
				Usage: "bcrypt work factor, zero uses the default",
			},
		},
		Action: func(ctx *cli.Context) error {
			passwords := auth.BcryptPasswords{Cost: ctx.Int("cost")}
			password := ctx.String("password")

			hash, err := passwords.HashPassword(password)
			if err != nil {
				return err
			}

			w := ctx.App.Writer
			fmt.Fprintln(w, hash)
			fmt.Fprintf(w, "matches: %t\n", auth.VerifyPassword(passwords, password, hash))
			return nil
		},
	}
}
