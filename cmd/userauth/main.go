package main

import (
	"context"
	"os"
	"os/signal"

	auth "github.com/goliatone/go-user-auth"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := newApp().RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "userauth",
		Usage: "Register, log in and keep users signed in with a session cookie",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Optional dotenv file loaded before reading the environment",
				Value: ".env",
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			hashCmd(),
			tokenCmd(),
		},
	}
}

// loadOptions reads the env file named by the global flag and the process
// environment
func loadOptions(ctx *cli.Context) (*auth.Options, error) {
	return auth.LoadOptionsFromEnv(ctx.String("env-file"))
}
