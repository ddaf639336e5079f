package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-print"
	auth "github.com/goliatone/go-user-auth"
	"github.com/goliatone/go-user-auth/activitymap"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on, overrides PORT",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "Database DSN, overrides DATABASE_DSN. postgres:// DSNs use PostgreSQL, anything else SQLite",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Verbose logging, overrides DEBUG",
			},
		},
		Action: func(ctx *cli.Context) error {
			opts, err := loadOptions(ctx)
			if err != nil {
				return err
			}
			if ctx.IsSet("port") {
				opts.Port = ctx.Int("port")
			}
			if ctx.IsSet("dsn") {
				opts.DatabaseDSN = ctx.String("dsn")
			}
			if ctx.IsSet("debug") {
				opts.Debug = ctx.Bool("debug")
			}

			if err := opts.Validate(); err != nil {
				return err
			}

			logger := auth.NewConsoleLogger(os.Stderr, opts.Debug)
			if opts.Debug {
				logger.Debug("configuration", "options", print.MaybePrettyJSON(opts.Redacted()))
			}

			db, err := auth.OpenDatabase(opts.DatabaseDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := auth.EnsureSchema(ctx.Context, db); err != nil {
				return err
			}

			repo := auth.NewRepositoryManager(db)
			repo.MustValidate()

			srv, err := auth.NewServer(opts, repo,
				auth.WithLoggerProvider(logger),
				auth.WithActivitySink(activitymap.ZerologSink(logger.Zerolog())),
			)
			if err != nil {
				return err
			}

			return auth.Serve(ctx.Context, srv, fmt.Sprintf(":%d", opts.Port), logger.GetLogger("auth.server"))
		},
	}
}
