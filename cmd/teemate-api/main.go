package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/teemate/teemate/pkg/cmd"
	"github.com/teemate/teemate/pkg/discord"
	"github.com/teemate/teemate/pkg/log"
	"github.com/teemate/teemate/pkg/sessions"
)

const defaultPort = 9090

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "teemate-api",
		Usage:                 "Manage guild configuration and onboarding workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "discord-token",
				Usage:    "Bot token for the chat platform REST API",
				Required: true,
				Sources:  cli.EnvVars("DISCORD_TOKEN"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis connection URL for the editor session store (in-memory if unset)",
				Value:   "",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Teemate API")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			client := discord.NewClient(command.String("discord-token"), logger)

			var sessionStore sessions.Store
			if redisURL := command.String("redis-url"); redisURL != "" {
				sessionStore, err = sessions.NewRedisStore(redisURL, sessions.DefaultTTL)
				if err != nil {
					return err
				}
			} else {
				sessionStore = sessions.NewMemoryStore(sessions.DefaultTTL, logger)
			}

			defer func() {
				err := sessionStore.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close session store", "error", err)
				}
			}()

			api := NewAPI(
				logger,
				persistence,
				client,
				sessionStore,
			)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
