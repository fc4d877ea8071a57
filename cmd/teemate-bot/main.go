package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/teemate/teemate/pkg/cmd"
	"github.com/teemate/teemate/pkg/discord"
	"github.com/teemate/teemate/pkg/log"
)

func main() {
	command := &cli.Command{
		Name:                  "teemate-bot",
		EnableShellCompletion: true,
		Usage:                 "Consume gateway events and run the community modules",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "bot-id",
				Aliases: []string{"id"},
				Usage:   "Custom bot instance ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("BOT_ID"),
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
				Name:     "event-bus",
				Usage:    "Event bus type (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
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

			botID := command.String("bot-id")
			if botID == "" {
				botID = "bot-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("teemate-bot").With("botId", botID)

			logger.InfoContext(ctx, "Initializing Teemate Bot")

			eventBus := cmd.NewEventBus(command.String("event-bus"), "teemate-bot", logger)
			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

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

			bot := NewBotManager(botID, persistence, eventBus, client, logger)

			err = bot.Start(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start bot", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
