package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/devricklin/tg-relay-bridge/internal/api"
	"github.com/devricklin/tg-relay-bridge/internal/biz"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
	"github.com/devricklin/tg-relay-bridge/internal/biz/usecase"
	"github.com/devricklin/tg-relay-bridge/internal/conf"
	"github.com/devricklin/tg-relay-bridge/internal/data"
	"github.com/devricklin/tg-relay-bridge/internal/infra/telegram"
	"github.com/devricklin/tg-relay-bridge/internal/server"
	"github.com/devricklin/tg-relay-bridge/internal/service"
)

const shutdownTimeout = 15 * time.Second

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *conf.Config) *cli.App {
	return &cli.App{
		Name:    "tg-relay-bridge",
		Usage:   "Relay private Telegram conversations into a staffed forum group",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(cfg),
			setWebhookCmd(cfg),
			inspectCmd(cfg),
		},
		DefaultCommand: "serve",
	}
}

// serveCmd runs the webhook listener and the local admin API.
func serveCmd(cfg *conf.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Receive webhook updates and relay them",
		Action: func(c *cli.Context) error {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return serve(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *conf.Config) error {
	log := logrus.WithField("component", "bridge")

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	client := telegram.NewClient(nil, cfg.Telegram.APIBase, cfg.Telegram.Token)
	repos := data.NewRepositories(store, client)
	defer func() {
		if err := repos.Close(); err != nil {
			log.WithError(err).Warn("Failed to close store")
		}
	}()

	ucs := biz.NewUsecases(repos.Correspondent, repos.Ledger, repos.Messaging, cfg.ToSettings())
	dispatcher := service.NewDispatcher(ucs.Relay, ucs.Edits, ucs.Replies, ucs.Moderation)

	webhook := server.NewWebhookServer(cfg.Server.ListenAddr, cfg.Telegram.WebhookSecret, cfg.Telegram.AdminGroupID, dispatcher)
	if err := webhook.Start(); err != nil {
		return fmt.Errorf("start webhook server: %w", err)
	}

	var adminAPI *api.Server
	if cfg.Server.AdminListenAddr != "" {
		adminAPI = api.NewServer(ucs.Admin, cfg.Server.AdminListenAddr)
		if err := adminAPI.Start(); err != nil {
			return fmt.Errorf("start admin API: %w", err)
		}
	}

	log.WithField("store", cfg.Store.Driver).
		WithField("admin_group", cfg.Telegram.AdminGroupID).
		Info("Bridge started")

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if adminAPI != nil {
		errs = append(errs, adminAPI.Stop(shutdownCtx))
	}
	errs = append(errs, webhook.Stop(shutdownCtx))
	return errors.Join(errs...)
}

// setWebhookCmd registers the public webhook URL with Telegram.
func setWebhookCmd(cfg *conf.Config) *cli.Command {
	return &cli.Command{
		Name:  "set-webhook",
		Usage: "Register the webhook URL with the Bot API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Required: true, Usage: "Public HTTPS URL ending in /webhook"},
		},
		Action: func(c *cli.Context) error {
			if cfg.Telegram.Token == "" {
				return &conf.ConfigError{Field: "BOT_TOKEN", Message: "required"}
			}
			client := telegram.NewClient(nil, cfg.Telegram.APIBase, cfg.Telegram.Token)
			if err := client.SetWebhook(c.Context, c.String("url"), cfg.Telegram.WebhookSecret); err != nil {
				return fmt.Errorf("set webhook: %w", err)
			}
			fmt.Fprintln(c.App.Writer, "Webhook registered:", c.String("url"))
			return nil
		},
	}
}

// inspectCmd prints the stored state of one correspondent.
func inspectCmd(cfg *conf.Config) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the stored state of a correspondent as JSON",
		ArgsUsage: "<correspondent-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.ShowSubcommandHelp(c)
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			admin := usecase.NewAdminUsecase(data.NewRegistryRepo(store), nil)
			view, err := admin.Inspect(c.Context, c.Args().First())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		},
	}
}

func openStore(cfg *conf.Config) (repo.KeyValueStore, error) {
	store, err := data.NewStore(data.StoreOptions{
		Driver:   cfg.Store.Driver,
		Path:     cfg.Store.Path,
		RedisURL: cfg.Store.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	return store, nil
}
