package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/polychat/telegram-bridge/internal/attachment"
	"github.com/polychat/telegram-bridge/internal/config"
	"github.com/polychat/telegram-bridge/internal/core"
	"github.com/polychat/telegram-bridge/internal/handlers"
	"github.com/polychat/telegram-bridge/internal/logger"
	"github.com/polychat/telegram-bridge/internal/telegram"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideCoreClient,
			provideResolver,
			telegram.NewRegistry,
			provideTelegramService,
			provideHandlers,
		),
		fx.Invoke(
			registerHandlers,
			startBridge,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideCoreClient(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) (*core.Client, error) {
	client, err := core.Dial(cfg.Core.URL, cfg.Core.Name, log)
	if err != nil {
		return nil, fmt.Errorf("connect to core: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func provideResolver(cfg config.Config) *attachment.Resolver {
	return attachment.NewResolver(&http.Client{
		Timeout: time.Duration(cfg.Attachment.FetchTimeoutSeconds) * time.Second,
	})
}

func provideTelegramService(log *slog.Logger, cfg config.Config, registry *telegram.Registry, resolver *attachment.Resolver, client *core.Client) *telegram.Service {
	service := telegram.NewService(log, registry, resolver, client)
	if cfg.Telegram.UpdateTimeoutSeconds > 0 {
		service.UpdateTimeoutSeconds = cfg.Telegram.UpdateTimeoutSeconds
	}
	return service
}

func provideHandlers(log *slog.Logger, service *telegram.Service) *handlers.Handlers {
	return handlers.New(log, service)
}

func registerHandlers(client *core.Client, h *handlers.Handlers) {
	h.Register(client)
}

func startBridge(lc fx.Lifecycle, log *slog.Logger, client *core.Client, service *telegram.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			folder, err := client.DataFolder(ctx)
			if err != nil {
				return fmt.Errorf("resolve data folder: %w", err)
			}
			log.Info("bridge ready", slog.String("data_folder", folder))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			service.Shutdown(ctx)
			return nil
		},
	})
}
