// Package app wires the krang components together: configuration, logging,
// registry, runtime gateway, audit log, discord gateway and admin server.
package app

import (
	"context"

	"github.com/T-One/krang/internal/bot"
	"github.com/T-One/krang/internal/config"
	"github.com/T-One/krang/internal/container"
	"github.com/T-One/krang/internal/db"
	"github.com/T-One/krang/internal/discord"
	"github.com/T-One/krang/internal/logger"
	"github.com/T-One/krang/internal/publicip"
	"github.com/T-One/krang/internal/registry"
	"github.com/T-One/krang/internal/server"
)

// App holds the assembled components for one bot process.
type App struct {
	Config   *config.Config
	Registry *registry.Registry
	Runtime  *container.DockerRuntime
	DB       *db.DB
	Gateway  *discord.Gateway
	Server   *server.Server
}

// New creates an empty application instance.
func New() *App {
	return &App{}
}

// Run assembles everything from the config file at configPath and blocks
// until ctx is cancelled. Any error here is startup-fatal; per-command
// failures never reach this level.
func (a *App) Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	logger.SetLevel(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)

	token, err := config.Token()
	if err != nil {
		return err
	}

	reg, err := registry.LoadFile(cfg.Registry.File)
	if err != nil {
		return err
	}
	a.Registry = reg
	resolvePublicAddresses(ctx, reg)

	rt, err := container.NewDockerRuntime(ctx, cfg.Runtime.Endpoint)
	if err != nil {
		return err
	}
	defer rt.Close()
	a.Runtime = rt

	var recorder bot.Recorder
	if cfg.Database.Enabled {
		database, err := db.New(db.DefaultConfig(cfg.DatabasePath()))
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(); err != nil {
			return err
		}
		a.DB = database
		recorder = db.NewAuditRepository(database)
	}

	filter := bot.NewAccessFilter(cfg.Discord.GuildIDs, cfg.Discord.ChannelIDs)
	dispatcher := bot.NewDispatcher(reg, rt, recorder, cfg.Runtime.OperationTimeout.Std(), cfg.Runtime.LogTail)

	gateway, err := discord.New(token, filter, dispatcher)
	if err != nil {
		return err
	}
	a.Gateway = gateway

	if cfg.Server.Enabled {
		a.Server = server.New(&cfg.Server, reg, rt, a.DB, cfg.Runtime.LogTail, cfg.Runtime.OperationTimeout.Std())
		go func() {
			if err := a.Server.Start(ctx); err != nil {
				logger.WithError(err).Error("Admin server stopped")
			}
		}()
	}

	logger.WithFields(logger.Fields{
		"containers": reg.Len(),
		"endpoint":   cfg.Runtime.Endpoint,
	}).Info("krang ready")

	return gateway.Run(ctx)
}

// resolvePublicAddresses substitutes registry entries declared with the
// literal address "public" with the host's public IP. This happens once at
// startup; a failed lookup is logged and displayed as "unknown".
func resolvePublicAddresses(ctx context.Context, reg *registry.Registry) {
	var pending []*registry.ContainerSpec
	for _, spec := range reg.All() {
		if spec.Address == "public" {
			pending = append(pending, spec)
		}
	}
	if len(pending) == 0 {
		return
	}

	ip, err := publicip.NewResolver().Fetch(ctx)
	if err != nil {
		logger.WithError(err).Warn("failed to resolve public address")
		ip = publicip.UnknownAddress
	}
	for _, spec := range pending {
		spec.Address = ip
	}
}
