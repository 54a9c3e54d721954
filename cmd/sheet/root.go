package main

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/rpg-sheet/internal/config"
	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/local"
)

// cli holds state shared by every command of one invocation
type cli struct {
	v          *viper.Viper
	configFile string
	envFile    string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "sheet",
		Short: "Tabletop character sheets with live party tracking",
		Long: `sheet keeps a homebrew library and a roster of characters in a local
SQLite file, derives their stats, and mirrors them to Redis for sharing
by public code when a user is configured.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&c.envFile, "env-file", ".env", "env file loaded before reading the environment")
	flags.String("db", "", "SQLite file holding the library and characters")
	flags.String("redis", "", "Redis address or URL; empty disables remote features")
	flags.String("user", "", "signed-in user id")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.Duration("sync-timeout", 0, "timeout for each remote call")

	for key, flag := range map[string]string{
		config.KeyDBPath:      "db",
		config.KeyRedisAddr:   "redis",
		config.KeyUserID:      "user",
		config.KeyLogLevel:    "log-level",
		config.KeySyncTimeout: "sync-timeout",
	} {
		if err := c.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		c.serveCmd(),
		c.characterCmd(),
		c.libraryCmd(session.KindSpell),
		c.libraryCmd(session.KindWeapon),
		c.libraryCmd(session.KindArmor),
		c.libraryCmd(session.KindPassive),
		c.playCmd(),
		c.partyCmd(),
		c.watchCmd(),
		c.syncCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(c.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(&config.LoadInput{Viper: c.v, ConfigFile: c.configFile})
	if err != nil {
		return err
	}
	c.cfg = cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return nil
}

// app is the wired session for one command
type app struct {
	session *session.Orchestrator
	local   local.Repository
	redis   redisclient.Client
	timeout func() (context.Context, context.CancelFunc)
}

func (c *cli) open(ctx context.Context) (*app, error) {
	localRepo, err := local.NewSQLite(ctx, &local.SQLiteConfig{Path: c.cfg.DBPath})
	if err != nil {
		return nil, err
	}
	a := &app{
		local: localRepo,
		timeout: func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.WithoutCancel(ctx), c.cfg.SyncTimeout)
		},
	}

	var remote character.Repository
	if c.cfg.RemoteEnabled() {
		a.redis, err = redisclient.NewClient(c.cfg.RedisAddr, nil)
		if err != nil {
			_ = localRepo.Close()
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid redis address")
		}
		remote, err = character.NewRedis(&character.RedisConfig{Client: a.redis})
		if err != nil {
			a.closeStores()
			return nil, err
		}
	}

	eng, err := engine.New(&engine.Config{})
	if err != nil {
		a.closeStores()
		return nil, err
	}

	a.session, err = session.New(ctx, &session.Config{
		LocalRepo:   localRepo,
		RemoteRepo:  remote,
		Engine:      eng,
		UserID:      c.cfg.UserID,
		SyncTimeout: c.cfg.SyncTimeout,
	})
	if err != nil {
		a.closeStores()
		return nil, err
	}
	return a, nil
}

// Close waits for pending uploads, then releases the stores
func (a *app) Close() error {
	ctx, cancel := a.timeout()
	defer cancel()

	err := a.session.Close(ctx)
	if err != nil {
		slog.Warn("pending uploads did not finish", "error", err.Error())
	}
	if status := a.session.Status(); status.Message != "" {
		slog.Warn("remote sync", "status", status.Message)
	}
	a.closeStores()
	return nil
}

func (a *app) closeStores() {
	if err := a.local.Close(); err != nil {
		slog.Error("failed to close local store", "error", err.Error())
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Error("failed to close redis client", "error", err.Error())
		}
	}
}

// run opens the session, runs fn and closes the session
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, s *session.Orchestrator) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(ctx, a.session)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
