// Package bot is the nsk registration bot: texts, keyboards, handlers, the
// routing table and the wiring that runs them on the core Telegram runtime.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/dobryakk5/nsk/core/bootstrap"
	coreconfig "github.com/dobryakk5/nsk/core/config"
	"github.com/dobryakk5/nsk/core/logger"
	coretelegram "github.com/dobryakk5/nsk/core/telegram"
	tghelpers "github.com/dobryakk5/nsk/core/telegram/helpers"
	"github.com/dobryakk5/nsk/core/telegram/router"
	"github.com/dobryakk5/nsk/core/telegram/sender"
	"github.com/dobryakk5/nsk/core/telegram/state"
	"github.com/dobryakk5/nsk/core/worker"
	"github.com/dobryakk5/nsk/internal/profile"

	tele "gopkg.in/telebot.v4"
)

const defaultMaxPending = 16

// App holds the assembled bot and the infrastructure it owns.
type App struct {
	cfg *Config

	db    *sqlx.DB
	redis *redis.Client

	states state.Store
	lanes  *worker.Lanes
	sender *sender.Sender
	router *router.Router
}

// New runs the bootstrap pipeline (logger, migrations, database, admin
// seeding), opens the session store and assembles the bot.
func New(ctx context.Context, cfg *Config) (*App, error) {
	res, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
		Seeders:  []bootstrap.Seeder{profile.AdminSeeder{IDs: cfg.Bot.Admins}},
	})
	if err != nil {
		return nil, err
	}

	states, client, err := openStates(ctx, cfg.Session)
	if err != nil {
		_ = res.DB.Close()
		return nil, err
	}

	app, err := Assemble(cfg, profile.NewStore(res.DB), states)
	if err != nil {
		_ = res.DB.Close()
		if client != nil {
			_ = client.Close()
		}
		return nil, err
	}
	app.db, app.redis = res.DB, client
	return app, nil
}

func openStates(ctx context.Context, cfg coreconfig.SessionConfig) (state.Store, *redis.Client, error) {
	if cfg.Backend != coreconfig.SessionRedis {
		return state.NewMemoryStore(), nil, nil
	}
	client, err := state.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("session store: %w", err)
	}
	return state.NewRedisStore(client, cfg.KeyPrefix, cfg.TTL), client, nil
}

// Assemble builds the router and runtime pieces over the given stores.
func Assemble(cfg *Config, profiles Profiles, states state.Store) (*App, error) {
	if cfg == nil {
		return nil, errors.New("bot: nil config")
	}
	h := NewHandlers(profiles, cfg.Bot)
	r, err := router.New(router.Options{
		Table:    Rules(h),
		States:   states,
		Contacts: newContactRecorder(profiles),
	})
	if err != nil {
		return nil, fmt.Errorf("bot: routing table: %w", err)
	}

	maxPending := cfg.Workers.MaxPending
	if maxPending == 0 {
		maxPending = defaultMaxPending
	}

	return &App{
		cfg:    cfg,
		states: states,
		lanes:  worker.New(maxPending),
		sender: sender.New(sender.Options{MaxRetries: 3, RetryBackoff: time.Second}),
		router: r,
	}, nil
}

// Router returns the assembled router.
func (a *App) Router() *router.Router { return a.router }

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	handler := a.router.TeleHandler(a.sender)
	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Config, a.lanes, a.onLimited),
		Routes: []coretelegram.Route{
			{Endpoint: tele.OnText, Handler: handler},
			{Endpoint: tele.OnCallback, Handler: handler},
		},
		Commands: router.TeleCommands(a.router.Table().Commands()),
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.TWire.Info("routing table loaded",
				slog.String("event", "router.ready"),
				slog.Int("rules", a.router.Table().Len()),
			)
			logger.TWire.Debug("routing table", slog.String("event", "router.describe"), slog.String("table", a.router.Table().Describe()))
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.lanes.Close()
			logger.Info(ctx, "app", "app.stats",
				slog.String("status", "ok"),
				slog.Uint64("send_errors", a.sender.ErrorCount()),
			)
			return nil
		},
	}, nil
}

// onLimited stops the client spinner on a throttled button press.
func (a *App) onLimited(c tele.Context) error {
	return tghelpers.Respond(tghelpers.BuildContext(c), a.sender, c)
}

// Close drains the lanes and releases the stores.
func (a *App) Close() error {
	a.lanes.Close()
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
