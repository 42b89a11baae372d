package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/dobryakk5/nsk/core/config"
	"github.com/dobryakk5/nsk/core/logger"
	tghelpers "github.com/dobryakk5/nsk/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config *coreconfig.Config

	Middlewares []Middleware
	Routes      []Route
	// Commands is published with setMyCommands when non-empty.
	Commands []tele.Command

	DisableWebhookCleanup bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot *tele.Bot
}

// RunTelegram builds the bot from opts and serves updates until ctx is done.
// Updates arrive on the poller goroutine; per-user concurrency comes from the
// "sequential" middleware.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		return fmt.Errorf("telegram: nil config provided")
	}

	poller := BuildPoller(cfg)
	started := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:       cfg.Telegram.Token,
		Poller:      poller,
		Client:      BuildHTTPClient(cfg.HTTP, longPollTimeout(cfg)),
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			hctx := ctx
			if c != nil {
				hctx = tghelpers.BuildContext(c)
			}
			logger.Error(hctx, "tg", "tg.error",
				slog.String("status", "fail"),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		},
	})
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	rt := Runtime{Bot: bot}

	logMode(ctx, poller, logger.Took(started))
	if _, polling := poller.(*tele.LongPoller); polling && !opts.DisableWebhookCleanup {
		removeWebhook(ctx, bot)
	}

	wire(ctx, bot, opts)
	setCommands(bot, opts.Commands)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	runErr := serve(ctx, bot)

	if opts.OnStop != nil {
		if err := opts.OnStop(context.WithoutCancel(ctx), rt); err != nil {
			return err
		}
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// serve blocks until ctx is done or the poller stops on its own.
func serve(ctx context.Context, bot *tele.Bot) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		bot.Start()
	}()
	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

// wire installs the parent context first so every middleware sees shutdown.
func wire(ctx context.Context, bot *tele.Bot, opts RunOptions) {
	bot.Use(tghelpers.Parent(ctx))
	names := make([]string, 0, len(opts.Middlewares))
	for _, mw := range opts.Middlewares {
		if mw.Use == nil {
			continue
		}
		bot.Use(mw.Use)
		names = append(names, mw.Name)
	}

	endpoints := make([]string, 0, len(opts.Routes))
	for _, route := range opts.Routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
		endpoints = append(endpoints, logger.Sanitize(fmt.Sprint(route.Endpoint)))
	}

	logger.TWire.Info("handlers wired",
		slog.String("event", "wire"),
		slog.String("middlewares", logger.Summarize(names, 8)),
		slog.String("endpoints", logger.Summarize(endpoints, 8)),
		slog.Int("routes", len(endpoints)),
	)
}

func logMode(ctx context.Context, poller tele.Poller, took time.Duration) {
	switch p := poller.(type) {
	case *tele.Webhook:
		logger.TG.LogAttrs(ctx, slog.LevelInfo, "webhook mode",
			slog.String("event", "mode"),
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
			slog.Duration("duration", took),
		)
	case *tele.LongPoller:
		logger.TG.LogAttrs(ctx, slog.LevelInfo, "polling mode",
			slog.String("event", "mode"),
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Int("timeout_seconds", int(p.Timeout/time.Second)),
			slog.Duration("duration", took),
		)
	}
}

// removeWebhook clears a webhook left by an earlier deploy; Telegram refuses
// getUpdates while one is set.
func removeWebhook(ctx context.Context, bot *tele.Bot) {
	if err := bot.RemoveWebhook(false); err != nil {
		logger.TG.LogAttrs(ctx, slog.LevelWarn, "failed to delete webhook",
			slog.String("event", "delete_webhook"),
			slog.String("status", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return
	}
	logger.TG.LogAttrs(ctx, slog.LevelInfo, "webhook deleted",
		slog.String("event", "delete_webhook"),
		slog.String("status", "ok"),
	)
}

func setCommands(bot *tele.Bot, cmds []tele.Command) {
	if len(cmds) == 0 {
		return
	}
	texts := make([]string, len(cmds))
	for i, c := range cmds {
		texts[i] = "/" + c.Text
	}
	summary := logger.Summarize(texts, 10)
	if err := bot.SetCommands(cmds); err != nil {
		logger.TWire.Warn("set commands failed",
			slog.String("event", "commands"),
			slog.String("status", "fail"),
			slog.String("commands", summary),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return
	}
	logger.TWire.Info("commands published",
		slog.String("event", "commands"),
		slog.String("status", "ok"),
		slog.Int("count", len(cmds)),
		slog.String("commands", summary),
	)
}
