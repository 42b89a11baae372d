package telegram

import (
	"fmt"
	"time"

	coreconfig "github.com/dobryakk5/nsk/core/config"

	tele "gopkg.in/telebot.v4"
)

const defaultLongPollTimeout = 10

// allowedUpdates lists the update types the router consumes. Everything
// else is filtered by Telegram before it reaches the bot.
var allowedUpdates = []string{"message", "callback_query"}

// BuildPoller picks the webhook or long poller for the normalized core config.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	if cfg.Telegram.RunMode == coreconfig.RunModeWebhook {
		return &tele.Webhook{
			Listen:         fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			AllowedUpdates: allowedUpdates,
			Endpoint:       &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	return &tele.LongPoller{
		Timeout:        longPollTimeout(cfg),
		AllowedUpdates: allowedUpdates,
	}
}

func longPollTimeout(cfg *coreconfig.Config) time.Duration {
	sec := cfg.Telegram.LongPollTimeoutSeconds
	if sec <= 0 {
		sec = defaultLongPollTimeout
	}
	return time.Duration(sec) * time.Second
}
