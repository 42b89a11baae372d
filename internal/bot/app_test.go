package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/dobryakk5/nsk/core/config"
	coretelegram "github.com/dobryakk5/nsk/core/telegram"
	"github.com/dobryakk5/nsk/core/telegram/state"
)

func TestAssembleBuildsRunOptions(t *testing.T) {
	cfg := &Config{
		Config: coreconfig.Config{RateLimit: coreconfig.RateLimitConfig{IntervalMS: 300}},
		Bot:    testSettings(),
	}
	app, err := Assemble(cfg, newFakeProfiles(), state.NewMemoryStore())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	opts, err := app.TelegramRunOptions()
	require.NoError(t, err)
	assert.Same(t, &cfg.Config, opts.Config)

	var names []string
	for _, mw := range opts.Middlewares {
		names = append(names, mw.Name)
	}
	assert.Equal(t, []string{"recover", "rate_limit", "sequential", "logger"}, names)

	require.Len(t, opts.Routes, 2)
	assert.Equal(t, tele.OnText, opts.Routes[0].Endpoint)
	assert.Equal(t, tele.OnCallback, opts.Routes[1].Endpoint)
	assert.Len(t, opts.Commands, 2)
	assert.Equal(t, 18, app.Router().Table().Len())

	require.NoError(t, opts.OnStop(context.Background(), coretelegram.Runtime{}))
}

func TestAssembleRejectsNilConfig(t *testing.T) {
	_, err := Assemble(nil, newFakeProfiles(), state.NewMemoryStore())
	assert.Error(t, err)
}
