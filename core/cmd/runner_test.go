package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/dobryakk5/nsk/core/config"
	coretelegram "github.com/dobryakk5/nsk/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type app struct {
	closed bool
	hooks  []string
}

func (a *app) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{
		Config:  &coreconfig.Config{},
		OnStart: func(context.Context, coretelegram.Runtime) error { a.hooks = append(a.hooks, "start"); return nil },
		OnStop:  func(context.Context, coretelegram.Runtime) error { a.hooks = append(a.hooks, "stop"); return nil },
	}, nil
}

func (a *app) Close() error {
	a.closed = true
	return nil
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("NSK_CONFIG", "/etc/nsk/env.yaml")

	p, err := ResolveConfigPath(Options{ConfigPath: "flag.yaml", ConfigEnvVar: "NSK_CONFIG"})
	require.NoError(t, err)
	assert.Equal(t, "flag.yaml", p)

	p, err = ResolveConfigPath(Options{ConfigEnvVar: "NSK_CONFIG", DefaultConfigPath: "config.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/nsk/env.yaml", p)

	p, err = ResolveConfigPath(Options{ConfigEnvVar: "NSK_UNSET_VAR", DefaultConfigPath: "config.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", p)

	_, err = ResolveConfigPath(Options{ConfigEnvVar: "NSK_UNSET_VAR"})
	assert.Error(t, err)
}

func TestRunWiresHooksAndClosesApp(t *testing.T) {
	a := &app{}
	var gotPath string
	err := Run(Options{
		ConfigPath: "config.yaml",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			gotPath = path
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap:      func(context.Context, ConfigCarrier) (TelegramApp, error) { return a, nil },
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			require.NoError(t, opts.OnStart(ctx, coretelegram.Runtime{}))
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", gotPath)
	assert.Equal(t, []string{"start", "stop"}, a.hooks)
	assert.True(t, a.closed)
}

func TestRunReportsBootstrapFailure(t *testing.T) {
	boom := errors.New("db unreachable")
	err := Run(Options{
		ConfigPath:     "config.yaml",
		LoadConfig:     func(string) (ConfigCarrier, error) { return carrier{cfg: &coreconfig.Config{}}, nil },
		Bootstrap:      func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, boom },
		ShutdownLogger: func() error { return nil },
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunRequiresCoreConfig(t *testing.T) {
	err := Run(Options{
		ConfigPath:     "config.yaml",
		LoadConfig:     func(string) (ConfigCarrier, error) { return carrier{}, nil },
		Bootstrap:      func(context.Context, ConfigCarrier) (TelegramApp, error) { return &app{}, nil },
		ShutdownLogger: func() error { return nil },
	})
	assert.Error(t, err)
}
