package bot

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/dobryakk5/nsk/core/config"
	coredatabase "github.com/dobryakk5/nsk/core/database"
)

// Defaults for the bot section.
const (
	DefaultFormURL          = "https://example.com/form"
	DefaultSupportContact   = "@admin_username"
	DefaultSupportEmail     = "support@example.com"
	DefaultCuratorRegNumber = 2323
	DefaultFollowUpDelay    = 5 * time.Second
)

// Settings is the bot-specific configuration section.
type Settings struct {
	FormURL        string `yaml:"form_url" envconfig:"BOT_FORM_URL"`
	ShopURL        string `yaml:"shop_url" envconfig:"BOT_SHOP_URL"`
	SupportContact string `yaml:"support_contact" envconfig:"BOT_SUPPORT_CONTACT"`
	SupportEmail   string `yaml:"support_email" envconfig:"BOT_SUPPORT_EMAIL"`
	// CuratorRegNumber is shown under "My data"; 0 -> default.
	CuratorRegNumber int64 `yaml:"curator_reg_number" envconfig:"BOT_CURATOR_REG_NUMBER"`
	// FollowUpDelay separates the form link from the next prompt; 0 -> default.
	FollowUpDelay time.Duration `yaml:"follow_up_delay" envconfig:"BOT_FOLLOW_UP_DELAY"`
	// Admins are promoted to the admin role at startup.
	Admins []int64 `yaml:"admins" envconfig:"BOT_ADMINS"`
}

// Config is the full configuration of the registration bot.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Bot      Settings            `yaml:"bot"`
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Config }

// LoadConfig reads path, overlays the environment and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and applies defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if err := c.Database.Normalize(); err != nil {
		return err
	}
	return c.Bot.normalize()
}

func (s *Settings) normalize() error {
	s.FormURL = strings.TrimSpace(s.FormURL)
	if s.FormURL == "" {
		s.FormURL = DefaultFormURL
	}
	s.ShopURL = strings.TrimSpace(s.ShopURL)
	if strings.TrimSpace(s.SupportContact) == "" {
		s.SupportContact = DefaultSupportContact
	}
	if strings.TrimSpace(s.SupportEmail) == "" {
		s.SupportEmail = DefaultSupportEmail
	}
	if s.CuratorRegNumber == 0 {
		s.CuratorRegNumber = DefaultCuratorRegNumber
	}
	switch {
	case s.FollowUpDelay < 0:
		return fmt.Errorf("bot.follow_up_delay must be >= 0")
	case s.FollowUpDelay == 0:
		s.FollowUpDelay = DefaultFollowUpDelay
	}
	for _, id := range s.Admins {
		if id <= 0 {
			return fmt.Errorf("bot.admins: invalid user id %d", id)
		}
	}
	return nil
}
