package main

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/handiism/distro-wizard/internal/account"
	"github.com/handiism/distro-wizard/internal/config"
	apihttp "github.com/handiism/distro-wizard/internal/http"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonLogsFlag *bool

	settingsOnce sync.Once
	settings     *config.Settings
	settingsErr  error

	now func() time.Time
}

func newCommandContext(configFlag, logLevelFlag *string, jsonLogsFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonLogsFlag: jsonLogsFlag,
		now:          time.Now,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag != nil {
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			return path
		}
	}
	return config.DefaultPath()
}

func (c *commandContext) ensureSettings() (*config.Settings, error) {
	c.settingsOnce.Do(func() {
		s, err := config.Load(c.configPath())
		if err != nil {
			c.settingsErr = err
			return
		}
		if c.logLevelFlag != nil && *c.logLevelFlag != "" {
			s.LogLevel = *c.logLevelFlag
		}
		if c.jsonLogsFlag != nil && *c.jsonLogsFlag {
			s.LogFormat = "json"
		}
		c.settings = s
	})
	return c.settings, c.settingsErr
}

func (c *commandContext) logger() *log.Logger {
	s, err := c.ensureSettings()
	if err != nil {
		s = config.DefaultSettings()
	}
	return s.NewLogger(os.Stderr)
}

func (c *commandContext) client(logger *log.Logger) (*apihttp.Client, error) {
	s, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	return apihttp.NewClient(s.ToClientConfig(), logger), nil
}

func (c *commandContext) accountService(client *apihttp.Client, logger *log.Logger) (*account.Service, error) {
	s, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	return account.NewService(client, account.Paths{
		AuthCheck: s.AuthCheckPath,
		Profile:   s.ProfilePath,
		Payment:   s.PaymentPath,
	}, logger), nil
}
