package config

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"gorm.io/gorm/logger"
)

// SetupLogging installs the apex/log handler and level for this environment.
func (c *Config) SetupLogging() {
	if c.IsProduction() {
		log.SetHandler(json.New(os.Stderr))
	} else {
		log.SetHandler(text.New(os.Stderr))
	}

	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// GormLogLevel maps the environment onto gorm's SQL logger.
func (c *Config) GormLogLevel() logger.LogLevel {
	switch c.AppEnv {
	case EnvProduction:
		return logger.Warn
	case EnvTest:
		return logger.Silent
	default:
		return logger.Info
	}
}
