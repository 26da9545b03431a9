// Package config holds playbot's application settings on top of the core
// telegram, webhook and logging configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	coreconfig "github.com/m3rciful/playbot/core/config"
	coredatabase "github.com/m3rciful/playbot/core/database"
)

// ContentConfig selects where jokes, facts and quiz questions come from.
// With neither field set the built-in tables are used.
type ContentConfig struct {
	File   string `yaml:"file" envconfig:"CONTENT_FILE"`
	FromDB bool   `yaml:"from_db" envconfig:"CONTENT_FROM_DB"`
}

// SessionConfig bounds the in-memory game and quiz sessions.
type SessionConfig struct {
	TTL      time.Duration `yaml:"ttl" envconfig:"SESSION_TTL"`
	Capacity int           `yaml:"capacity" envconfig:"SESSION_CAPACITY"`
}

// ReminderConfig sizes the reminder delivery pool.
type ReminderConfig struct {
	Workers int `yaml:"workers" envconfig:"REMINDER_WORKERS"`
}

// HealthConfig enables the HTTP health endpoint when Listen is set.
type HealthConfig struct {
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Content  ContentConfig       `yaml:"content"`
	Session  SessionConfig       `yaml:"session"`
	Reminder ReminderConfig      `yaml:"reminder"`
	Health   HealthConfig        `yaml:"health"`
}

const (
	defaultSessionTTL      = time.Hour
	defaultSessionCapacity = 10_000
	defaultReminderWorkers = 8
)

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// DatabaseConfig returns the connection settings, or nil when content is
// not read from the database.
func (c *Config) DatabaseConfig() *coredatabase.Config {
	if c == nil || !c.Content.FromDB {
		return nil
	}
	db := c.Database.WithDefaults()
	return &db
}

// Load reads the YAML file at path (optional) and the environment, applies
// defaults and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.ReadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Content.File = strings.TrimSpace(c.Content.File)
	if c.Session.TTL == 0 {
		c.Session.TTL = defaultSessionTTL
	}
	if c.Session.Capacity == 0 {
		c.Session.Capacity = defaultSessionCapacity
	}
	if c.Reminder.Workers == 0 {
		c.Reminder.Workers = defaultReminderWorkers
	}
}

// Validate checks the application sections.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Content),
		validation.Field(&c.Database, validation.When(c.Content.FromDB, validation.By(requireDatabase))),
		validation.Field(&c.Session),
		validation.Field(&c.Reminder),
	)
}

func requireDatabase(value any) error {
	db, _ := value.(coredatabase.Config)
	return validation.ValidateStruct(&db,
		validation.Field(&db.Name, validation.Required),
		validation.Field(&db.User, validation.Required),
	)
}

// Validate rejects ambiguous content sources.
func (c ContentConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.File, validation.Empty.When(c.FromDB).Error("cannot be combined with content.from_db")),
	)
}

// Validate requires positive bounds.
func (c SessionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TTL, validation.Min(time.Second)),
		validation.Field(&c.Capacity, validation.Min(1)),
	)
}

// Validate requires at least one worker.
func (c ReminderConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Workers, validation.Min(1)),
	)
}
