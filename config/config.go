// Package config loads the service configuration from a YAML file with
// environment variable overrides.
//
// .env files are read before the overrides are applied, in this order:
//
//  1. ENV_FILE (if set, only this file is loaded)
//  2. .env.local
//  3. .env
//
// Values already present in the environment are never replaced by .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"content-archives/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	dbPathEnvVar   = "ARCHIVE_DB_PATH"
	portEnvVar     = "ARCHIVE_PORT"
	logLevelEnvVar = "ARCHIVE_LOG_LEVEL"
	localeEnvVar   = "ARCHIVE_LOCALE"
	prefixEnvVar   = "ARCHIVE_PREFIX"
)

// DefaultColumn is the date column archives are built from when neither the
// configuration nor the caller names one.
const DefaultColumn = "datepublish"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the complete service configuration.
type Config struct {
	Server       Server               `yaml:"server"`
	Database     Database             `yaml:"database"`
	Log          Log                  `yaml:"log"`
	Archives     Archives             `yaml:"archives"`
	ContentTypes []models.ContentType `yaml:"contenttypes" validate:"dive"`
}

type Server struct {
	Port      int    `yaml:"port" validate:"min=1,max=65535"`
	Locale    string `yaml:"locale" validate:"required"`
	Templates string `yaml:"templates" validate:"required"`
}

type Database struct {
	Path string `yaml:"path" validate:"required"`
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// Archives holds the options of the archive pages and widgets.
type Archives struct {
	// Prefix is the first URL path segment of listing pages.
	Prefix string `yaml:"prefix" validate:"required"`
	// UCWords title-cases labels. Unset means true.
	UCWords *bool `yaml:"ucwords"`
	// Columns maps a content type to the date column its archives use.
	Columns map[string]string `yaml:"columns" validate:"dive,keys,required,endkeys,oneof=datepublish datecreated datechanged datedepublish"`
	// Template overrides the listing template of every content type.
	Template string            `yaml:"template"`
	Widgets  map[string]Widget `yaml:"widgets" validate:"dive"`
}

// Widget places an archive list of one content type in a template location.
type Widget struct {
	Type     string `yaml:"type" validate:"omitempty,oneof=yearly monthly"`
	Location string `yaml:"location" validate:"required"`
	Order    string `yaml:"order"`
	Label    string `yaml:"label"`
	Column   string `yaml:"column" validate:"omitempty,oneof=datepublish datecreated datechanged datedepublish"`
	Header   string `yaml:"header"`
	Priority int    `yaml:"priority"`
}

// TitleCase reports whether archive labels get every word capitalised.
func (a Archives) TitleCase() bool {
	return a.UCWords == nil || *a.UCWords
}

// Column returns the configured date column for contentType, or "".
func (a Archives) Column(contentType string) string {
	return a.Columns[contentType]
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:      3000,
			Locale:    "en_US",
			Templates: "./templates",
		},
		Database: Database{Path: "archive.db"},
		Log:      Log{Level: "info", Format: "json"},
		Archives: Archives{
			Prefix:  "archives",
			Columns: map[string]string{},
			Widgets: map[string]Widget{},
		},
	}
}

// defaultContentTypes is used when the file configures none.
func defaultContentTypes() []models.ContentType {
	return []models.ContentType{
		{Slug: "pages", Name: "Pages", SingularName: "page", Sort: "title"},
		{Slug: "entries", Name: "Entries", SingularName: "entry", Sort: "-datepublish"},
	}
}

// Load reads the YAML file at path on top of Default, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			first := validationErrors[0]
			return fmt.Errorf("invalid config: field '%s' failed rule '%s'", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]bool, len(c.ContentTypes))
	for _, ct := range c.ContentTypes {
		if seen[ct.Slug] {
			return fmt.Errorf("invalid config: content type '%s' is defined twice", ct.Slug)
		}
		seen[ct.Slug] = true
	}
	return nil
}

func (c *Config) normalize() {
	c.Archives.Prefix = strings.Trim(c.Archives.Prefix, "/")
	if c.Archives.Columns == nil {
		c.Archives.Columns = map[string]string{}
	}
	if c.Archives.Widgets == nil {
		c.Archives.Widgets = map[string]Widget{}
	}
	if len(c.ContentTypes) == 0 {
		c.ContentTypes = defaultContentTypes()
	}
	for i := range c.ContentTypes {
		if c.ContentTypes[i].Sort == "" {
			c.ContentTypes[i].Sort = "-" + DefaultColumn
		}
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(dbPathEnvVar); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv(portEnvVar); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", portEnvVar, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv(logLevelEnvVar); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(localeEnvVar); v != "" {
		cfg.Server.Locale = v
	}
	if v := os.Getenv(prefixEnvVar); v != "" {
		cfg.Archives.Prefix = v
	}
	return nil
}

func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env.local: %w", err)
	}
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
