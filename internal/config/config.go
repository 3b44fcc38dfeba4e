// Package config loads and validates orgpage run settings from viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Fetch modes.
const (
	FetchModeStatic  = "static"
	FetchModeDynamic = "dynamic"
)

// Defaults mirror the behavior of a plain run with no config file.
const (
	DefaultUserAgent   = "Mozilla/5.0 (compatible)"
	DefaultTimeout     = 15 * time.Second
	DefaultOutputDir   = "output"
	DefaultMaxBodySize = "10MB"
)

// DefaultFonts are the alternative font families offered on the generated page.
var DefaultFonts = []string{"Roboto", "Inter", "PT Sans", "Montserrat", "Open Sans"}

// Config holds the settings of a single generate or extract run.
type Config struct {
	URL         string        `mapstructure:"url" validate:"required,url"`
	OutputDir   string        `mapstructure:"output_dir" validate:"required"`
	FetchMode   string        `mapstructure:"fetch_mode" validate:"oneof=static dynamic"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"min=1s"`
	UserAgent   string        `mapstructure:"user_agent" validate:"required"`
	MaxBodySize string        `mapstructure:"max_body_size"`
	Fonts       []string      `mapstructure:"fonts" validate:"min=1,dive,required"`
	PrettyHTML  bool          `mapstructure:"pretty_html"`
	ChromePath  string        `mapstructure:"chrome_path"`

	// Page request settings
	Headers map[string]string `mapstructure:"headers" validate:"dive,keys,required,endkeys"`
	WaitFor string            `mapstructure:"wait_for"` // dynamic mode: selector to wait for
	Wait    time.Duration     `mapstructure:"wait" validate:"min=0"`

	// MaxBodyBytes is MaxBodySize parsed; 0 means unlimited.
	MaxBodyBytes int `mapstructure:"-"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("fetch_mode", FetchModeStatic)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("max_body_size", DefaultMaxBodySize)
	v.SetDefault("fonts", DefaultFonts)
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and parses MaxBodySize.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s %s", fieldName(e), formatValidationError(e)))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}

	size := strings.TrimSpace(c.MaxBodySize)
	if size == "" || size == "0" {
		c.MaxBodyBytes = 0
		return nil
	}
	n, err := humanize.ParseBytes(size)
	if err != nil {
		return fmt.Errorf("invalid config: max_body_size %q: %w", c.MaxBodySize, err)
	}
	c.MaxBodyBytes = int(n)
	return nil
}

// fieldName maps a struct field back to its config key.
func fieldName(e validator.FieldError) string {
	switch e.StructField() {
	case "URL":
		return "url"
	case "OutputDir":
		return "output_dir"
	case "FetchMode":
		return "fetch_mode"
	case "Timeout":
		return "timeout"
	case "UserAgent":
		return "user_agent"
	case "Fonts":
		return "fonts"
	case "Headers":
		return "headers"
	case "Wait":
		return "wait"
	default:
		return strings.ToLower(e.Field())
	}
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
