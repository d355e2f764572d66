// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads scenecap command settings from a YAML file and
// SCENECAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gogpu/gg"
	"github.com/spf13/viper"

	"github.com/gogpu/scenecap"
)

// EnvPrefix prefixes every environment override, e.g. SCENECAP_WIDTH.
const EnvPrefix = "SCENECAP"

// Name is the config file searched for when none is given.
const Name = ".scenecap"

// Config is the decoded command configuration.
type Config struct {
	ProjectRoot  string        `mapstructure:"project_root"`
	Scene        string        `mapstructure:"scene"`
	Width        int           `mapstructure:"width"`
	Height       int           `mapstructure:"height"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollMaxWait  time.Duration `mapstructure:"poll_max_wait"`
	Backdrop     string        `mapstructure:"backdrop"`
	TemplateExt  string        `mapstructure:"template_ext"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project_root", ".")
	v.SetDefault("scene", "scene.yaml")
	v.SetDefault("width", scenecap.DefaultWidth)
	v.SetDefault("height", scenecap.DefaultHeight)
	v.SetDefault("poll_interval", 100*time.Millisecond)
	v.SetDefault("poll_max_wait", 5*time.Second)
	v.SetDefault("backdrop", "")
	v.SetDefault("template_ext", scenecap.DefaultTemplateExt)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
}

// New returns a viper instance with defaults, environment overrides and the
// config file applied. An explicit cfgFile must exist; otherwise .scenecap.yaml
// is looked up in the working directory and then the home directory, and
// its absence is not an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		return v, nil
	}

	v.SetConfigName(Name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return v, nil
}

// Decode reads v into a Config and checks it.
func Decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load is New followed by Decode.
func Load(cfgFile string) (*Config, error) {
	v, err := New(cfgFile)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: size %dx%d must be positive", c.Width, c.Height))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("config: poll_interval %s must be positive", c.PollInterval))
	}
	if c.PollMaxWait < c.PollInterval {
		errs = append(errs, fmt.Errorf("config: poll_max_wait %s is shorter than poll_interval", c.PollMaxWait))
	}
	if _, err := c.backdrop(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: log_format %q must be text or json", c.LogFormat))
	}
	return errors.Join(errs...)
}

// PollAttempts converts the wait bounds to a number of checks.
func (c *Config) PollAttempts() int {
	n := int(c.PollMaxWait / c.PollInterval)
	if n < 1 {
		n = 1
	}
	return n
}

func (c *Config) backdrop() (*color.RGBA, error) {
	if c.Backdrop == "" {
		return nil, nil
	}
	hex := strings.TrimPrefix(c.Backdrop, "#")
	ok := len(hex) == 3 || len(hex) == 6 || len(hex) == 8
	for _, r := range hex {
		ok = ok && strings.ContainsRune("0123456789abcdefABCDEF", r)
	}
	if !ok {
		return nil, fmt.Errorf("config: backdrop %q is not a hex color", c.Backdrop)
	}
	rgba := color.RGBAModel.Convert(gg.Hex(c.Backdrop).Color()).(color.RGBA)
	return &rgba, nil
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

// Logger builds the command logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	l, _ := c.level()
	opts := &slog.HandlerOptions{Level: l}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Options converts the configuration to session options.
func (c *Config) Options() []scenecap.Option {
	opts := []scenecap.Option{
		scenecap.WithProjectRoot(c.ProjectRoot),
		scenecap.WithDefaultSize(c.Width, c.Height),
		scenecap.WithPoll(c.PollInterval, c.PollAttempts()),
		scenecap.WithTemplateExt(c.TemplateExt),
	}
	if bg, _ := c.backdrop(); bg != nil {
		opts = append(opts, scenecap.WithBackdrop(*bg))
	}
	return opts
}
