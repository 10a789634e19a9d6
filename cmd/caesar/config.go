package main

import (
	"caesar/internal/caesar"
	"caesar/internal/ctxlog"
	"caesar/internal/server"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Log    ctxlog.Config `yaml:"log"`
	Shift  *int          `yaml:"shift"`
	Server server.Config `yaml:"server"`
}

func DefaultConfig() Config {
	return Config{
		Log:    ctxlog.Config{Level: "info", Format: "text"},
		Shift:  ptr(3),
		Server: server.DefaultConfig(),
	}
}

// LoadConfig reads filename over the defaults. An empty filename yields the defaults.
func LoadConfig(ctx context.Context, filename string) (Config, error) {
	if filename == "" {
		return DefaultConfig(), nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return Config{}, fmt.Errorf("open %q: %w", filename, err)
	}
	defer ctxlog.Close(ctx, "config file", file)

	dec := yaml.NewDecoder(file, yaml.Strict())

	var config Config
	err = dec.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("yaml: %w", err)
	}

	config.fill(DefaultConfig())

	if !caesar.ValidShift(*config.Shift) {
		return Config{}, fmt.Errorf("shift: %w: %d", caesar.ErrInvalidShift, *config.Shift)
	}
	return config, nil
}

// fill replaces zero values with the ones from def.
func (c *Config) fill(def Config) {
	setDefault(&c.Log.Level, def.Log.Level)
	setDefault(&c.Log.Format, def.Log.Format)
	if c.Shift == nil {
		c.Shift = ptr(*def.Shift)
	}

	s, d := &c.Server, def.Server
	setDefault(&s.Port, d.Port)
	setDefault(&s.Bind, d.Bind)
	setDefault(&s.MaxTextBytes, d.MaxTextBytes)
	setDefault(&s.LimiterBuckets, d.LimiterBuckets)
	setDefault(&s.LimiterPeriod, d.LimiterPeriod)
	setDefault(&s.LimiterMaxConcurrent, d.LimiterMaxConcurrent)
	setDefault(&s.ShutdownTimeout, d.ShutdownTimeout)
	setDefault(&s.TLSReloadInterval, d.TLSReloadInterval)
}

func ptr[T any](v T) *T {
	return &v
}

func setDefault[T comparable](v *T, def T) {
	var zero T
	if *v == zero {
		*v = def
	}
}

