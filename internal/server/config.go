package server

import (
	"time"
)

type Config struct {
	Port                 int           `yaml:"port"`
	Bind                 string        `yaml:"bind"`
	Host                 string        `yaml:"host"`
	MaxTextBytes         int           `yaml:"maxTextBytes"`
	LimiterBuckets       int           `yaml:"limiterBuckets"`
	LimiterPeriod        time.Duration `yaml:"limiterPeriod"`
	LimiterMaxConcurrent int           `yaml:"limiterMaxConcurrent"`
	ShutdownTimeout      time.Duration `yaml:"shutdownTimeout"`
	TLSCert              string        `yaml:"tlsCert"`
	TLSKey               string        `yaml:"tlsKey"`
	TLSReloadInterval    time.Duration `yaml:"tlsReloadInterval"`
}

func DefaultConfig() Config {
	return Config{
		Port:                 8080,
		Bind:                 "0.0.0.0",
		MaxTextBytes:         64 << 10,
		LimiterBuckets:       64,
		LimiterPeriod:        10 * time.Millisecond,
		LimiterMaxConcurrent: 8,
		ShutdownTimeout:      5 * time.Second,
		TLSReloadInterval:    time.Hour,
	}
}
