package observability

import (
	"strings"

	"github.com/smallbiznis/hostelhub/internal/config"
)

// ServiceInfo identifies the process in logs, spans and metric labels.
type ServiceInfo struct {
	Name        string
	Environment string
	Version     string
}

// Config is the observability slice of the process configuration.
type Config struct {
	Service   ServiceInfo
	Log       config.LoggerConfig
	Telemetry config.TelemetryConfig
}

func NewConfig(cfg config.Config) Config {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = "hostelhub"
	}
	return Config{
		Service: ServiceInfo{
			Name:        name,
			Environment: strings.ToLower(strings.TrimSpace(cfg.Environment)),
			Version:     strings.TrimSpace(cfg.AppVersion),
		},
		Log:       cfg.Logger,
		Telemetry: cfg.Telemetry,
	}
}

// Debug turns on verbose request logs and error stacks.
func (c Config) Debug() bool {
	if c.Log.Level == "debug" {
		return true
	}
	switch c.Service.Environment {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}
