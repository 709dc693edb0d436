// Package mcp parses weather MCP command configuration and starts the selected binding.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	platformcmd "github.com/louisbranch/weather-mcp/internal/platform/cmd"
	"github.com/louisbranch/weather-mcp/internal/platform/config"
	"github.com/louisbranch/weather-mcp/internal/platform/timeouts"
	"github.com/louisbranch/weather-mcp/internal/services/mcp/service"
	"github.com/louisbranch/weather-mcp/internal/services/weather/nws"
)

// Config holds weather MCP command configuration.
type Config struct {
	Transport service.TransportKind

	Port         string   `env:"PORT"                               envDefault:"3001"`
	Host         string   `env:"WEATHER_MCP_HTTP_HOST"`
	AllowedHosts []string `env:"WEATHER_MCP_ALLOWED_HOSTS"          envSeparator:","`
	// UnknownSessions is the raw drop/reject policy name.
	UnknownSessions string `env:"WEATHER_MCP_UNKNOWN_SESSION_POLICY" envDefault:"drop"`

	NWSBaseURL string        `env:"WEATHER_MCP_NWS_BASE_URL" envDefault:"https://api.weather.gov"`
	UserAgent  string        `env:"WEATHER_MCP_USER_AGENT"   envDefault:"weather-app/1.0"`
	NWSTimeout time.Duration `env:"WEATHER_MCP_NWS_TIMEOUT"  envDefault:"10s"`
}

// HTTPAddr returns the SSE listen address.
func (c Config) HTTPAddr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// ParseStdioConfig parses environment and flags for the stdio binary.
func ParseStdioConfig(fs *flag.FlagSet, args []string) (Config, error) {
	return parseConfig(fs, args, nil, service.TransportStdio)
}

// ParseSSEConfig parses environment and flags for the HTTP+SSE binary.
func ParseSSEConfig(fs *flag.FlagSet, args []string) (Config, error) {
	return parseConfig(fs, args, nil, service.TransportSSE)
}

// parseConfig reads environment first, then lets flags override it. A nil
// environment reads the process environment.
func parseConfig(fs *flag.FlagSet, args []string, environment map[string]string, transport service.TransportKind) (Config, error) {
	var cfg Config
	var err error
	if environment == nil {
		err = platformcmd.ParseConfig(&cfg)
	} else {
		err = config.ParseEnvFrom(&cfg, environment)
	}
	if err != nil {
		return Config{}, err
	}
	cfg.Transport = transport

	fs.StringVar(&cfg.NWSBaseURL, "nws-base-url", cfg.NWSBaseURL, "National Weather Service API base URL")
	fs.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User-Agent sent to the weather service")
	fs.DurationVar(&cfg.NWSTimeout, "nws-timeout", cfg.NWSTimeout, "timeout for each weather service request")
	if transport == service.TransportSSE {
		fs.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
		fs.StringVar(&cfg.Host, "host", cfg.Host, "HTTP listen host (empty for all interfaces)")
		fs.StringVar(&cfg.UnknownSessions, "unknown-session", cfg.UnknownSessions, "unknown session policy: drop or reject")
	}
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.NWSBaseURL) == "" {
		return fmt.Errorf("weather service base URL is required")
	}
	if c.NWSTimeout < 0 {
		return fmt.Errorf("weather service timeout must not be negative, got %s", c.NWSTimeout)
	}
	if c.Transport != service.TransportSSE {
		return nil
	}
	port, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if _, err := service.ParseUnknownSessionPolicy(c.UnknownSessions); err != nil {
		return err
	}
	return nil
}

// Run starts the weather MCP server on the configured binding.
func Run(ctx context.Context, cfg Config) error {
	serviceName := platformcmd.ServiceStdio
	if cfg.Transport == service.TransportSSE {
		serviceName = platformcmd.ServiceSSE
	}

	serviceCfg, err := serviceConfig(cfg)
	if err != nil {
		return err
	}

	timeout := cfg.NWSTimeout
	if timeout == 0 {
		timeout = timeouts.WeatherRequest
	}

	return platformcmd.RunWithTelemetry(ctx, serviceName, func(ctx context.Context) error {
		weather := nws.NewClient(nws.Config{
			BaseURL:   cfg.NWSBaseURL,
			UserAgent: cfg.UserAgent,
			Timeout:   timeout,
		})
		return service.Run(ctx, serviceCfg, weather)
	})
}

// serviceConfig maps command configuration onto the service runtime. HTTP-only
// settings are read only for the SSE binding.
func serviceConfig(cfg Config) (service.Config, error) {
	serviceCfg := service.Config{Transport: cfg.Transport}
	if cfg.Transport != service.TransportSSE {
		return serviceCfg, nil
	}

	policy, err := service.ParseUnknownSessionPolicy(cfg.UnknownSessions)
	if err != nil {
		return service.Config{}, err
	}
	serviceCfg.HTTPAddr = cfg.HTTPAddr()
	serviceCfg.AllowedHosts = cfg.AllowedHosts
	serviceCfg.UnknownSessions = policy
	return serviceCfg, nil
}
