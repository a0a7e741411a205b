package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"install-scheduling-service/internal/domain"
)

type ServerConfig struct {
	Addr            string        `json:"addr"`
	ReadTimeout     time.Duration `json:"readTimeout"`
	WriteTimeout    time.Duration `json:"writeTimeout"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout"`
}

type DatabaseConfig struct {
	URL string `json:"url"`
}

type RedisConfig struct {
	// URL is optional; empty disables event publishing.
	URL string `json:"url"`
}

type RoutingConfig struct {
	APIKey         string        `json:"apiKey"`
	BaseURL        string        `json:"baseUrl"`
	Profile        string        `json:"profile"`
	Timeout        time.Duration `json:"timeout"`
	AvgSpeedKmh    float64       `json:"avgSpeedKmh"`
	MatrixParallel int           `json:"matrixParallel"`
}

type DepotConfig struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type SlotsConfig struct {
	// DaysAhead is how far the slot inventory is kept filled.
	DaysAhead int `json:"daysAhead"`
	// NonOperatingWeekdays lists weekday names with no slots, e.g. ["Sunday"].
	NonOperatingWeekdays []string `json:"nonOperatingWeekdays"`
}

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Routing  RoutingConfig  `json:"routing"`
	Depot    DepotConfig    `json:"depot"`
	Slots    SlotsConfig    `json:"slots"`
}

// Load reads a YAML or JSON config file and applies IS_ environment
// overrides (IS_DATABASE__URL maps to database.url).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := k.Load(env.Provider("IS_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "is_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Routing.Profile == "" {
		c.Routing.Profile = "driving-car"
	}
	if c.Routing.Timeout == 0 {
		c.Routing.Timeout = 10 * time.Second
	}
	if c.Routing.AvgSpeedKmh == 0 {
		c.Routing.AvgSpeedKmh = 30
	}
	if c.Routing.MatrixParallel == 0 {
		c.Routing.MatrixParallel = 5
	}
	if c.Slots.DaysAhead == 0 {
		c.Slots.DaysAhead = 14
	}
	if c.Slots.NonOperatingWeekdays == nil {
		c.Slots.NonOperatingWeekdays = []string{"Sunday"}
	}
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Routing.APIKey == "" {
		return errors.New("routing.apiKey is required")
	}
	if _, err := c.NonOperatingDays(); err != nil {
		return err
	}
	return nil
}

// NonOperatingDays resolves the configured weekday names.
func (c *Config) NonOperatingDays() ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(c.Slots.NonOperatingWeekdays))
	for _, name := range c.Slots.NonOperatingWeekdays {
		day, err := parseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// DepotLocation returns the configured depot as a coordinate pair.
func (c *Config) DepotLocation() domain.Coordinates {
	return domain.Coordinates{Lon: c.Depot.Lon, Lat: c.Depot.Lat}
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q in slots.nonOperatingWeekdays", name)
}
