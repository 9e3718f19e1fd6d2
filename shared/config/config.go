package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/henhouse-dev/henhouse/shared/validation"
	"gopkg.in/yaml.v2"
)

// Config is the frontend configuration. Private values are only
// reachable through accessors so they never end up in templates.
type Config struct {
	Public  Public
	private Private
}

// Public holds settings that are safe to log and expose.
type Public struct {
	APIHost          string        `yaml:"api_host" validate:"required,url"`         // backend address used by the server
	PublicAPIHost    string        `yaml:"public_api_host" validate:"omitempty,url"` // backend address advertised to browsers
	Port             string        `yaml:"port"`
	SecureCookies    bool          `yaml:"secure_cookies"`
	LogLevel         string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogJSON          bool          `yaml:"log_json"`
	DefaultPageLimit int           `yaml:"default_page_limit" validate:"required,min=1,max=100"`
	QueryCacheTTL    time.Duration `yaml:"query_cache_ttl"`
	APITimeout       time.Duration `yaml:"api_timeout" validate:"required"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	TemplatesPath    string        `yaml:"templates_path"`
	StaticPath       string        `yaml:"static_path"`
	BehindProxy      bool          `yaml:"behind_proxy"`     // trust X-Forwarded-For / X-Real-IP
	LoginRateLimit   float64       `yaml:"login_rate_limit"` // attempts per second per IP, 0 disables
}

// Private holds secrets read from private.yaml.
type Private struct {
	MetricsToken string `yaml:"metrics_token"`
}

// MetricsToken guards the /metrics endpoint. Empty means unprotected.
func (c *Config) MetricsToken() string {
	return c.private.MetricsToken
}

func (p *Public) applyDefaults() {
	if p.PublicAPIHost == "" {
		p.PublicAPIHost = p.APIHost
	}
	p.APIHost = strings.TrimRight(p.APIHost, "/")
	p.PublicAPIHost = strings.TrimRight(p.PublicAPIHost, "/")
	if p.Port == "" {
		p.Port = "8081"
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.QueryCacheTTL == 0 {
		p.QueryCacheTTL = 30 * time.Second
	}
	if p.ReadTimeout == 0 {
		p.ReadTimeout = 5 * time.Second
	}
	if p.WriteTimeout == 0 {
		p.WriteTimeout = 10 * time.Second
	}
	if p.TemplatesPath == "" {
		p.TemplatesPath = "frontend/templates"
	}
	if p.StaticPath == "" {
		p.StaticPath = "frontend/static"
	}
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder and
// panics when either is missing or invalid.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	if err := validation.Struct(&public); err != nil {
		panic(fmt.Sprintf("invalid config %s: %v", configFolder, err))
	}
	public.applyDefaults()

	return &Config{public, private}
}
