package app

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides, e.g. STOREFRONT_BASE_URL.
const envPrefix = "STOREFRONT"

// Config captures flags, environment and config file values for Run.
type Config struct {
	ShowVersion    bool
	BaseURL        string
	APIPath        string
	Port           int
	RequestTimeout time.Duration
	ActionTimeout  time.Duration
	LogLevel       string
	Demo           bool
	DemoPort       int
}

// address converts the port setting into a binding string; PORT wins.
func (c Config) address() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":" + strconv.Itoa(c.Port)
}

// writeTimeout leaves room to write the response after a bounded action;
// unbounded actions get no write deadline either.
func (c Config) writeTimeout() time.Duration {
	if c.ActionTimeout <= 0 {
		return 0
	}
	return c.ActionTimeout + 10*time.Second
}

func (c Config) demoAddress() string {
	return "127.0.0.1:" + strconv.Itoa(c.DemoPort)
}

// parseConfig reads args, then STOREFRONT_* variables, then the optional
// --config file. Flags explicitly set on the command line take precedence.
func parseConfig(args []string) (Config, error) {
	set := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	set.SetOutput(io.Discard)

	set.Bool("version", false, "Show the application version")
	set.String("config", "", "Optional config file (yaml, toml or json)")
	set.String("base-url", "", "Base URL of the shop API")
	set.String("api-path", "", "API path segment of the shop")
	set.Int("port", 8765, "Port for the storefront web UI")
	set.Duration("request-timeout", 0, "Timeout for each shop API request; 0 disables it")
	set.Duration("action-timeout", 0, "Timeout for each page action, covering all its shop API requests; 0 disables it")
	set.String("log-level", "info", "Log level: debug, info, warn or error")
	set.Bool("demo", false, "Serve an in-memory shop API and point the storefront at it")
	set.Int("demo-port", 8766, "Port of the in-memory shop API in demo mode")

	if err := set.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(set); err != nil {
		return Config{}, errors.Wrap(err, "bind flags")
	}
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", file)
		}
	}

	cfg := Config{
		ShowVersion:    v.GetBool("version"),
		BaseURL:        v.GetString("base-url"),
		APIPath:        v.GetString("api-path"),
		Port:           v.GetInt("port"),
		RequestTimeout: v.GetDuration("request-timeout"),
		ActionTimeout:  v.GetDuration("action-timeout"),
		LogLevel:       v.GetString("log-level"),
		Demo:           v.GetBool("demo"),
		DemoPort:       v.GetInt("demo-port"),
	}
	return cfg, nil
}

// validate checks the settings needed to reach the shop API.
func (c Config) validate() error {
	if c.ShowVersion {
		return nil
	}
	if strings.TrimSpace(c.APIPath) == "" {
		return errors.New("api-path is required")
	}
	if !c.Demo && strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base-url is required unless --demo is set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("invalid port %d", c.Port)
	}
	if c.Demo && (c.DemoPort <= 0 || c.DemoPort > 65535) {
		return errors.Errorf("invalid demo port %d", c.DemoPort)
	}
	if c.RequestTimeout < 0 {
		return errors.New("request-timeout cannot be negative")
	}
	if c.ActionTimeout < 0 {
		return errors.New("action-timeout cannot be negative")
	}
	return nil
}
