package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/xdimtech/go-wsecho/pkg/logging"
)

const (
	EnvPrefix      = "WSECHO"
	DefaultEchoURL = "wss://ws.postman-echo.com/raw"
	DefaultPrefix  = "Random string: "

	OutputText = "text"
	OutputJSON = "json"
)

var conf = Default()

type EchoConf struct {
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix"`
	Output string `yaml:"output"`
}

type SocketConf struct {
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	ReadLimit        int64         `yaml:"read_limit"`
	QueueSize        int           `yaml:"queue_size"`
	Compression      bool          `yaml:"compression"`
	Subprotocols     []string      `yaml:"subprotocols"`
}

type LogConf struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type MetricsConf struct {
	Addr string `yaml:"addr"`
}

type BizConf struct {
	Echo    EchoConf    `yaml:"echo"`
	Socket  SocketConf  `yaml:"socket"`
	Log     LogConf     `yaml:"log"`
	Metrics MetricsConf `yaml:"metrics"`
}

// Default returns the configuration used when no file or env var overrides it.
func Default() BizConf {
	return BizConf{
		Echo: EchoConf{
			URL:    DefaultEchoURL,
			Prefix: DefaultPrefix,
			Output: OutputText,
		},
		Socket: SocketConf{
			HandshakeTimeout: 10 * time.Second,
			QueueSize:        256,
		},
		Log: LogConf{
			Level: "info",
		},
	}
}

func Get() *BizConf {
	return &conf
}

func Echo() *EchoConf {
	return &conf.Echo
}

func Socket() *SocketConf {
	return &conf.Socket
}

// Load reads echo.yaml from paths (default "conf" and "."), applies
// WSECHO_* environment overrides, validates the result and makes it the
// package configuration. A missing file is not an error.
func Load(paths ...string) (*BizConf, error) {
	c, err := load(paths...)
	if err != nil {
		return nil, err
	}
	conf = *c
	return Get(), nil
}

func load(paths ...string) (*BizConf, error) {
	v := viper.New()
	v.SetConfigName("echo")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"conf", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c BizConf
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &c,
		TagName:          "yaml",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("echo.url", d.Echo.URL)
	v.SetDefault("echo.prefix", d.Echo.Prefix)
	v.SetDefault("echo.output", d.Echo.Output)
	v.SetDefault("socket.handshake_timeout", d.Socket.HandshakeTimeout)
	v.SetDefault("socket.write_timeout", d.Socket.WriteTimeout)
	v.SetDefault("socket.read_limit", d.Socket.ReadLimit)
	v.SetDefault("socket.queue_size", d.Socket.QueueSize)
	v.SetDefault("socket.compression", d.Socket.Compression)
	v.SetDefault("socket.subprotocols", []string{})
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

func (c *BizConf) Validate() error {
	if c.Echo.URL == "" {
		return fmt.Errorf("echo.url is required")
	}
	u, err := url.Parse(c.Echo.URL)
	if err != nil {
		return fmt.Errorf("echo.url is invalid: %w", err)
	}
	if !lo.Contains([]string{"ws", "wss"}, u.Scheme) {
		return fmt.Errorf("echo.url must use ws or wss, got %q", u.Scheme)
	}
	if !lo.Contains([]string{OutputText, OutputJSON}, c.Echo.Output) {
		return fmt.Errorf("echo.output must be %q or %q", OutputText, OutputJSON)
	}
	if c.Socket.QueueSize < 1 {
		return fmt.Errorf("socket.queue_size must be positive")
	}
	if c.Socket.HandshakeTimeout < 0 || c.Socket.WriteTimeout < 0 {
		return fmt.Errorf("socket timeouts must not be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level is invalid: %w", err)
	}
	return nil
}

// Logging converts the log section into a logger configuration.
func (c *BizConf) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Development = c.Log.Development
	return cfg
}
