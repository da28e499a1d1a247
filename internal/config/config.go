// Package config loads the host configuration: defaults, then a TOML
// file, then USH_* environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/synco/microshell/hal"
	"github.com/synco/microshell/ush"
)

const (
	// AppName names the config directory.
	AppName = "microshell"
	// ConfigFileName is the config file inside ConfigDir.
	ConfigFileName = "config.toml"
	// EnvPrefix prefixes environment overrides: USH_SHELL_PATH_MAX etc.
	EnvPrefix = "USH"
)

var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the effective host configuration.
	Config struct {
		Hostname string        `mapstructure:"hostname" toml:"hostname"`
		Shell    ShellConfig   `mapstructure:"shell" toml:"shell"`
		Console  ConsoleConfig `mapstructure:"console" toml:"console"`
		SSH      SSHConfig     `mapstructure:"ssh" toml:"ssh"`
		Log      LogConfig     `mapstructure:"log" toml:"log"`
	}

	// ShellConfig sizes the shell's fixed buffers and mount registry.
	ShellConfig struct {
		InputBuffer  int `mapstructure:"input_buffer" toml:"input_buffer"`
		OutputBuffer int `mapstructure:"output_buffer" toml:"output_buffer"`
		PathMax      int `mapstructure:"path_max" toml:"path_max"`
		MaxNodes     int `mapstructure:"max_nodes" toml:"max_nodes"`
	}

	// ConsoleConfig drives the polling loop of the stdio and pty transports.
	ConsoleConfig struct {
		Hz         int    `mapstructure:"hz" toml:"hz"`
		Ticks      uint64 `mapstructure:"ticks" toml:"ticks"`
		StepBudget int    `mapstructure:"step_budget" toml:"step_budget"`
	}

	// SSHConfig configures the ssh transport.
	SSHConfig struct {
		Addr    string `mapstructure:"addr" toml:"addr"`
		HostKey string `mapstructure:"host_key" toml:"host_key"`
	}

	LogConfig struct {
		Level string `mapstructure:"level" toml:"level"`
	}

	// LoadOptions selects where Load looks.
	LoadOptions struct {
		// ConfigFilePath is used exclusively when set and must exist.
		ConfigFilePath string
		// ConfigDirPath overrides ConfigDir.
		ConfigDirPath string
		// Flags, when set, override everything else for the flags the
		// user changed. Flag names use dashes for nested keys:
		// "shell-path-max" binds "shell.path_max".
		Flags *pflag.FlagSet
	}
)

// DefaultConfig mirrors the shell's compiled-in sizes.
func DefaultConfig() *Config {
	return &Config{
		Hostname: ush.DefaultHostname,
		Shell: ShellConfig{
			InputBuffer:  ush.DefaultInputBufferSize,
			OutputBuffer: ush.DefaultOutputBufferSize,
			PathMax:      ush.DefaultPathMax,
			MaxNodes:     ush.DefaultMaxNodes,
		},
		Console: ConsoleConfig{Hz: 200, StepBudget: 64},
		SSH:     SSHConfig{Addr: "127.0.0.1:2222", HostKey: ".ssh/microshell_ed25519"},
		Log:     LogConfig{Level: "info"},
	}
}

// ConfigDir is $XDG_CONFIG_HOME/microshell, falling back to the OS user
// config directory.
func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// Load resolves the configuration. It returns the file it read, or "" when
// none was found.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, "", err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, path, nil
}

func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		return opts.ConfigFilePath, nil
	}
	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	if p := filepath.Join(dir, ConfigFileName); fileExists(p) {
		return p, nil
	}
	return "", nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("hostname", d.Hostname)
	v.SetDefault("shell.input_buffer", d.Shell.InputBuffer)
	v.SetDefault("shell.output_buffer", d.Shell.OutputBuffer)
	v.SetDefault("shell.path_max", d.Shell.PathMax)
	v.SetDefault("shell.max_nodes", d.Shell.MaxNodes)
	v.SetDefault("console.hz", d.Console.Hz)
	v.SetDefault("console.ticks", d.Console.Ticks)
	v.SetDefault("console.step_budget", d.Console.StepBudget)
	v.SetDefault("ssh.addr", d.SSH.Addr)
	v.SetDefault("ssh.host_key", d.SSH.HostKey)
	v.SetDefault("log.level", d.Log.Level)
}

// bindFlags binds every flag whose name maps to a known key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		key := flagKey(f.Name)
		if !v.IsSet(key) {
			return
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

// flagKey maps "shell-path-max" to "shell.path_max".
func flagKey(name string) string {
	section, rest, ok := strings.Cut(name, "-")
	switch section {
	case "shell", "console", "ssh", "log":
		if ok {
			return section + "." + strings.ReplaceAll(rest, "-", "_")
		}
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Validate rejects sizes the shell cannot run with.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	if c.Hostname == "" {
		errs = append(errs, errors.New("hostname must not be empty"))
	}
	positive("shell.input_buffer", c.Shell.InputBuffer)
	positive("shell.output_buffer", c.Shell.OutputBuffer)
	positive("shell.max_nodes", c.Shell.MaxNodes)
	if c.Shell.PathMax < 2 {
		errs = append(errs, fmt.Errorf("shell.path_max must be at least 2, got %d", c.Shell.PathMax))
	}
	positive("console.hz", c.Console.Hz)
	positive("console.step_budget", c.Console.StepBudget)
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ShellConfig converts to the shell's own configuration.
func (c *Config) ShellConfig() ush.Config {
	return ush.Config{
		Hostname:         c.Hostname,
		InputBufferSize:  c.Shell.InputBuffer,
		OutputBufferSize: c.Shell.OutputBuffer,
		PathMax:          c.Shell.PathMax,
		MaxNodes:         c.Shell.MaxNodes,
	}
}

// Headless converts the console section for hal.RunHeadless.
func (c *Config) Headless() hal.HeadlessConfig {
	return hal.HeadlessConfig{
		Hz:         c.Console.Hz,
		Ticks:      c.Console.Ticks,
		StepBudget: c.Console.StepBudget,
	}
}

// Render encodes c as TOML.
func Render(c *Config) ([]byte, error) {
	b, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return b, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
