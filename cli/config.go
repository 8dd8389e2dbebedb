package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/config"
	"github.com/goto/sieve/core/search"
	"github.com/goto/sieve/internal/store/postgres"
	"github.com/goto/sieve/internal/store/redis"
	"github.com/goto/sieve/pkg/statsd"
	"github.com/goto/sieve/pkg/telemetry"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const (
	configFlag     = "config"
	configFileName = "sieve.yaml"
)

type Config struct {
	// Log
	LogLevel string `yaml:"log_level" mapstructure:"log_level" default:"info"`

	// StatsD
	StatsD statsd.Config `yaml:"statsd" mapstructure:"statsd"`

	// OpenTelemetry and NewRelic
	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`

	// Search defaults
	Search SearchConfig `yaml:"search" mapstructure:"search"`

	// Saved search store
	Store StoreConfig `yaml:"store" mapstructure:"store"`
}

type SearchConfig struct {
	search.Options `yaml:",inline" mapstructure:",squash"`
	Debounce       time.Duration `yaml:"debounce" mapstructure:"debounce" default:"300ms"`
}

type StoreConfig struct {
	Driver   string          `yaml:"driver" mapstructure:"driver" default:"file"`
	File     FileStoreConfig `yaml:"file" mapstructure:"file"`
	Postgres postgres.Config `yaml:"postgres" mapstructure:"postgres"`
	Redis    redis.Config    `yaml:"redis" mapstructure:"redis"`
}

type FileStoreConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir" default:".sieve"`
}

// defaultConfig mirrors the default tags for files written by config init.
func defaultConfig() Config {
	return Config{
		LogLevel: "info",
		StatsD: statsd.Config{
			Address:             "127.0.0.1:8125",
			Prefix:              "sieve",
			SamplingRate:        1,
			WithInfluxTagFormat: true,
		},
		Telemetry: telemetry.Config{
			AppName: "sieve",
			OpenTelemetry: telemetry.OpenTelemetryConfig{
				CollectorAddr:          "localhost:4317",
				PeriodicReadInterval:   time.Second,
				TraceSampleProbability: 1,
			},
		},
		Search: SearchConfig{
			Options:  search.DefaultOptions(),
			Debounce: 300 * time.Millisecond,
		},
		Store: StoreConfig{
			Driver: storeDriverFile,
			File:   FileStoreConfig{Dir: ".sieve"},
			Postgres: postgres.Config{
				Host:         "localhost",
				Port:         5432,
				Name:         "postgres",
				User:         "root",
				SSLMode:      "disable",
				MaxOpenConns: 5,
			},
			Redis: redis.Config{
				Addr:         "localhost:6379",
				KeyPrefix:    "sieve:",
				DialTimeout:  5 * time.Second,
				ReadTimeout:  3 * time.Second,
				WriteTimeout: 3 * time.Second,
			},
		},
	}
}

func configCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage sieve configuration",
		Example: heredoc.Doc(`
			$ sieve config init
			$ sieve config list`),
	}

	cmd.AddCommand(configInitCommand())
	cmd.AddCommand(configListCommand(cfg))

	return cmd
}

func configInitCommand() *cobra.Command {
	var path string
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Example: heredoc.Doc(`
			$ sieve config init
			$ sieve config init --path ./configs/sieve.yaml
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
			}

			b, err := yaml.Marshal(defaultConfig())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, b, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config created: %v\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", configFileName, "path of the config file to create")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}

func configListCommand(cfg *Config) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "list",
		Short: "List configuration settings",
		Example: heredoc.Doc(`
			$ sieve config list
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(*cfg)
		},
	}
	return cmd
}

// LoadConfig reads sieve.yaml from the current directory, falling back to
// defaults and SIEVE_ prefixed environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	opts := []config.LoaderOption{
		config.WithPath("./"),
		config.WithName(configFileName),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("SIEVE"),
	}

	if err := config.NewLoader(opts...).Load(&cfg); err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			def := defaultConfig()
			return &def, ErrConfigNotFound
		}
		return &cfg, err
	}
	return &cfg, nil
}

// LoadConfigFromFlag loads cfg from the file given with --config.
func LoadConfigFromFlag(cfgFile string, cfg *Config) error {
	var opts []config.LoaderOption
	opts = append(opts,
		config.WithFile(cfgFile),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("SIEVE"),
	)

	return config.NewLoader(opts...).Load(cfg)
}

// resolveConfig applies --config when set.
func resolveConfig(cmd *cobra.Command, cfg *Config) (*Config, error) {
	cfgFile, _ := cmd.Flags().GetString(configFlag)
	if cfgFile == "" {
		return cfg, nil
	}

	var loaded Config
	if err := LoadConfigFromFlag(cfgFile, &loaded); err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgFile, err)
	}
	return &loaded, nil
}
