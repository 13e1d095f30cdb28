// Package config holds the program's configuration, parsed from flags,
// environment variables and an optional YAML config file.
package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for our program, parsed from various
// sources. The `mapstructure` tags are used to map the fields to the viper
// configuration.
type Config struct {
	Job     string `mapstructure:"job"`
	JobPath string

	// InMemory runs the whole pipeline out of process memory, the job is
	// not resumable in that mode
	InMemory bool `mapstructure:"in-memory"`

	// Discovery
	Cities               []string `mapstructure:"cities"`
	PageSize             int      `mapstructure:"page-size"`
	DiscoveryParallelism int      `mapstructure:"discovery-parallelism"`
	RotatePagesEvery     int      `mapstructure:"rotate-pages-every"`

	// Grid mode covers a whole territory instead of the curated city list
	Grid         bool    `mapstructure:"grid"`
	GridNorth    float64 `mapstructure:"grid-north"`
	GridSouth    float64 `mapstructure:"grid-south"`
	GridEast     float64 `mapstructure:"grid-east"`
	GridWest     float64 `mapstructure:"grid-west"`
	GridCellSize float64 `mapstructure:"grid-cell-size"`

	// Enrichment
	WorkersCount     int           `mapstructure:"workers"`
	MaxRetry         int           `mapstructure:"max-retry"`
	BackoffBase      time.Duration `mapstructure:"backoff-base"`
	RateLimit        time.Duration `mapstructure:"rate-limit"`
	RotateFetchEvery int           `mapstructure:"rotate-fetch-every"`
	HTTPTimeout      int           `mapstructure:"http-timeout"`

	// Transport
	APIBaseURL string `mapstructure:"api-base-url"`

	// Sink, an empty DSN discards the normalized records
	DBDSN string `mapstructure:"db-dsn"`

	// API and metrics
	API              bool   `mapstructure:"api"`
	APIPort          int    `mapstructure:"api-port"`
	Prometheus       bool   `mapstructure:"prometheus"`
	PrometheusPrefix string `mapstructure:"prometheus-prefix"`

	// Logging
	LiveStats bool `mapstructure:"live-stats"`
	JSON      bool `mapstructure:"json"`
	Debug     bool `mapstructure:"debug"`
}

var (
	config *Config
	once   sync.Once
)

// InitConfig initializes the configuration
// Flags -> Env -> Config file
// Latest has precedence over the rest
func InitConfig() error {
	var err error
	once.Do(func() {
		config = &Config{}

		if configFile := viper.GetString("config-file"); configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			home, homeErr := os.UserHomeDir()
			if homeErr != nil {
				fmt.Println(homeErr)
				os.Exit(1)
			}

			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName("landomo-config")
		}

		viper.SetEnvPrefix("LANDOMO")
		replacer := strings.NewReplacer("-", "_", ".", "_")
		viper.SetEnvKeyReplacer(replacer)
		viper.AutomaticEnv()

		if err = viper.ReadInConfig(); err == nil {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
		err = nil

		err = viper.Unmarshal(config)
	})
	return err
}

// BindFlags binds the flags to the viper configuration
// This is needed because viper doesn't support same flag name accross
// multiple commands
func BindFlags(flagSet *pflag.FlagSet) {
	flagSet.VisitAll(func(flag *pflag.Flag) {
		viper.BindPFlag(flag.Name, flag)
	})
}

// Get returns the config struct
func Get() *Config {
	return config
}

// EnsureJobPath create the job's directory and record it in the config.
// All the durable state of a job lives under that directory.
func (c *Config) EnsureJobPath() error {
	if c.Job == "" {
		c.Job = "default"
	}

	c.JobPath = path.Join("jobs", c.Job)

	return os.MkdirAll(c.JobPath, 0755)
}
