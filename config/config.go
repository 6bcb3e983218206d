package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Input is the path of the event log to reconstruct; positional, never
	// read from a config file.
	Input string `yaml:"-"`

	Depth   int     `yaml:"depth"`
	Output  string  `yaml:"output"`
	Rate    float64 `yaml:"rate"`
	Summary bool    `yaml:"summary"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Kafka struct {
		BrokerAddr string `yaml:"broker_addr"`
		Topic      string `yaml:"topic"`
	} `yaml:"kafka"`
}

// Default configuration values
var (
	configFile  = flag.String("config", "", "Path to config file (YAML)")
	depth       = flag.Int("depth", 10, "Snapshot depth per book side")
	output      = flag.String("o", "", "Output path (default stdout)")
	eventRate   = flag.Float64("rate", 0, "Replay pacing in events/sec, 0 for unlimited")
	summary     = flag.Bool("summary", false, "Print a colored top-of-book table on exit")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat   = flag.String("log-format", "json", "Log format: json, pretty")
	kafkaBroker = flag.String("kafka-broker", "", "Kafka broker address for update publication (optional)")
	kafkaTopic  = flag.String("kafka-topic", "mbp10-updates", "Kafka topic for update publication")
)

// LoadConfig loads the configuration from command line flags, optionally from
// a config file, and from BLOCKHOUSE_* environment variables. Exactly one
// positional argument names the input file; a missing argument is a startup
// failure.
func LoadConfig() (*Config, error) {
	// Parse command line flags
	flag.Parse()

	// Create default configuration
	config := &Config{}
	config.Depth = *depth
	config.Output = *output
	config.Rate = *eventRate
	config.Summary = *summary
	config.Log.Level = *logLevel
	config.Log.Format = *logFormat
	config.Kafka.BrokerAddr = *kafkaBroker
	config.Kafka.Topic = *kafkaTopic

	// Load configuration from file if specified
	if *configFile != "" {
		if err := applyFile(config, *configFile); err != nil {
			return nil, err
		}
	}

	applyEnv(config)

	if flag.NArg() != 1 {
		return nil, fmt.Errorf("usage: %s [flags] <input.csv>", os.Args[0])
	}
	config.Input = flag.Arg(0)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyFile overlays YAML configuration from path onto config.
func applyFile(config *Config, path string) error {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnv overlays BLOCKHOUSE_* environment variables onto config.
func applyEnv(config *Config) {
	v := viper.New()
	v.SetEnvPrefix("BLOCKHOUSE")
	v.AutomaticEnv()

	if s := v.GetString("KAFKA_BROKER"); s != "" {
		config.Kafka.BrokerAddr = s
	}
	if s := v.GetString("KAFKA_TOPIC"); s != "" {
		config.Kafka.Topic = s
	}
	if s := v.GetString("LOG_LEVEL"); s != "" {
		config.Log.Level = s
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Depth <= 0 {
		return fmt.Errorf("depth must be positive")
	}
	if cfg.Rate < 0 {
		return fmt.Errorf("rate must not be negative")
	}
	return nil
}
