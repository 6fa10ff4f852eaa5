package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/limaJavier/coursetable/pkg/model"
	"github.com/limaJavier/coursetable/pkg/sat"
)

// Config holds every setting of the timetabling commands
type Config struct {
	Solver SolverConfig `mapstructure:"solver"`
	Model  ModelConfig  `mapstructure:"model"`
	Input  InputConfig  `mapstructure:"input"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// SolverConfig selects the solving engine and its time budget
type SolverConfig struct {
	Engine      string        `mapstructure:"engine"`
	TimeBudget  time.Duration `mapstructure:"time_budget"`
	sat.Options `mapstructure:",squash"`
}

// ModelConfig selects how rooms are handled while building the model
type ModelConfig struct {
	Strategy string `mapstructure:"strategy"`
}

// InputConfig describes the input relations
type InputConfig struct {
	Delimiter string `mapstructure:"delimiter"` // Separator of the availability lists
}

type ServerConfig struct {
	Port        int   `mapstructure:"port"`
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration from a YAML file and TIMETABLE_ prefixed environment variables.
// Precedence: environment > file > defaults. A missing file is not an error when path is empty.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("solver.engine", "gophersat")
	v.SetDefault("solver.time_budget", model.DefaultTimeBudget.String())
	v.SetDefault("solver.kissat_path", "kissat")
	v.SetDefault("solver.cadical_path", "cadical")
	v.SetDefault("solver.minisat_path", "minisat")
	v.SetDefault("solver.work_dir", "")
	v.SetDefault("solver.max_searches", 0)

	v.SetDefault("model.strategy", "pure")
	v.SetDefault("input.delimiter", model.DefaultDelimiter)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("timetable")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TIMETABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values no command can run without
func (c *Config) Validate() error {
	if !slices.Contains(sat.SolverNames(), strings.ToLower(c.Solver.Engine)) {
		return fmt.Errorf("invalid config: solver.engine must be one of %v, got %q", sat.SolverNames(), c.Solver.Engine)
	}
	if c.Solver.TimeBudget <= 0 {
		return fmt.Errorf("invalid config: solver.time_budget must be positive, got %v", c.Solver.TimeBudget)
	}
	if c.Solver.MaxSearches < 0 {
		return fmt.Errorf("invalid config: solver.max_searches cannot be negative, got %d", c.Solver.MaxSearches)
	}
	if !slices.Contains(model.StrategyNames(), strings.ToLower(c.Model.Strategy)) {
		return fmt.Errorf("invalid config: model.strategy must be one of %v, got %q", model.StrategyNames(), c.Model.Strategy)
	}
	if c.Input.Delimiter == "" {
		return fmt.Errorf("invalid config: input.delimiter cannot be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid config: server.max_upload_mb must be positive")
	}
	return nil
}
