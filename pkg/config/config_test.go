package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	//** Arrange
	t.Chdir(t.TempDir())

	//** Act
	cfg, err := Load("")

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "gophersat", cfg.Solver.Engine)
	assert.Equal(t, 10*time.Second, cfg.Solver.TimeBudget)
	assert.Equal(t, "kissat", cfg.Solver.Kissat)
	assert.Equal(t, int64(0), cfg.Solver.MaxSearches)
	assert.Equal(t, "pure", cfg.Model.Strategy)
	assert.Equal(t, "|", cfg.Input.Delimiter)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(10), cfg.Server.MaxUploadMB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	//** Arrange
	path := filepath.Join(t.TempDir(), "timetable.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
solver:
  engine: kissat
  time_budget: 90s
  kissat_path: /opt/kissat/bin/kissat
  max_searches: 2
model:
  strategy: postponed
input:
  delimiter: ";"
`), 0o644))
	t.Setenv("TIMETABLE_SERVER_PORT", "9090")
	t.Setenv("TIMETABLE_MODEL_STRATEGY", "pure")

	//** Act
	cfg, err := Load(path)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "kissat", cfg.Solver.Engine)
	assert.Equal(t, 90*time.Second, cfg.Solver.TimeBudget)
	assert.Equal(t, "/opt/kissat/bin/kissat", cfg.Solver.Kissat)
	assert.Equal(t, int64(2), cfg.Solver.MaxSearches)
	assert.Equal(t, "pure", cfg.Model.Strategy) // Environment wins over the file
	assert.Equal(t, ";", cfg.Input.Delimiter)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Solver: SolverConfig{Engine: "gophersat", TimeBudget: time.Second},
			Model:  ModelConfig{Strategy: "pure"},
			Input:  InputConfig{Delimiter: "|"},
			Server: ServerConfig{Port: 8080, MaxUploadMB: 1},
			Log:    LogConfig{Level: "info", Format: "json"},
		}
	}

	testCases := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"unknown engine", func(cfg *Config) { cfg.Solver.Engine = "glucose" }},
		{"zero budget", func(cfg *Config) { cfg.Solver.TimeBudget = 0 }},
		{"negative search limit", func(cfg *Config) { cfg.Solver.MaxSearches = -1 }},
		{"unknown strategy", func(cfg *Config) { cfg.Model.Strategy = "hybrid" }},
		{"empty delimiter", func(cfg *Config) { cfg.Input.Delimiter = "" }},
		{"port out of range", func(cfg *Config) { cfg.Server.Port = 70000 }},
		{"no upload size", func(cfg *Config) { cfg.Server.MaxUploadMB = 0 }},
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			cfg := valid()
			testCase.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
