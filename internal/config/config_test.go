package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		yaml        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultPort, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DefaultMetricTables, cfg.Pipeline.MetricTables)
				assert.Equal(t, []string{"2025-05-14"}, cfg.Pipeline.ExcludedDates)
				assert.Equal(t, "2025-03-26", cfg.Pipeline.AfterCutoff)
				assert.Equal(t, JoinModeFanout, cfg.Pipeline.AdJoinMode)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.True(t, filepath.IsAbs(cfg.Paths.DataDir))
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"NAADS_SERVER_PORT":             "9000",
				"NAADS_PIPELINE_EXCLUDED_DATES": "2025-05-14,2025-05-15",
				"NAADS_PIPELINE_AD_JOIN_MODE":   "collapse",
				"NAADS_CACHE_WATCH_SOURCES":     "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, []string{"2025-05-14", "2025-05-15"}, cfg.Pipeline.ExcludedDates)
				assert.Equal(t, JoinModeCollapse, cfg.Pipeline.AdJoinMode)
				assert.True(t, cfg.Cache.WatchSources)
			},
		},
		{
			name: "yaml file with env precedence",
			yaml: "server:\n  port: 7000\n  read_timeout: 5s\npipeline:\n  after_cutoff: \"2025-04-01\"\n",
			env: map[string]string{
				"NAADS_SERVER_PORT": "7100",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7100, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "2025-04-01", cfg.Pipeline.AfterCutoff)
			},
		},
		{
			name:    "invalid join mode",
			env:     map[string]string{"NAADS_PIPELINE_AD_JOIN_MODE": "cross"},
			wantErr: true,
		},
		{
			name:    "invalid excluded date",
			env:     map[string]string{"NAADS_PIPELINE_EXCLUDED_DATES": "14/05/2025"},
			wantErr: true,
		},
		{
			name:    "invalid port",
			env:     map[string]string{"NAADS_SERVER_PORT": "70000"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("NAADS_PATHS_BASE_DIR", dir)
			if tt.yaml != "" {
				path := filepath.Join(dir, "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))
				t.Setenv("NAADS_CONFIG", path)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_MissingConfigFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NAADS_PATHS_BASE_DIR", dir)
	t.Setenv("NAADS_CONFIG", filepath.Join(dir, "nope.yaml"))

	// an explicit NAADS_CONFIG that does not exist fails the read
	_, err := Load()
	assert.Error(t, err)
}

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Pipeline.MetricTables, 12)
}
