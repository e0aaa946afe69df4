package cmd

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	m "obspy.org/pkg/runtests/internal/model"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "obspy-runtests", configBaseName)
	assert.Equal(t, "obspy-runtests.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "OBSPY_RUNTESTS", envPrefix)
	assert.Equal(t, "OBSPY_REPORT", reportEnvVar)
	assert.Equal(t, "OBSPY_REPORT_SERVER", reportServerEnv)
	assert.Equal(t, "python", defaultEnginePython)
	assert.Equal(t, ".", defaultProjectRoot)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, defaultEnginePython, viper.GetString(enginePythonKey))
	assert.Equal(t, defaultProjectRoot, viper.GetString(projectRootKey))
	assert.Equal(t, defaultLogMaxSize, viper.GetInt(logMaxSizeKey))
}

func TestReportEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want m.ReportEnv
	}{
		{name: "unset", want: m.ReportEnv{}},
		{name: "present but empty", env: map[string]string{"OBSPY_REPORT": ""}, want: m.ReportEnv{Requested: true}},
		{name: "any value", env: map[string]string{"OBSPY_REPORT": "0"}, want: m.ReportEnv{Requested: true}},
		{
			name: "server override",
			env:  map[string]string{"OBSPY_REPORT_SERVER": "localhost:8000"},
			want: m.ReportEnv{Server: "localhost:8000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetReportEnv(t)

			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			assert.Equal(t, tt.want, reportEnv())
		})
	}
}

func TestReportEnv_IgnoresConfigFile(t *testing.T) {
	unsetReportEnv(t)

	viper.Set("report.enabled", true)
	viper.Set("report.server", "config.example.org")
	t.Cleanup(func() {
		viper.Set("report.enabled", nil)
		viper.Set("report.server", nil)
	})

	assert.Equal(t, m.ReportEnv{}, reportEnv())
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "runtests.log")
	viper.Set(logFilenameKey, logFile)
	t.Cleanup(func() { viper.Set(logFilenameKey, defaultLogFilename) })

	configureLogger(true)

	assert.NotNil(t, globalLogger)
	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))

	configureLogger(false)
	assert.False(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))
}
