package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	m "obspy.org/pkg/runtests/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "obspy-runtests"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."
	dotEnvFileName   = ".env"

	envPrefix = "OBSPY_RUNTESTS"

	enginePythonKey = "engine.python"
	projectRootKey  = "project.root"
	catalogFileKey  = "catalog.file"

	reportLogKey = "report.log"

	// The report switches keep the legacy variable names, without prefix.
	// They are read from the environment only and never persisted.
	reportEnvVar    = "OBSPY_REPORT"
	reportServerEnv = "OBSPY_REPORT_SERVER"

	defaultEnginePython = "python"
	defaultProjectRoot  = "."
	defaultCatalogFile  = ""

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".obspy-runtests.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	// A missing .env is the normal case.
	_ = godotenv.Load(filepath.Join(configFolderPath, dotEnvFileName))

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(enginePythonKey, defaultEnginePython)
	viper.SetDefault(projectRootKey, defaultProjectRoot)
	viper.SetDefault(catalogFileKey, defaultCatalogFile)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	// Without a config file the defaults apply.
	err := viper.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
		cobra.CheckErr(err)
	}
}

// reportEnv reads the environment side of the reporting switches. The
// enable variable counts when present, whatever its value. Values from .env
// are already in the process environment at this point.
func reportEnv() m.ReportEnv {
	_, requested := os.LookupEnv(reportEnvVar)

	return m.ReportEnv{
		Requested: requested,
		Server:    os.Getenv(reportServerEnv),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger points the global slog logger at the rotating log file.
// Verbose runs log at Debug.
func configureLogger(verbose bool) {
	logPath := strings.TrimSpace(viper.GetString(logFilenameKey))
	if logPath == "" {
		logPath = defaultLogFilename
	}

	logLevel := parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	if verbose {
		logLevel = slog.LevelDebug
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
