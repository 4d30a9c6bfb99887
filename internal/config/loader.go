package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

// configName is the config file name without extension.
const configName = ".autopatt"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for autopatt settings.
const envPrefix = "AUTOPATT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("format", DefaultFormat)
	viperCfg.SetDefault("robust", DefaultRobust)
	viperCfg.SetDefault("nfc", DefaultNFC)

	viperCfg.SetDefault("import.extensions", DefaultImportExtensions())
	viperCfg.SetDefault("import.max_file_size", DefaultImportMaxFileSize)
	viperCfg.SetDefault("import.repair", DefaultImportRepair)

	viperCfg.SetDefault("keys.mode", DefaultKeysMode)
	viperCfg.SetDefault("keys.participant", DefaultKeysParticipant)
	viperCfg.SetDefault("keys.phase", DefaultKeysPhase)
	viperCfg.SetDefault("keys.language", DefaultKeysLanguage)

	fieldNames := make([]string, 0, len(report.DefaultCompareFields()))
	for _, f := range report.DefaultCompareFields() {
		fieldNames = append(fieldNames, f.String())
	}

	viperCfg.SetDefault("compare.fields", fieldNames)
	viperCfg.SetDefault("compare.left_label", DefaultCompareLeftLabel)
	viperCfg.SetDefault("compare.right_label", DefaultCompareRightLabel)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.table", DefaultOutputTable)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.json", DefaultLoggingJSON)

	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.otlp_insecure", DefaultObservabilityInsecure)
	viperCfg.SetDefault("observability.sample_ratio", DefaultObservabilitySampleRatio)
	viperCfg.SetDefault("observability.environment", "")
	viperCfg.SetDefault("observability.metrics_file", "")
}
