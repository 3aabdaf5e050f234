package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/viper"
)

const (
	configName      = ".ll1"
	configType      = "yaml"
	envPrefix       = "LL1"
	envKeySeparator = "_"
)

const (
	DefaultTraceLevel      = "error"
	DefaultParseTree       = true
	DefaultParseNodeTable  = false
	DefaultParseLogActions = false
	DefaultColor           = true
)

// traceKeys lists the tracers of all packages.
var traceKeys = []string{
	"ll1.grammar",
	"ll1.driver.parser",
}

type Config struct {
	Trace TraceConfig `mapstructure:"trace"`
	Parse ParseConfig `mapstructure:"parse"`
	Color bool        `mapstructure:"color"`
}

type TraceConfig struct {
	Level string `mapstructure:"level"`
}

type ParseConfig struct {
	Tree       bool `mapstructure:"tree"`
	NodeTable  bool `mapstructure:"node_table"`
	LogActions bool `mapstructure:"log_actions"`
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Trace.Level) {
	case "error", "info", "debug":
		return nil
	}
	return fmt.Errorf("invalid trace level: %v (must be error, info, or debug)", c.Trace.Level)
}

// LoadConfig loads configuration from a file, environment variables, and defaults. When configPath is
// empty, .ll1.yaml is searched in the current directory and the home directory. A missing config file
// isn't an error.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	err = v.Unmarshal(&c)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	err = c.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("trace.level", DefaultTraceLevel)
	v.SetDefault("parse.tree", DefaultParseTree)
	v.SetDefault("parse.node_table", DefaultParseNodeTable)
	v.SetDefault("parse.log_actions", DefaultParseLogActions)
	v.SetDefault("color", DefaultColor)
}

// applyTraceLevel sets the level of all tracers. level must be valid.
func applyTraceLevel(level string) {
	level = strings.ToLower(level)
	l := tracing.TraceLevelFromString(strings.ToUpper(level[:1]) + level[1:])
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}
