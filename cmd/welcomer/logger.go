// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/kadirpekel/welcomer/pkg/config"
	"github.com/kadirpekel/welcomer/pkg/logger"
)

const (
	// LogFileEnvVar is the environment variable name for log file path
	LogFileEnvVar = "LOG_FILE"
	// LogLevelEnvVar is the environment variable name for log level
	LogLevelEnvVar = "LOG_LEVEL"
	// LogFormatEnvVar is the environment variable name for log format
	LogFormatEnvVar = "LOG_FORMAT"
	// DefaultLogFormat is the default log format
	DefaultLogFormat = logger.FormatSimple
	// DefaultLogLevel is the default log level
	DefaultLogLevel = "info"
)

// logSettings is the resolved logger configuration.
type logSettings struct {
	Level  string
	File   string
	Format string
}

// resolveLogSettings picks each setting by priority:
// CLI flag > env var > config file > default.
func resolveLogSettings(cliLevel, cliFile, cliFormat string, cfg *config.LoggerConfig) logSettings {
	var fromCfg config.LoggerConfig
	if cfg != nil {
		fromCfg = *cfg
	}
	return logSettings{
		Level:  firstNonEmpty(cliLevel, os.Getenv(LogLevelEnvVar), fromCfg.Level, DefaultLogLevel),
		File:   firstNonEmpty(cliFile, os.Getenv(LogFileEnvVar), fromCfg.File),
		Format: firstNonEmpty(cliFormat, os.Getenv(LogFormatEnvVar), fromCfg.Format, DefaultLogFormat),
	}
}

// initLogger (re)initializes the default logger. It is called once before
// any command runs and again when a command has loaded its config file.
func (cli *CLI) initLogger(cfg *config.LoggerConfig) error {
	s := resolveLogSettings(cli.LogLevel, cli.LogFile, cli.LogFormat, cfg)

	level, err := logger.ParseLevel(s.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	output := os.Stderr
	cleanup := func() {}
	if s.File != "" {
		file, closeFn, err := logger.OpenLogFile(s.File)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		cleanup = closeFn
	}

	logger.Init(level, output, s.Format)

	cli.closeLog()
	cli.logCleanup = cleanup
	return nil
}

// closeLog releases the current log file, if any.
func (cli *CLI) closeLog() {
	if cli.logCleanup != nil {
		cli.logCleanup()
		cli.logCleanup = nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
