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

package config

import (
	"fmt"

	"github.com/kadirpekel/welcomer/pkg/logger"
)

// LoggerConfig is the logger section. The --log-* flags and the LOG_LEVEL,
// LOG_FILE and LOG_FORMAT variables take precedence over it.
type LoggerConfig struct {
	// Level is the minimum level written.
	Level string `yaml:"level,omitempty" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`

	// File receives log lines instead of stderr. Opened in append mode.
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// Format is the line layout: bare "simple", time stamped "verbose",
	// or "colored" for terminals.
	Format string `yaml:"format,omitempty" json:"format,omitempty" jsonschema:"enum=simple,enum=verbose,enum=colored,default=simple"`
}

// SetDefaults applies default values.
func (c *LoggerConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = logger.FormatSimple
	}
}

// Validate checks the logger configuration.
func (c *LoggerConfig) Validate() error {
	if _, err := logger.ParseLevel(c.Level); err != nil {
		return err
	}
	switch c.Format {
	case "", logger.FormatSimple, logger.FormatVerbose, logger.FormatColored:
	default:
		return fmt.Errorf("invalid log format %q (valid: simple, verbose, colored)", c.Format)
	}
	return nil
}
