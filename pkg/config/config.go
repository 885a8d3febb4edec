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

// Package config loads and validates welcomer configuration.
//
// Configuration is YAML (JSON is accepted too) with ${VAR}, ${VAR:-default}
// and $VAR references expanded from the environment. Nothing that identifies
// a data store, a credential or a file location has a built-in default.
//
// Example:
//
//	database:
//	  driver: sqlserver
//	  host: ${DB_HOST}
//	  database: IntegraLive
//	  username: ${DB_USER}
//	  password: ${DB_PASSWORD}
//	  timeout: 30s
//	template:
//	  path: ./templates/welcome_letter_draft.docx
//	output:
//	  dir: ./letters
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration.
type Config struct {
	Database      DatabaseConfig      `yaml:"database" json:"database" jsonschema:"title=Database,description=Account data store connection"`
	Template      TemplateConfig      `yaml:"template" json:"template" jsonschema:"title=Template,description=Welcome letter template"`
	Output        OutputConfig        `yaml:"output" json:"output" jsonschema:"title=Output,description=Where generated letters are written"`
	Letter        LetterConfig        `yaml:"letter,omitempty" json:"letter,omitempty" jsonschema:"title=Letter,description=Display formatting of letter values"`
	Batch         BatchConfig         `yaml:"batch,omitempty" json:"batch,omitempty" jsonschema:"title=Batch,description=Batch generation settings"`
	Logger        LoggerConfig        `yaml:"logger,omitempty" json:"logger,omitempty" jsonschema:"title=Logger"`
	Observability ObservabilityConfig `yaml:"observability,omitempty" json:"observability,omitempty" jsonschema:"title=Observability"`
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Database.SetDefaults()
	c.Template.SetDefaults()
	c.Output.SetDefaults()
	c.Letter.SetDefaults()
	c.Batch.SetDefaults()
	c.Logger.SetDefaults()
	c.Observability.SetDefaults()
}

// Validate checks every section and reports the first failing one.
func (c *Config) Validate() error {
	sections := []struct {
		name     string
		validate func() error
	}{
		{"database", c.Database.Validate},
		{"template", c.Template.Validate},
		{"output", c.Output.Validate},
		{"letter", c.Letter.Validate},
		{"batch", c.Batch.Validate},
		{"logger", c.Logger.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// TemplateConfig locates the letter template and controls formatting.
type TemplateConfig struct {
	// Path is the .docx template holding <<Key>> placeholders.
	Path string `yaml:"path" json:"path" jsonschema:"title=Template Path,description=Path to the .docx template"`

	// FontSize is the size in points applied to substituted text.
	FontSize float64 `yaml:"font_size,omitempty" json:"font_size,omitempty" jsonschema:"title=Font Size,description=Font size in points,default=9"`

	// CellNormalization selects which table cell runs are resized after a
	// replacement: "all" runs of the paragraph, or only the "first" run of the cell.
	CellNormalization string `yaml:"cell_normalization,omitempty" json:"cell_normalization,omitempty" jsonschema:"title=Cell Normalization,enum=all,enum=first,default=all"`
}

// SetDefaults applies default values.
func (c *TemplateConfig) SetDefaults() {
	if c.FontSize == 0 {
		c.FontSize = 9
	}
	if c.CellNormalization == "" {
		c.CellNormalization = "all"
	}
}

// Validate checks the template configuration.
func (c *TemplateConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if c.FontSize < 0 {
		return fmt.Errorf("font_size must be positive")
	}
	switch strings.ToLower(c.CellNormalization) {
	case "all", "first":
	default:
		return fmt.Errorf("invalid cell_normalization %q (valid: all, first)", c.CellNormalization)
	}
	return nil
}

// OutputConfig controls where letters are written.
type OutputConfig struct {
	// Dir receives one document per account. Created when missing.
	Dir string `yaml:"dir" json:"dir" jsonschema:"title=Output Directory"`

	// Prefix is prepended to the account code to form the file name.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty" jsonschema:"title=File Prefix,default=welcome_letter_"`
}

// SetDefaults applies default values.
func (c *OutputConfig) SetDefaults() {
	if c.Prefix == "" {
		c.Prefix = "welcome_letter_"
	}
}

// Validate checks the output configuration.
func (c *OutputConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if strings.ContainsAny(c.Prefix, `/\`) {
		return fmt.Errorf("prefix must not contain path separators")
	}
	return nil
}

// LetterConfig controls how record values are rendered.
type LetterConfig struct {
	// CountryCode is prefixed to the registered mobile number.
	CountryCode string `yaml:"country_code,omitempty" json:"country_code,omitempty" jsonschema:"default=+91"`

	// Currency labels corpus amounts.
	Currency string `yaml:"currency,omitempty" json:"currency,omitempty" jsonschema:"default=Rs."`
}

// SetDefaults applies default values.
func (c *LetterConfig) SetDefaults() {
	if c.CountryCode == "" {
		c.CountryCode = "+91"
	}
	if c.Currency == "" {
		c.Currency = "Rs."
	}
}

// Validate checks the letter configuration.
func (c *LetterConfig) Validate() error {
	return nil
}

// BatchConfig controls batch generation.
type BatchConfig struct {
	// Workers is the number of accounts processed at once. Each worker
	// opens its own connection and its own copy of the template.
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty" jsonschema:"minimum=1,default=1"`
}

// SetDefaults applies default values.
func (c *BatchConfig) SetDefaults() {
	if c.Workers == 0 {
		c.Workers = 1
	}
}

// Validate checks the batch configuration.
func (c *BatchConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}
