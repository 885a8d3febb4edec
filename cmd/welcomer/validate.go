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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kadirpekel/welcomer/pkg/config"
	"github.com/kadirpekel/welcomer/pkg/letter"
	"github.com/kadirpekel/welcomer/pkg/placeholder"
)

// ValidateCmd validates a configuration file and the template it names.
type ValidateCmd struct {
	// Config is the configuration file path (positional argument)
	Config string `arg:"" name:"config" help:"Configuration file path." placeholder:"PATH"`

	// Format specifies the output format
	Format string `short:"f" help:"Output format: compact, verbose, json." default:"compact" enum:"compact,verbose,json"`

	// PrintConfig prints the expanded configuration
	PrintConfig bool `short:"p" name:"print-config" help:"Print the expanded configuration (with defaults applied and env vars resolved)."`

	// Connect also opens and pings the configured database
	Connect bool `help:"Also connect to the configured database."`
}

// ValidationError represents a single validation error or warning.
type ValidationError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// validationResult collects everything validate reports about a file.
type validationResult struct {
	File         string
	Placeholders []string
	Errors       []ValidationError
	Warnings     []ValidationError
}

// Run executes the validate command.
func (c *ValidateCmd) Run(cli *CLI) error {
	_ = config.LoadDotEnvForConfig(c.Config)

	cfg, err := config.LoadConfigFile(c.Config)
	if err != nil {
		return printLoadError(stdout, c.Format, c.Config, err)
	}

	if c.PrintConfig {
		return printExpandedConfig(stdout, c.Format, c.Config, cfg)
	}

	res := validationResult{File: c.Config}
	c.checkTemplate(cfg, &res)
	if c.Connect {
		c.checkDatabase(cfg, &res)
	}

	printResult(stdout, c.Format, res)
	if len(res.Errors) > 0 {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func (c *ValidateCmd) checkTemplate(cfg *config.Config, res *validationResult) {
	tmpl, err := letter.OpenTemplate(cfg.Template.Path)
	if err != nil {
		res.Errors = append(res.Errors, ValidationError{Type: "template", Message: err.Error()})
		return
	}
	res.Placeholders = tmpl.Keys()
	for _, key := range tmpl.UnknownKeys() {
		res.Warnings = append(res.Warnings, ValidationError{
			Type:    "placeholder",
			Message: fmt.Sprintf("%s has no value and is left as is", placeholder.Token(key)),
		})
	}
}

func (c *ValidateCmd) checkDatabase(cfg *config.Config, res *validationResult) {
	db, err := config.Connect(context.Background(), &cfg.Database)
	if err != nil {
		res.Errors = append(res.Errors, ValidationError{Type: "database", Message: err.Error()})
		return
	}
	db.Close()
}

// printLoadError prints a configuration load error.
func printLoadError(w io.Writer, format, file string, err error) error {
	switch format {
	case "json":
		printJSONResult(w, validationResult{
			File:   file,
			Errors: []ValidationError{{Type: "load", Message: err.Error()}},
		})
	case "verbose":
		fmt.Fprintf(stderr, "Configuration Load Error\n")
		fmt.Fprintf(stderr, "========================\n\n")
		fmt.Fprintf(stderr, "File:    %s\n", file)
		fmt.Fprintf(stderr, "Error:   %s\n", err.Error())
	default: // compact
		fmt.Fprintf(stderr, "%s: load error: %s\n", file, err.Error())
	}
	return fmt.Errorf("config load failed")
}

// printResult prints the outcome of a validation.
func printResult(w io.Writer, format string, res validationResult) {
	switch format {
	case "json":
		printJSONResult(w, res)
	case "verbose":
		title := "Configuration Validation Successful"
		status := "OK Valid"
		if len(res.Errors) > 0 {
			title = "Configuration Validation Failed"
			status = "Invalid"
		}
		fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
		fmt.Fprintf(w, "File:         %s\n", res.File)
		fmt.Fprintf(w, "Status:       %s\n", status)
		if len(res.Placeholders) > 0 {
			fmt.Fprintf(w, "Placeholders: %s\n", strings.Join(res.Placeholders, ", "))
		}
		for _, e := range res.Errors {
			fmt.Fprintf(w, "Error:        [%s] %s\n", e.Type, e.Message)
		}
		for _, e := range res.Warnings {
			fmt.Fprintf(w, "Warning:      [%s] %s\n", e.Type, e.Message)
		}
	default: // compact
		for _, e := range res.Errors {
			fmt.Fprintf(w, "%s: %s error: %s\n", res.File, e.Type, e.Message)
		}
		for _, e := range res.Warnings {
			fmt.Fprintf(w, "%s: warning: %s\n", res.File, e.Message)
		}
		if len(res.Errors) == 0 {
			fmt.Fprintf(w, "%s: valid\n", res.File)
		}
	}
}

// printExpandedConfig prints the expanded configuration with the database
// password masked.
func printExpandedConfig(w io.Writer, format, file string, cfg *config.Config) error {
	masked := *cfg
	if masked.Database.Password != "" {
		masked.Database.Password = "****"
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(masked); err != nil {
			return fmt.Errorf("failed to encode config as JSON: %w", err)
		}
	default:
		fmt.Fprintf(w, "# Expanded Configuration from: %s\n", file)
		fmt.Fprintf(w, "# (defaults applied, env vars resolved)\n\n")

		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(masked); err != nil {
			return fmt.Errorf("failed to encode config as YAML: %w", err)
		}
		encoder.Close()
	}
	return nil
}

// jsonOutput is the JSON output structure.
type jsonOutput struct {
	Valid        bool              `json:"valid"`
	File         string            `json:"file"`
	Placeholders []string          `json:"placeholders,omitempty"`
	Errors       []ValidationError `json:"errors,omitempty"`
	Warnings     []ValidationError `json:"warnings,omitempty"`
}

// printJSONResult prints a JSON validation result.
func printJSONResult(w io.Writer, res validationResult) {
	output := jsonOutput{
		Valid:        len(res.Errors) == 0,
		File:         res.File,
		Placeholders: res.Placeholders,
		Errors:       res.Errors,
		Warnings:     res.Warnings,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(stderr, "Error encoding JSON: %v\n", err)
	}
}
