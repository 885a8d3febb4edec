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

// Command welcomer generates welcome letters for activated accounts.
//
// Usage:
//
//	welcomer generate PMS001 --config welcomer.yaml
//	welcomer batch --since 2024-01-01 --report run.xlsx
//	welcomer validate welcomer.yaml
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/kadirpekel/welcomer"
)

// Command output goes through these so tests can capture it.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// CLI defines the command-line interface.
type CLI struct {
	Version  VersionCmd  `cmd:"" help:"Show version information."`
	Generate GenerateCmd `cmd:"" help:"Generate the welcome letter of one account."`
	Batch    BatchCmd    `cmd:"" help:"Generate letters for every account activated since a date."`
	Validate ValidateCmd `cmd:"" help:"Validate configuration file and template."`
	Schema   SchemaCmd   `cmd:"" help:"Generate JSON Schema for the configuration."`
	Seed     SeedCmd     `cmd:"" help:"Create a local SQLite account database."`

	Config    string `short:"c" help:"Path to config file." type:"path" default:"welcomer.yaml"`
	LogLevel  string `help:"Log level (debug, info, warn, error)."`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple, verbose, colored)."`

	logCleanup func() `kong:"-"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintln(stdout, welcomer.GetVersion().String())
	return nil
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("welcomer"),
		kong.Description("Welcome letter generator for activated accounts"),
		kong.UsageOnError(),
	)

	// Config file logger settings are applied once the config is loaded.
	if err := cli.initLogger(nil); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	err := ctx.Run(&cli)
	cli.closeLog()
	ctx.FatalIfErrorf(err)
}
