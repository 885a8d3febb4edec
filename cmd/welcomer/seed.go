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
	"log/slog"
	"time"

	"github.com/kadirpekel/welcomer/pkg/account"
	"github.com/kadirpekel/welcomer/pkg/config"
)

// SeedCmd creates the account tables and optionally a demo account, for
// local development against SQLite or the configured database.
type SeedCmd struct {
	Database   string    `short:"d" help:"SQLite database file (default: the configured database)." type:"path" placeholder:"PATH"`
	Demo       bool      `help:"Insert a demo account."`
	Code       string    `help:"Back office code of the demo account." default:"PMS001"`
	Activated  time.Time `help:"Activation date of the demo account (YYYY-MM-DD, default: today)." format:"2006-01-02" placeholder:"DATE"`
	SkipSchema bool      `name:"skip-schema" help:"Do not create the tables."`
}

// Run executes the seed command.
func (c *SeedCmd) Run(cli *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	dbCfg, err := c.databaseConfig(cli)
	if err != nil {
		return err
	}

	db, err := config.Connect(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	dialect := dbCfg.Dialect()
	if !c.SkipSchema {
		if err := account.CreateSchema(ctx, db, dialect); err != nil {
			return err
		}
		slog.Info("Schema created", "database", dbCfg.Redacted())
	}

	if c.Demo {
		activated := c.Activated
		if activated.IsZero() {
			now := time.Now().UTC()
			activated = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		}
		if err := account.DemoSeed(c.Code, activated).Insert(ctx, db, dialect); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Demo account %s activated on %s\n", c.Code, activated.Format("2006-01-02"))
	}
	return nil
}

// databaseConfig returns the SQLite file given on the command line or the
// database of the loaded config.
func (c *SeedCmd) databaseConfig(cli *CLI) (*config.DatabaseConfig, error) {
	if c.Database != "" {
		dbCfg := &config.DatabaseConfig{Driver: "sqlite", Database: c.Database}
		dbCfg.SetDefaults()
		return dbCfg, dbCfg.Validate()
	}

	cfg, err := cli.loadConfig()
	if err != nil {
		return nil, err
	}
	return &cfg.Database, nil
}
