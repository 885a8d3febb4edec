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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kadirpekel/welcomer"
	"github.com/kadirpekel/welcomer/pkg/account"
	"github.com/kadirpekel/welcomer/pkg/config"
	"github.com/kadirpekel/welcomer/pkg/letter"
	"github.com/kadirpekel/welcomer/pkg/observability"
	"github.com/kadirpekel/welcomer/pkg/placeholder"
)

const shutdownTimeout = 5 * time.Second

// app holds everything a generation command needs.
type app struct {
	cfg       *config.Config
	fetcher   *account.Fetcher
	generator *letter.Generator
	obs       *observability.Manager
}

// loadConfig loads .env files and the config file, then applies the
// config's logger block beneath any CLI or env overrides.
func (cli *CLI) loadConfig() (*config.Config, error) {
	_ = config.LoadDotEnvForConfig(cli.Config)

	cfg, err := config.LoadConfigFile(cli.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", cli.Config, err)
	}
	if err := cli.initLogger(&cfg.Logger); err != nil {
		return nil, err
	}
	slog.Debug("Configuration loaded", "path", cli.Config, "database", cfg.Database.Redacted())
	return cfg, nil
}

// newApp wires the fetcher, the template and the generator from the config.
func (cli *CLI) newApp(ctx context.Context) (*app, error) {
	cfg, err := cli.loadConfig()
	if err != nil {
		return nil, err
	}

	tmpl, err := letter.OpenTemplate(cfg.Template.Path)
	if err != nil {
		return nil, err
	}
	if unknown := tmpl.UnknownKeys(); len(unknown) > 0 {
		slog.Warn("Template has placeholders with no value", "keys", strings.Join(unknown, ", "))
	}

	cells, err := placeholder.ParseCellNormalization(cfg.Template.CellNormalization)
	if err != nil {
		return nil, err
	}
	engine := placeholder.NewEngine(
		placeholder.WithFontSize(cfg.Template.FontSize),
		placeholder.WithCellNormalization(cells),
	)

	obs := observability.NewManager(cfg.Observability, observability.WithServiceVersion(welcomer.Version))
	if err := obs.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start observability: %w", err)
	}

	fetcher := account.NewFetcher(&cfg.Database)
	generator := letter.NewGenerator(fetcher, tmpl, cfg.Output.Dir,
		letter.WithEngine(engine),
		letter.WithPrefix(cfg.Output.Prefix),
		letter.WithFormat(letter.Format{
			CountryCode: cfg.Letter.CountryCode,
			Currency:    cfg.Letter.Currency,
		}),
		letter.WithRecorder(obs.Recorder()),
	)

	return &app{
		cfg:       cfg,
		fetcher:   fetcher,
		generator: generator,
		obs:       obs,
	}, nil
}

// close flushes telemetry.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.obs.Shutdown(ctx); err != nil {
		slog.Warn("Failed to shut down observability", "error", err)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
