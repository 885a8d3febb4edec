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

	"github.com/kadirpekel/welcomer/pkg/letter"
	"github.com/kadirpekel/welcomer/pkg/report"
)

// GenerateCmd generates the letter of a single account.
type GenerateCmd struct {
	Code string `arg:"" name:"code" help:"Account (back office) code." placeholder:"CODE"`
}

// Run executes the generate command. An account without data or with a
// field that cannot be derived is reported, not treated as a command error.
func (c *GenerateCmd) Run(cli *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := cli.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	path, err := a.generator.Generate(ctx, c.Code)
	result := letter.Result{Code: c.Code, Path: path, Err: err}
	if err != nil && !letter.IsAccountFailure(err) {
		return err
	}
	fmt.Fprintln(stdout, result.Line())
	return nil
}

// BatchCmd generates letters for every account activated since a date.
type BatchCmd struct {
	Since   time.Time `required:"" format:"2006-01-02" help:"First activation date included (YYYY-MM-DD)." placeholder:"DATE"`
	Report  string    `short:"r" help:"Write an XLSX run report to this path." type:"path" placeholder:"PATH"`
	Workers int       `short:"w" help:"Letters generated at once (overrides batch.workers)."`
}

// Run executes the batch command.
func (c *BatchCmd) Run(cli *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := cli.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	workers := a.cfg.Batch.Workers
	if c.Workers > 0 {
		workers = c.Workers
	}

	batch := letter.NewBatch(a.fetcher, a.generator,
		letter.WithWorkers(workers),
		letter.WithProgress(func(r letter.Result) {
			fmt.Fprintln(stdout, r.Line())
		}),
	)

	rep, runErr := batch.Run(ctx, letter.Request{Start: c.Since})
	if rep == nil || (runErr != nil && rep.SucceededCount()+rep.FailedCount() == 0) {
		return runErr
	}

	fmt.Fprintln(stdout, rep.Summary())

	if c.Report != "" {
		if err := report.SaveXLSX(c.Report, rep); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		slog.Info("Report written", "path", c.Report)
	}

	return runErr
}
