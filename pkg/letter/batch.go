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

package letter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CodeSource lists account codes activated in a date range.
type CodeSource interface {
	FetchCodesByDateRange(ctx context.Context, start time.Time) ([]string, error)
}

// LetterWriter generates one letter.
type LetterWriter interface {
	Generate(ctx context.Context, code string) (string, error)
}

// Request selects the accounts of a batch run.
type Request struct {
	// Start is the first activation date included.
	Start time.Time
}

// Batch generates letters for every account activated since a date.
type Batch struct {
	codes    CodeSource
	letters  LetterWriter
	workers  int
	progress func(Result)
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithWorkers bounds how many letters are generated at once.
func WithWorkers(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithProgress sets a callback invoked once per account as it completes.
// With more than one worker, calls may arrive out of code order but never
// concurrently.
func WithProgress(fn func(Result)) BatchOption {
	return func(b *Batch) {
		b.progress = fn
	}
}

// NewBatch creates a Batch.
func NewBatch(codes CodeSource, letters LetterWriter, opts ...BatchOption) *Batch {
	b := &Batch{
		codes:   codes,
		letters: letters,
		workers: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run generates a letter for each account activated between req.Start and
// now.
//
// Missing data and underivable fields are recorded as failures and the run
// continues. Any other error, including cancellation of ctx, stops the run;
// the report then holds the accounts finished so far and the error is
// returned with it.
func (b *Batch) Run(ctx context.Context, req Request) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Start:     req.Start,
		StartedAt: time.Now(),
	}
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	log := slog.With("run_id", report.RunID)

	codes, err := b.codes.FetchCodesByDateRange(ctx, req.Start)
	if err != nil {
		return report, fmt.Errorf("failed to list accounts: %w", err)
	}
	report.Codes = len(codes)
	log.Info("Starting batch", "since", req.Start.Format(time.DateOnly), "accounts", len(codes), "workers", b.workers)

	results := make([]*Result, len(codes))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, code := range codes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			path, err := b.letters.Generate(gctx, code)
			if err != nil && gctx.Err() != nil && !IsAccountFailure(err) {
				// Interrupted by another account's failure or by cancellation.
				return err
			}

			res := &Result{Code: code, Path: path, Err: err}
			mu.Lock()
			defer mu.Unlock()
			results[i] = res
			if err != nil {
				log.Warn("Letter failed", "code", code, "error", err)
			}
			if b.progress != nil {
				b.progress(*res)
			}
			if err != nil && !IsAccountFailure(err) {
				return fmt.Errorf("account %s: %w", code, err)
			}
			return nil
		})
	}

	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		report.Results = append(report.Results, *res)
		if res.Err != nil {
			report.Failed = append(report.Failed, Failure{Code: res.Code, Reason: reason(res.Err)})
		} else {
			report.Succeeded = append(report.Succeeded, Success{Code: res.Code, Path: res.Path})
		}
	}

	if runErr != nil {
		log.Error("Batch aborted", "error", runErr,
			"succeeded", report.SucceededCount(), "failed", report.FailedCount())
		return report, runErr
	}

	log.Info("Batch finished", "succeeded", report.SucceededCount(), "failed", report.FailedCount())
	return report, nil
}
