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
	"errors"
	"fmt"
	"time"

	"github.com/kadirpekel/welcomer/pkg/account"
	"github.com/kadirpekel/welcomer/pkg/document"
)

// Success is a generated letter.
type Success struct {
	Code string
	Path string
}

// Failure is an account whose letter could not be generated.
type Failure struct {
	Code   string
	Reason string
}

// Report is the outcome of a batch run. Results holds every account that
// reached an outcome, in the order of the account codes; Succeeded and
// Failed split it by status.
type Report struct {
	RunID     string
	Start     time.Time
	StartedAt time.Time
	Duration  time.Duration
	Codes     int
	Results   []Result
	Succeeded []Success
	Failed    []Failure
}

// SucceededCount returns the number of generated letters.
func (r *Report) SucceededCount() int {
	return len(r.Succeeded)
}

// FailedCount returns the number of failed accounts.
func (r *Report) FailedCount() int {
	return len(r.Failed)
}

// Summary returns the closing line of a run.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d letters generated successfully, %d failed.", r.SucceededCount(), r.FailedCount())
}

// Result is the outcome for one account code.
type Result struct {
	Code string
	Path string
	Err  error
}

// Line renders r as a console line.
func (r Result) Line() string {
	if r.Err == nil {
		return fmt.Sprintf("Welcome letter generated for account code %s at %s", r.Code, r.Path)
	}
	return fmt.Sprintf("Failed to generate letter for account code %s. %s", r.Code, reason(r.Err))
}

// Reason describes why the letter failed, or returns "" on success.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return reason(r.Err)
}

// reason describes a per-account failure for people.
func reason(err error) string {
	var fieldErr *FieldDerivationError
	switch {
	case errors.Is(err, ErrNoData):
		return "Data might be missing."
	case errors.As(err, &fieldErr):
		return fmt.Sprintf("Field %q could not be derived: source value is missing.", fieldErr.Field)
	default:
		return err.Error()
	}
}

// failureKind classifies err for metrics.
func failureKind(err error) string {
	var (
		fieldErr    *FieldDerivationError
		sourceErr   *account.DataSourceError
		templateErr *document.TemplateStructureError
	)
	switch {
	case errors.Is(err, ErrNoData):
		return "no_data"
	case errors.As(err, &fieldErr):
		return "field_derivation"
	case errors.As(err, &sourceErr):
		return "data_source"
	case errors.As(err, &templateErr):
		return "template"
	default:
		return "other"
	}
}
