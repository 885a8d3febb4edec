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

// Package report exports batch run reports as Excel workbooks.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kadirpekel/welcomer/pkg/letter"
)

// Sheet names.
const (
	SummarySheet = "Summary"
	LettersSheet = "Letters"
)

// Statuses written to the letters sheet.
const (
	StatusGenerated = "generated"
	StatusFailed    = "failed"
)

// WriteXLSX writes r as a workbook with a summary sheet and one row per
// account in r.Results, in code order.
func WriteXLSX(w io.Writer, r *letter.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(LettersSheet); err != nil {
		return fmt.Errorf("failed to create letters sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	summary := [][]any{
		{"Run ID", r.RunID},
		{"Activated since", r.Start.Format(time.DateOnly)},
		{"Started at", r.StartedAt.Format(time.RFC3339)},
		{"Duration", r.Duration.Round(time.Millisecond).String()},
		{"Accounts", r.Codes},
		{"Succeeded", r.SucceededCount()},
		{"Failed", r.FailedCount()},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	if err := setColWidths(f, SummarySheet, 18, 40); err != nil {
		return err
	}

	rows := [][]any{{"Account Code", "Status", "Path", "Reason"}}
	for _, res := range r.Results {
		if res.Err != nil {
			rows = append(rows, []any{res.Code, StatusFailed, "", res.Reason()})
			continue
		}
		rows = append(rows, []any{res.Code, StatusGenerated, res.Path, ""})
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(LettersSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write letters: %w", err)
		}
	}
	if err := f.SetCellStyle(LettersSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("failed to style letters header: %w", err)
	}
	if err := setColWidths(f, LettersSheet, 16, 12, 60, 60); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

// setColWidths sizes the leading columns of sheet, one width per column.
func setColWidths(f *excelize.File, sheet string, widths ...float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to size %s columns: %w", sheet, err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size %s columns: %w", sheet, err)
		}
	}
	return nil
}

// SaveXLSX writes r to path, replacing any existing file.
func SaveXLSX(path string, r *letter.Report) error {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, r); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}
