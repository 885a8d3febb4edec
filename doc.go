// Package welcomer generates personalized welcome letters for newly
// activated portfolio management accounts.
//
// Account data is read from the back-office database, rendered into a Word
// (.docx) template holding <<Key>> placeholders, and written as one document
// per account.
//
// # Quick Start
//
// Install the CLI:
//
//	go install github.com/kadirpekel/welcomer/cmd/welcomer@latest
//
// Describe the data store, the template and the output directory:
//
//	database:
//	  driver: sqlserver
//	  host: ${DB_HOST}
//	  database: IntegraLive
//	  username: ${DB_USER}
//	  password: ${DB_PASSWORD}
//	template:
//	  path: ./templates/welcome_letter_draft.docx
//	output:
//	  dir: ./letters
//
// Generate a single letter, or every letter since a date:
//
//	welcomer generate PMS001
//	welcomer batch --since 2024-01-01 --report run.xlsx
//
// # Using as Go Library
//
// The building blocks live under pkg/:
//
//   - pkg/account: account records and activation queries over database/sql
//   - pkg/document: .docx loading, paragraphs, runs and saving
//   - pkg/placeholder: <<Key>> substitution across split runs
//   - pkg/letter: single letter generation and batch runs
//   - pkg/report: XLSX batch reports
//   - pkg/config, pkg/logger, pkg/observability: ambient concerns
package welcomer
