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

// Package account reads client (PMS) account details from the back-office
// database.
//
// Every call opens its own connection, runs one parameterized query and
// closes the connection again. Connection and query failures surface as
// *DataSourceError and are never retried.
package account

import (
	"fmt"
	"strings"
	"time"
)

// Record is one account joined with its scheme, benchmark, distributor and
// latest valuation.
//
// Columns that the letter cannot do without are kept as pointers so a
// missing value stays distinguishable from an empty one.
type Record struct {
	ClientCode     string
	AccountName    string
	ClientName     string
	Address        string
	DateOfBirth    *time.Time
	ActiveDate     *time.Time
	BackOfficeCode string
	Strategy       string
	Benchmark      string
	Email          string
	Mobile         *string
	Distributor    string

	// FeesCommissionDistributor and SecondaryMobile are not stored; they
	// exist so every letter field has a source.
	FeesCommissionDistributor string
	SecondaryMobile           string

	RelationshipManager *string
	RMEmail             string

	// Fund is the opening cash corpus, Securities the opening equity corpus.
	Fund       float64
	Securities float64

	LoginID  string
	Password string
}

// TotalCorpus is the sum of fund and securities.
func (r *Record) TotalCorpus() float64 {
	return r.Fund + r.Securities
}

// joinAddress joins the address parts with single spaces and trims the ends.
func joinAddress(parts ...string) string {
	return strings.TrimSpace(strings.Join(parts, " "))
}

// DataSourceError reports a failed connection or query.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
