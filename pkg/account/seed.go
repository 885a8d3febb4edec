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

package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Valuation is one hist_clientnav row.
type Valuation struct {
	AsOf   time.Time
	Cash   float64
	Equity float64
}

// Seed describes one account and everything it joins to, for populating
// development and test databases. Nil pointers are stored as NULL.
type Seed struct {
	ClientCode     string
	BackOfficeCode string
	AccountName    string
	ClientName     string

	Address1, City, State, Pin, Country *string

	DateOfBirth *time.Time
	ActiveDate  *time.Time

	Strategy            string
	Benchmarks          []string
	Email               string
	Mobile              *string
	Distributor         string
	RelationshipManager *string
	RMEmail             string
	LoginID             string
	Password            string
	SubBroker           *string

	Valuations []Valuation
}

// CreateSchema creates the account tables in db.
func CreateSchema(ctx context.Context, db *sql.DB, dialect string) error {
	stmts, err := Schema(dialect)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Insert writes the seed in a single transaction.
func (s *Seed) Insert(ctx context.Context, db *sql.DB, dialect string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, rebind(dialect, query), args...)
		return err
	}

	scheme := "SCH-" + s.ClientCode
	head := "HEAD-" + s.ClientCode
	inter := "INT-" + s.ClientCode

	if err := exec(`INSERT INTO HDR_Scheme (SchemeCode, MainObjective) VALUES (?, ?)`, scheme, s.Strategy); err != nil {
		return fmt.Errorf("failed to insert scheme: %w", err)
	}
	if err := exec(`INSERT INTO HDR_ClientHead (Client_code, Clientname) VALUES (?, ?)`, head, s.ClientName); err != nil {
		return fmt.Errorf("failed to insert client head: %w", err)
	}
	if err := exec(`INSERT INTO HDR_Intermediary (int_code, Int_Name) VALUES (?, ?)`, inter, s.Distributor); err != nil {
		return fmt.Errorf("failed to insert intermediary: %w", err)
	}

	for i, label := range s.Benchmarks {
		typeCode := fmt.Sprintf("BM-%s-%d", s.ClientCode, i+1)
		if err := exec(`INSERT INTO HDR_SensexType (TypeCode, TypeDesc) VALUES (?, ?)`, typeCode, label); err != nil {
			return fmt.Errorf("failed to insert benchmark: %w", err)
		}
		if err := exec(`INSERT INTO dtl_schemeportfolio_benchmark_map (Scheme_Code, Benchmarkindices) VALUES (?, ?)`, scheme, typeCode); err != nil {
			return fmt.Errorf("failed to map benchmark: %w", err)
		}
	}

	if err := exec(`
INSERT INTO hdr_client (
    client_code, clientname, head_clientcode, inter_code, SchemeCode, SubBrokerCode,
    address1, CITY, State, pin, Country, DATE_OF_BIRTH, ActiveDate,
    backofficecodeequity, EMAIL, mobile_no, ctPersonDecision, ctPersonDEmail,
    Usr_clientid, PAN_no
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ClientCode, s.AccountName, head, inter, scheme, nullable(s.SubBroker),
		nullable(s.Address1), nullable(s.City), nullable(s.State), nullable(s.Pin), nullable(s.Country),
		nullableTime(s.DateOfBirth), nullableTime(s.ActiveDate),
		s.BackOfficeCode, s.Email, nullable(s.Mobile), nullable(s.RelationshipManager), s.RMEmail,
		s.LoginID, s.Password,
	); err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	for _, v := range s.Valuations {
		if err := exec(`INSERT INTO hist_clientnav (ClientCode, NavAsOn, OpeningEquityCorpus, OpeningCashCorpus) VALUES (?, ?, ?, ?)`,
			s.ClientCode, v.AsOf, v.Equity, v.Cash); err != nil {
			return fmt.Errorf("failed to insert valuation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

// DemoSeed returns a complete sample account activated on activated.
func DemoSeed(code string, activated time.Time) *Seed {
	str := func(s string) *string { return &s }
	dob := time.Date(1980, time.May, 4, 0, 0, 0, 0, time.UTC)
	return &Seed{
		ClientCode:          "C-" + code,
		BackOfficeCode:      code,
		AccountName:         "Jane Doe PMS",
		ClientName:          "Jane Doe",
		Address1:            str("12 Marine Drive"),
		City:                str("Mumbai"),
		State:               str("Maharashtra"),
		Pin:                 str("400020"),
		Country:             str("India"),
		DateOfBirth:         &dob,
		ActiveDate:          &activated,
		Strategy:            "Multi Cap Growth",
		Benchmarks:          []string{"NIFTY 50 TRI"},
		Email:               "jane.doe@example.com",
		Mobile:              str("9876543210"),
		Distributor:         "Acme Distributors",
		RelationshipManager: str("raj kumar - west"),
		RMEmail:             "raj.kumar@example.com",
		LoginID:             "JANE001",
		Password:            "ABCDE1234F",
		SubBroker:           str("SB01"),
		Valuations: []Valuation{
			{AsOf: activated, Cash: 500000, Equity: 4500000},
		},
	}
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
