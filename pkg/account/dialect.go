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
	"fmt"
	"strings"
)

// Supported SQL dialects.
const (
	DialectSQLServer = "sqlserver"
	DialectPostgres  = "postgres"
	DialectMySQL     = "mysql"
	DialectSQLite    = "sqlite"
)

// rebind rewrites ? placeholders into the dialect's native form:
// $1.. for PostgreSQL and @p1.. for SQL Server.
func rebind(dialect, query string) string {
	var prefix string
	switch dialect {
	case DialectPostgres:
		prefix = "$"
	case DialectSQLServer:
		prefix = "@p"
	default:
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 20)
	paramNum := 1
	for _, c := range query {
		if c == '?' {
			b.WriteString(fmt.Sprintf("%s%d", prefix, paramNum))
			paramNum++
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}

type columnTypes struct {
	text, money, date string
}

func typesFor(dialect string) (columnTypes, error) {
	switch dialect {
	case DialectSQLite:
		return columnTypes{text: "TEXT", money: "REAL", date: "DATETIME"}, nil
	case DialectPostgres:
		return columnTypes{text: "VARCHAR(255)", money: "NUMERIC(18,2)", date: "TIMESTAMP"}, nil
	case DialectMySQL, DialectSQLServer:
		return columnTypes{text: "VARCHAR(255)", money: "DECIMAL(18,2)", date: "DATETIME"}, nil
	default:
		return columnTypes{}, fmt.Errorf("unsupported dialect: %s (supported: sqlserver, postgres, mysql, sqlite)", dialect)
	}
}

// Schema returns the CREATE TABLE statements for the tables the fetcher
// reads, one statement per element.
func Schema(dialect string) ([]string, error) {
	t, err := typesFor(dialect)
	if err != nil {
		return nil, err
	}

	r := strings.NewReplacer("{text}", t.text, "{money}", t.money, "{date}", t.date)
	stmts := make([]string, len(schemaTemplates))
	for i, s := range schemaTemplates {
		stmts[i] = r.Replace(s)
	}
	return stmts, nil
}

var schemaTemplates = []string{`
CREATE TABLE hdr_client (
    client_code {text} PRIMARY KEY,
    clientname {text},
    head_clientcode {text},
    inter_code {text},
    SchemeCode {text},
    SubBrokerCode {text},
    address1 {text},
    CITY {text},
    State {text},
    pin {text},
    Country {text},
    DATE_OF_BIRTH {date},
    ActiveDate {date},
    backofficecodeequity {text},
    EMAIL {text},
    mobile_no {text},
    ctPersonDecision {text},
    ctPersonDEmail {text},
    Usr_clientid {text},
    PAN_no {text}
)`, `
CREATE TABLE HDR_Scheme (
    SchemeCode {text} PRIMARY KEY,
    MainObjective {text}
)`, `
CREATE TABLE HDR_ClientHead (
    Client_code {text} PRIMARY KEY,
    Clientname {text}
)`, `
CREATE TABLE HDR_Intermediary (
    int_code {text} PRIMARY KEY,
    Int_Name {text}
)`, `
CREATE TABLE hist_clientnav (
    ClientCode {text} NOT NULL,
    NavAsOn {date} NOT NULL,
    OpeningEquityCorpus {money},
    OpeningCashCorpus {money}
)`, `
CREATE TABLE dtl_schemeportfolio_benchmark_map (
    Scheme_Code {text} NOT NULL,
    Benchmarkindices {text} NOT NULL
)`, `
CREATE TABLE HDR_SensexType (
    TypeCode {text} PRIMARY KEY,
    TypeDesc {text}
)`, `
CREATE INDEX idx_hdr_client_backoffice ON hdr_client(backofficecodeequity)`, `
CREATE INDEX idx_hist_clientnav_client ON hist_clientnav(ClientCode, NavAsOn)`,
}
