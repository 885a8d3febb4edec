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
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kadirpekel/welcomer/pkg/config"
)

const tracerName = "github.com/kadirpekel/welcomer/pkg/account"

// recordQuery selects an account and its valuation rows at that account's
// latest NavAsOn. When several rows share the date, the largest corpus wins.
const recordQuery = `
SELECT
    A.client_code,
    A.clientname,
    C.Clientname,
    A.address1,
    A.CITY,
    A.State,
    A.pin,
    A.Country,
    A.DATE_OF_BIRTH,
    A.ActiveDate,
    A.backofficecodeequity,
    D.MainObjective,
    G.TypeDesc,
    A.EMAIL,
    A.mobile_no,
    B.Int_Name,
    A.ctPersonDecision,
    A.ctPersonDEmail,
    E.OpeningCashCorpus,
    E.OpeningEquityCorpus,
    A.Usr_clientid,
    A.PAN_no
FROM hdr_client A
    INNER JOIN HDR_Scheme D ON A.SchemeCode = D.SchemeCode
    INNER JOIN HDR_ClientHead C ON A.head_clientcode = C.Client_code
    INNER JOIN HDR_Intermediary B ON A.inter_code = B.int_code
    INNER JOIN hist_clientnav E ON A.client_code = E.ClientCode
    INNER JOIN dtl_schemeportfolio_benchmark_map F ON D.SchemeCode = F.Scheme_Code
    INNER JOIN HDR_SensexType G ON G.TypeCode = F.Benchmarkindices
WHERE
    A.backofficecodeequity = ?
    AND A.SubBrokerCode IS NOT NULL
    AND E.NavAsOn = (SELECT MAX(N.NavAsOn) FROM hist_clientnav N WHERE N.ClientCode = A.client_code)
ORDER BY
    COALESCE(E.OpeningEquityCorpus, 0) + COALESCE(E.OpeningCashCorpus, 0) DESC,
    COALESCE(E.OpeningEquityCorpus, 0) DESC,
    G.TypeDesc ASC`

const codesQuery = `
SELECT backofficecodeequity
FROM hdr_client
WHERE ActiveDate >= ?
    AND ActiveDate <= ?
    AND SubBrokerCode IS NOT NULL
    AND backofficecodeequity IS NOT NULL
ORDER BY ActiveDate, backofficecodeequity`

// Opener opens a dedicated database handle. The fetcher closes it after
// each call.
type Opener func(ctx context.Context) (*sql.DB, error)

// Clock returns the current time.
type Clock func() time.Time

// Fetcher runs account queries against one configured database.
type Fetcher struct {
	dialect string
	open    Opener
	now     Clock
	tracer  trace.Tracer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClock sets the clock used as the upper bound of date range queries.
func WithClock(now Clock) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// WithOpener replaces how connections are opened.
func WithOpener(open Opener) Option {
	return func(f *Fetcher) {
		f.open = open
	}
}

// NewFetcher creates a Fetcher for the given database.
func NewFetcher(cfg *config.DatabaseConfig, opts ...Option) *Fetcher {
	f := &Fetcher{
		dialect: cfg.Dialect(),
		open: func(ctx context.Context) (*sql.DB, error) {
			return config.Connect(ctx, cfg)
		},
		now:    time.Now,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchByAccountCode returns the account whose back-office code equals code.
// It returns (nil, nil) when the code is unknown, has no sub-broker or has
// no valuation history.
func (f *Fetcher) FetchByAccountCode(ctx context.Context, code string) (rec *Record, err error) {
	ctx, span := f.tracer.Start(ctx, "account.FetchByAccountCode",
		trace.WithAttributes(attribute.String("account.code", code)))
	defer func() { endSpan(span, err) }()

	db, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, rebind(f.dialect, recordQuery), code)
	if err != nil {
		return nil, &DataSourceError{Op: "query account", Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, &DataSourceError{Op: "query account", Err: err}
		}
		slog.Debug("No account data", "code", code)
		span.SetAttributes(attribute.Bool("account.found", false))
		return nil, nil
	}

	rec, err = scanRecord(rows)
	if err != nil {
		return nil, &DataSourceError{Op: "scan account", Err: err}
	}

	span.SetAttributes(attribute.Bool("account.found", true))
	return rec, nil
}

// FetchCodesByDateRange returns the back-office codes of accounts with a
// sub-broker activated between start and now, both inclusive, ordered by
// activation date.
//
// Activation dates are naive datetimes holding the back office's wall clock.
// Both bounds are bound as wall-clock times stamped UTC, the same way the
// drivers return naive datetimes, so no zone offset shifts the range.
func (f *Fetcher) FetchCodesByDateRange(ctx context.Context, start time.Time) (codes []string, err error) {
	start, now := wallClock(start), wallClock(f.now())
	ctx, span := f.tracer.Start(ctx, "account.FetchCodesByDateRange",
		trace.WithAttributes(
			attribute.String("range.start", start.Format(time.RFC3339)),
			attribute.String("range.end", now.Format(time.RFC3339)),
		))
	defer func() { endSpan(span, err) }()

	db, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, rebind(f.dialect, codesQuery), start, now)
	if err != nil {
		return nil, &DataSourceError{Op: "query codes", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, &DataSourceError{Op: "scan codes", Err: err}
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataSourceError{Op: "query codes", Err: err}
	}

	span.SetAttributes(attribute.Int("range.codes", len(codes)))
	return codes, nil
}

// wallClock keeps the calendar date and clock reading of t and drops its zone.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func (f *Fetcher) connect(ctx context.Context) (*sql.DB, error) {
	db, err := f.open(ctx)
	if err != nil {
		return nil, &DataSourceError{Op: "connect", Err: err}
	}
	return db, nil
}

func scanRecord(rows *sql.Rows) (*Record, error) {
	var (
		clientCode, accountName, clientName    sql.NullString
		address1, city, state, pin, country    sql.NullString
		dateOfBirth, activeDate                sql.NullTime
		backOffice, strategy, benchmark, email sql.NullString
		mobile, distributor, manager, rmEmail  sql.NullString
		fund, securities                       sql.NullFloat64
		loginID, password                      sql.NullString
	)

	if err := rows.Scan(
		&clientCode, &accountName, &clientName,
		&address1, &city, &state, &pin, &country,
		&dateOfBirth, &activeDate,
		&backOffice, &strategy, &benchmark, &email,
		&mobile, &distributor, &manager, &rmEmail,
		&fund, &securities,
		&loginID, &password,
	); err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	return &Record{
		ClientCode:          clientCode.String,
		AccountName:         accountName.String,
		ClientName:          clientName.String,
		Address:             joinAddress(address1.String, city.String, state.String, pin.String, country.String),
		DateOfBirth:         timePtr(dateOfBirth),
		ActiveDate:          timePtr(activeDate),
		BackOfficeCode:      backOffice.String,
		Strategy:            strategy.String,
		Benchmark:           benchmark.String,
		Email:               email.String,
		Mobile:              stringPtr(mobile),
		Distributor:         distributor.String,
		RelationshipManager: stringPtr(manager),
		RMEmail:             rmEmail.String,
		Fund:                fund.Float64,
		Securities:          securities.Float64,
		LoginID:             loginID.String,
		Password:            password.String,
	}, nil
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
