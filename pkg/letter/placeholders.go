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
	"strconv"
	"strings"
	"time"

	"github.com/kadirpekel/welcomer/pkg/account"
	"github.com/kadirpekel/welcomer/pkg/placeholder"
)

// Placeholder keys, in the order they are applied.
const (
	KeyDate            = "date"
	KeyAddress         = "Address"
	KeyClientName      = "Client Name"
	KeyActivationDate  = "Date of Activation"
	KeyAccountCode     = "PMS Account Code"
	KeyStrategy        = "Strategy Opted"
	KeyBenchmark       = "Strategy Bench Mark"
	KeyEmail           = "Registered email id"
	KeyMobile          = "Registered Mobile no."
	KeyDistributor     = "Name of Distributor"
	KeyRelationshipMgr = "Name of RM"
	KeyRMEmail         = "RM email id"
	KeySecondaryMobile = "Mobile no."
	KeyTotalCorpus     = "Total Corpus"
	KeyFund            = "Fund"
	KeySecurities      = "Securities"
	KeyLoginID         = "Login Id"
	KeyPassword        = "pass"
)

const (
	letterDateLayout      = "02/01/2006"
	activationDateLayout  = "02-01-2006"
	defaultCountryCode    = "+91"
	defaultCurrencyPrefix = "Rs."
)

// Keys lists every placeholder key a letter fills, in application order.
var Keys = []string{
	KeyDate, KeyAddress, KeyClientName, KeyActivationDate, KeyAccountCode,
	KeyStrategy, KeyBenchmark, KeyEmail, KeyMobile, KeyDistributor,
	KeyRelationshipMgr, KeyRMEmail, KeySecondaryMobile, KeyTotalCorpus,
	KeyFund, KeySecurities, KeyLoginID, KeyPassword,
}

// Format controls how record values are displayed.
type Format struct {
	// CountryCode prefixes the registered mobile number.
	CountryCode string
	// Currency labels corpus amounts.
	Currency string
}

func (f Format) withDefaults() Format {
	if f.CountryCode == "" {
		f.CountryCode = defaultCountryCode
	}
	if f.Currency == "" {
		f.Currency = defaultCurrencyPrefix
	}
	return f
}

// BuildPlaceholders projects rec onto the letter's placeholder map.
// today fills the date placeholder.
func BuildPlaceholders(rec *account.Record, today time.Time, f Format) (*placeholder.Map, error) {
	f = f.withDefaults()

	if rec.ActiveDate == nil {
		return nil, &FieldDerivationError{Code: rec.BackOfficeCode, Field: KeyActivationDate}
	}

	mobile := ""
	if rec.Mobile != nil {
		mobile = strings.TrimSpace(*rec.Mobile)
	}
	if mobile == "" {
		return nil, &FieldDerivationError{Code: rec.BackOfficeCode, Field: KeyMobile}
	}

	manager := ""
	if rec.RelationshipManager != nil {
		manager = managerName(*rec.RelationshipManager)
	}
	if manager == "" {
		return nil, &FieldDerivationError{Code: rec.BackOfficeCode, Field: KeyRelationshipMgr}
	}

	return placeholder.NewMap(
		placeholder.Value(KeyDate, today.Format(letterDateLayout)),
		placeholder.Value(KeyAddress, rec.Address),
		placeholder.Value(KeyClientName, rec.ClientName),
		placeholder.Value(KeyActivationDate, rec.ActiveDate.Format(activationDateLayout)),
		placeholder.Value(KeyAccountCode, rec.BackOfficeCode),
		placeholder.Value(KeyStrategy, rec.Strategy),
		placeholder.Value(KeyBenchmark, rec.Benchmark),
		placeholder.Value(KeyEmail, rec.Email),
		placeholder.Value(KeyMobile, f.CountryCode+mobile),
		placeholder.Value(KeyDistributor, rec.Distributor),
		placeholder.Value(KeyRelationshipMgr, manager),
		placeholder.Value(KeyRMEmail, rec.RMEmail),
		placeholder.Value(KeySecondaryMobile, rec.SecondaryMobile),
		placeholder.Value(KeyTotalCorpus, f.amount(rec.TotalCorpus())),
		placeholder.Value(KeyFund, f.amount(rec.Fund)),
		placeholder.Value(KeySecurities, f.amount(rec.Securities)),
		placeholder.Value(KeyLoginID, rec.LoginID),
		placeholder.Value(KeyPassword, rec.Password),
	), nil
}

// managerName upper-cases the stored name and keeps what precedes the
// first "-", e.g. "raj kumar - west" becomes "RAJ KUMAR".
func managerName(stored string) string {
	name, _, _ := strings.Cut(strings.ToUpper(stored), "-")
	return strings.TrimSpace(name)
}

func (f Format) amount(v float64) string {
	return f.Currency + " " + strconv.FormatFloat(v, 'f', 2, 64)
}
