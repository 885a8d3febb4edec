package letter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/welcomer/pkg/account"
)

func strPtr(s string) *string { return &s }

func sampleRecord() *account.Record {
	active := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	return &account.Record{
		ClientCode:          "C-PMS001",
		ClientName:          "Jane Doe",
		Address:             "12 Marine Drive Mumbai Maharashtra 400020 India",
		ActiveDate:          &active,
		BackOfficeCode:      "PMS001",
		Strategy:            "Multi Cap Growth",
		Benchmark:           "NIFTY 50 TRI",
		Email:               "jane.doe@example.com",
		Mobile:              strPtr("9876543210"),
		Distributor:         "Acme Distributors",
		RelationshipManager: strPtr("raj kumar - west"),
		RMEmail:             "raj.kumar@example.com",
		Fund:                500000,
		Securities:          4500000.5,
		LoginID:             "JANE001",
		Password:            "ABCDE1234F",
	}
}

func TestBuildPlaceholders(t *testing.T) {
	today := time.Date(2024, time.March, 5, 16, 30, 0, 0, time.UTC)

	m, err := BuildPlaceholders(sampleRecord(), today, Format{})
	require.NoError(t, err)
	assert.Equal(t, Keys, m.Keys())

	want := map[string]string{
		KeyDate:            "05/03/2024",
		KeyAddress:         "12 Marine Drive Mumbai Maharashtra 400020 India",
		KeyClientName:      "Jane Doe",
		KeyActivationDate:  "15-01-2024",
		KeyAccountCode:     "PMS001",
		KeyStrategy:        "Multi Cap Growth",
		KeyBenchmark:       "NIFTY 50 TRI",
		KeyEmail:           "jane.doe@example.com",
		KeyMobile:          "+919876543210",
		KeyDistributor:     "Acme Distributors",
		KeyRelationshipMgr: "RAJ KUMAR",
		KeyRMEmail:         "raj.kumar@example.com",
		KeySecondaryMobile: "",
		KeyTotalCorpus:     "Rs. 5000000.50",
		KeyFund:            "Rs. 500000.00",
		KeySecurities:      "Rs. 4500000.50",
		KeyLoginID:         "JANE001",
		KeyPassword:        "ABCDE1234F",
	}
	for key, value := range want {
		got, ok := m.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, value, got, key)
	}
}

func TestBuildPlaceholders_Format(t *testing.T) {
	m, err := BuildPlaceholders(sampleRecord(), time.Now(), Format{CountryCode: "+1 ", Currency: "INR"})
	require.NoError(t, err)

	mobile, _ := m.Get(KeyMobile)
	assert.Equal(t, "+1 9876543210", mobile)
	fund, _ := m.Get(KeyFund)
	assert.Equal(t, "INR 500000.00", fund)
}

func TestBuildPlaceholders_FieldDerivationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*account.Record)
		field  string
	}{
		{"null mobile", func(r *account.Record) { r.Mobile = nil }, KeyMobile},
		{"blank mobile", func(r *account.Record) { r.Mobile = strPtr("   ") }, KeyMobile},
		{"null manager", func(r *account.Record) { r.RelationshipManager = nil }, KeyRelationshipMgr},
		{"manager without name", func(r *account.Record) { r.RelationshipManager = strPtr(" - west") }, KeyRelationshipMgr},
		{"null activation date", func(r *account.Record) { r.ActiveDate = nil }, KeyActivationDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleRecord()
			tt.mutate(rec)

			m, err := BuildPlaceholders(rec, time.Now(), Format{})
			assert.Nil(t, m)

			var fieldErr *FieldDerivationError
			require.True(t, errors.As(err, &fieldErr), "got %v", err)
			assert.Equal(t, tt.field, fieldErr.Field)
			assert.Equal(t, "PMS001", fieldErr.Code)
			assert.True(t, IsAccountFailure(err))
		})
	}
}

func TestManagerName(t *testing.T) {
	cases := map[string]string{
		"raj kumar - west": "RAJ KUMAR",
		"  Asha Rao  ":     "ASHA RAO",
		"priya-north-zone": "PRIYA",
		"no dash":          "NO DASH",
		"-":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, managerName(in), in)
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"PMS001":      "PMS001",
		"PMS/001":     "PMS%2F001",
		`..\..\etc`:   "..%5C..%5Cetc",
		"..":          "%2E%2E",
		"A B&C":       "A%20B%26C",
		"50%":         "50%25",
		"pms-01_x.v2": "pms-01_x.v2",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitize(in), in)
	}
}

func TestSanitize_DistinctCodesStayDistinct(t *testing.T) {
	codes := []string{"A/B", "A_B", "A%2FB", "A B", "A\\B", ".", "%2E", ""}
	seen := make(map[string]string)
	for _, code := range codes {
		name := sanitize(code)
		prev, dup := seen[name]
		assert.False(t, dup, "%q and %q both map to %q", prev, code, name)
		seen[name] = code
	}
}
