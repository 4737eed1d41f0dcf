package importer

import (
	"strings"
	"testing"

	"stridewms/internal"
)

var testClassCodes = map[string]struct{}{"S": {}, "M": {}, "L": {}}

func validRow() internal.ImportRow {
	return internal.ImportRow{
		LineNo:      2,
		ServiceCode: "RECEIVING",
		ServiceName: "Receiving",
		BillingUnit: "Item",
		Rate:        10,
		Active:      true,
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*internal.ImportRow)
		wantErr string
	}{
		{name: "negative rate", mutate: func(r *internal.ImportRow) { r.Rate = -1 }, wantErr: "rate"},
		{name: "missing service code", mutate: func(r *internal.ImportRow) { r.ServiceCode = "" }, wantErr: "service_code"},
		{name: "missing service name", mutate: func(r *internal.ImportRow) { r.ServiceName = "" }, wantErr: "service_name"},
		{name: "bad billing unit", mutate: func(r *internal.ImportRow) { r.BillingUnit = "Week" }, wantErr: "billing_unit"},
		{name: "unknown class code", mutate: func(r *internal.ImportRow) { r.ClassCode = "XXL" }, wantErr: "class code"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := validRow()
			tc.mutate(&row)
			Validate(&row, testClassCodes)
			if row.Valid {
				t.Fatalf("row unexpectedly valid")
			}
			found := false
			for _, e := range row.Errors {
				if strings.Contains(e, tc.wantErr) {
					found = true
				}
			}
			if !found {
				t.Fatalf("errors %v do not mention %q", row.Errors, tc.wantErr)
			}
		})
	}
}

func TestValidateOK(t *testing.T) {
	row := validRow()
	Validate(&row, testClassCodes)
	if !row.Valid || len(row.Errors) != 0 {
		t.Fatalf("errors: %v", row.Errors)
	}

	// Zero rate is allowed; a known class code too.
	row = validRow()
	row.Rate = 0
	row.ClassCode = "M"
	Validate(&row, testClassCodes)
	if !row.Valid {
		t.Fatalf("errors: %v", row.Errors)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	row := internal.ImportRow{LineNo: 3, BillingUnit: "Week", Rate: -2}
	Validate(&row, testClassCodes)
	if len(row.Errors) != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", len(row.Errors), row.Errors)
	}
}

func TestValidateAll(t *testing.T) {
	rows := []internal.ImportRow{validRow(), validRow()}
	rows[1].Rate = -5
	invalid := ValidateAll(rows, testClassCodes)
	if len(invalid) != 1 {
		t.Fatalf("invalid=%d", len(invalid))
	}
	if !rows[0].Valid || rows[1].Valid {
		t.Fatalf("validation flags not set in place")
	}
}
