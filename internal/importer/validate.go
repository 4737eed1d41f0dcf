package importer

import (
	"fmt"
	"strings"

	"stridewms/internal"
)

// Validate checks one row against the import invariants, collecting every
// violation instead of stopping at the first.
func Validate(row *internal.ImportRow, classCodes map[string]struct{}) {
	row.Errors = row.Errors[:0]

	if strings.TrimSpace(row.ServiceCode) == "" {
		row.Errors = append(row.Errors, fmt.Sprintf("row %d: service_code is required", row.LineNo))
	}
	if strings.TrimSpace(row.ServiceName) == "" {
		row.Errors = append(row.Errors, fmt.Sprintf("row %d: service_name is required", row.LineNo))
	}
	if !internal.ValidBillingUnit(row.BillingUnit) {
		row.Errors = append(row.Errors, fmt.Sprintf("row %d: billing_unit must be Day, Item or Task (got %q)", row.LineNo, row.BillingUnit))
	}
	if row.Rate < 0 {
		row.Errors = append(row.Errors, fmt.Sprintf("row %d: rate must be non-negative (got %g)", row.LineNo, row.Rate))
	}
	if row.ClassCode != "" {
		if _, ok := classCodes[strings.ToUpper(row.ClassCode)]; !ok {
			row.Errors = append(row.Errors, fmt.Sprintf("row %d: unknown class code %q", row.LineNo, row.ClassCode))
		}
	}

	row.Valid = len(row.Errors) == 0
}

// ValidateAll validates in place and returns the invalid rows for the
// pre-import preview. Invalid rows are excluded from the insert phase and
// never counted in the result tally.
func ValidateAll(rows []internal.ImportRow, classCodes map[string]struct{}) []internal.ImportRow {
	invalid := []internal.ImportRow{}
	for i := range rows {
		Validate(&rows[i], classCodes)
		if !rows[i].Valid {
			invalid = append(invalid, rows[i])
		}
	}
	return invalid
}
