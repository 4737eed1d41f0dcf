package importer

import (
	"fmt"
	"sort"
	"strings"

	"stridewms/internal"
	"stridewms/internal/storage"
)

type Importer struct {
	db *storage.DB
}

func NewImporter(db *storage.DB) *Importer {
	return &Importer{db: db}
}

// Run validates the parsed rows, groups the valid ones by service code and
// inserts group by group. Duplicate codes are skipped, a failed group marks
// all of its rows failed, and the run itself only errors when the target
// store cannot be read at all. Partial success is expected.
//
// progress, when non-nil, receives processed/total*100 after every group
// regardless of outcome.
func (im *Importer) Run(rows []internal.ImportRow, progress func(pct float64)) (internal.ImportResult, []internal.ImportRow, error) {
	classCodes, err := im.db.SizeCategoryCodes()
	if err != nil {
		return internal.ImportResult{}, nil, err
	}
	invalid := ValidateAll(rows, classCodes)

	groups := map[string][]internal.ImportRow{}
	codes := []string{}
	for _, row := range rows {
		if !row.Valid {
			continue
		}
		if _, seen := groups[row.ServiceCode]; !seen {
			codes = append(codes, row.ServiceCode)
		}
		groups[row.ServiceCode] = append(groups[row.ServiceCode], row)
	}
	sort.Strings(codes)

	existing, err := im.db.ListServiceCodes()
	if err != nil {
		return internal.ImportResult{}, invalid, err
	}

	result := internal.ImportResult{Errors: []string{}}
	for i, code := range codes {
		group := groups[code]

		if _, dup := existing[strings.ToUpper(code)]; dup {
			result.Skipped += len(group)
			result.Errors = append(result.Errors, fmt.Sprintf("service code %s already exists, skipped", code))
		} else if err := im.db.InsertServiceRates(toServiceRates(group)); err != nil {
			result.Failed += len(group)
			result.Errors = append(result.Errors, fmt.Sprintf("service code %s: insert failed: %v", code, err))
		} else {
			result.Success += len(group)
		}

		if progress != nil {
			progress(float64(i+1) / float64(len(codes)) * 100)
		}
	}

	return result, invalid, nil
}

func toServiceRates(rows []internal.ImportRow) []internal.ServiceRate {
	out := make([]internal.ServiceRate, 0, len(rows))
	for _, row := range rows {
		rate := internal.ServiceRate{
			ServiceCode:      row.ServiceCode,
			ServiceName:      row.ServiceName,
			BillingUnit:      row.BillingUnit,
			Rate:             row.Rate,
			Taxable:          row.Taxable,
			AssemblyRequired: row.AssemblyRequired,
			Active:           row.Active,
			Notes:            row.Notes,
		}
		if row.ClassCode != "" {
			code := row.ClassCode
			rate.ClassCode = &code
		}
		out = append(out, rate)
	}
	return out
}
