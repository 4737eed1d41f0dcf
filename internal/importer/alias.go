package importer

import "stridewms/internal/util"

// Canonical field names for a rate-sheet row.
const (
	FieldClassCode        = "class_code"
	FieldServiceCode      = "service_code"
	FieldServiceName      = "service_name"
	FieldBillingUnit      = "billing_unit"
	FieldRate             = "rate"
	FieldTaxable          = "taxable"
	FieldAssemblyRequired = "assembly_required"
	FieldActive           = "active"
	FieldNotes            = "notes"
)

// FieldAliases maps a canonical field to the header spellings that resolve
// to it. It is ordinary injected data, not inline logic, so callers and
// tests can supply their own table.
type FieldAliases map[string][]string

func DefaultAliases() FieldAliases {
	return FieldAliases{
		FieldClassCode:        {"class code", "class", "size class", "size code", "size category"},
		FieldServiceCode:      {"service code", "code", "service", "sku"},
		FieldServiceName:      {"service name", "name", "description", "service description"},
		FieldBillingUnit:      {"billing unit", "unit", "billed per", "uom"},
		FieldRate:             {"rate", "price", "unit price", "amount"},
		FieldTaxable:          {"taxable", "tax"},
		FieldAssemblyRequired: {"assembly required", "assembly", "requires assembly"},
		FieldActive:           {"active", "enabled"},
		FieldNotes:            {"notes", "note", "comments", "comment"},
	}
}

// Resolve maps canonical fields to column indexes. Headers are
// canonicalized before lookup; unmapped headers are ignored, and when two
// columns reach the same field the leftmost one wins.
func (a FieldAliases) Resolve(headers []string) map[string]int {
	lookup := map[string]string{}
	for field, spellings := range a {
		for _, spelling := range spellings {
			canon := util.CanonicalHeader(spelling)
			if _, taken := lookup[canon]; !taken {
				lookup[canon] = field
			}
		}
	}

	out := map[string]int{}
	for i, header := range headers {
		field, ok := lookup[util.CanonicalHeader(header)]
		if !ok {
			continue
		}
		if _, taken := out[field]; taken {
			continue
		}
		out[field] = i
	}
	return out
}
