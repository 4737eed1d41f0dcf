package storage

import (
	"strings"

	"stridewms/internal"
)

func (d *DB) UpsertSizeCategory(c internal.SizeCategory) error {
	_, err := d.conn.Exec(`
INSERT INTO size_categories (code, name, description, sortOrder) VALUES (?, ?, ?, ?)
ON CONFLICT(code) DO UPDATE SET
  name=excluded.name,
  description=excluded.description,
  sortOrder=excluded.sortOrder
`, c.Code, c.Name, c.Description, c.SortOrder)
	return err
}

func (d *DB) ListSizeCategories() ([]internal.SizeCategory, error) {
	rows, err := d.conn.Query(`SELECT code, name, description, sortOrder FROM size_categories ORDER BY sortOrder, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.SizeCategory
	for rows.Next() {
		var c internal.SizeCategory
		if err := rows.Scan(&c.Code, &c.Name, &c.Description, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SizeCategoryCodes returns the class code set the importer validates
// against, uppercased.
func (d *DB) SizeCategoryCodes() (map[string]struct{}, error) {
	categories, err := d.ListSizeCategories()
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		out[strings.ToUpper(c.Code)] = struct{}{}
	}
	return out, nil
}

// ListServiceCodes returns existing natural keys, uppercased for duplicate
// comparison. Fetched once per import run.
func (d *DB) ListServiceCodes() (map[string]struct{}, error) {
	rows, err := d.conn.Query(`SELECT DISTINCT serviceCode FROM service_rates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]struct{}{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		out[strings.ToUpper(code)] = struct{}{}
	}
	return out, rows.Err()
}

// InsertServiceRates writes one import group in a single transaction so a
// failure leaves no partial group behind.
func (d *DB) InsertServiceRates(rates []internal.ServiceRate) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO service_rates (serviceCode, serviceName, classCode, billingUnit, rate, taxable, assemblyRequired, active, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rates {
		if _, err := stmt.Exec(
			r.ServiceCode, r.ServiceName, r.ClassCode, r.BillingUnit, r.Rate,
			boolToInt(r.Taxable), boolToInt(r.AssemblyRequired), boolToInt(r.Active), r.Notes,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListServiceRates() ([]internal.ServiceRate, error) {
	rows, err := d.conn.Query(`
SELECT id, serviceCode, serviceName, classCode, billingUnit, rate, taxable, assemblyRequired, active, COALESCE(notes, '')
FROM service_rates ORDER BY serviceCode, classCode`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ServiceRate
	for rows.Next() {
		var r internal.ServiceRate
		var taxable, assembly, active int
		if err := rows.Scan(&r.ID, &r.ServiceCode, &r.ServiceName, &r.ClassCode, &r.BillingUnit, &r.Rate, &taxable, &assembly, &active, &r.Notes); err != nil {
			return nil, err
		}
		r.Taxable = taxable != 0
		r.AssemblyRequired = assembly != 0
		r.Active = active != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) UpsertAssemblyTier(t internal.AssemblyTier) error {
	_, err := d.conn.Exec(`
INSERT INTO assembly_tiers (code, label, rate, estimatedMinutes) VALUES (?, ?, ?, ?)
ON CONFLICT(code) DO UPDATE SET
  label=excluded.label,
  rate=excluded.rate,
  estimatedMinutes=excluded.estimatedMinutes
`, t.Code, t.Label, t.Rate, t.EstimatedMinutes)
	return err
}

func (d *DB) ListAssemblyTiers() ([]internal.AssemblyTier, error) {
	rows, err := d.conn.Query(`SELECT code, label, rate, estimatedMinutes FROM assembly_tiers ORDER BY rate`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.AssemblyTier
	for rows.Next() {
		var t internal.AssemblyTier
		if err := rows.Scan(&t.Code, &t.Label, &t.Rate, &t.EstimatedMinutes); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (d *DB) UpsertItemFlag(f internal.ItemFlag) error {
	_, err := d.conn.Exec(`
INSERT INTO item_flags (code, label, description, defaultOn) VALUES (?, ?, ?, ?)
ON CONFLICT(code) DO UPDATE SET
  label=excluded.label,
  description=excluded.description,
  defaultOn=excluded.defaultOn
`, f.Code, f.Label, f.Description, boolToInt(f.DefaultOn))
	return err
}

func (d *DB) ListItemFlags() ([]internal.ItemFlag, error) {
	rows, err := d.conn.Query(`SELECT code, label, COALESCE(description, ''), defaultOn FROM item_flags ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ItemFlag
	for rows.Next() {
		var f internal.ItemFlag
		var on int
		if err := rows.Scan(&f.Code, &f.Label, &f.Description, &on); err != nil {
			return nil, err
		}
		f.DefaultOn = on != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

func (d *DB) InsertPricingOverride(o internal.PricingOverride) error {
	_, err := d.conn.Exec(`
INSERT INTO pricing_overrides (serviceCode, field, value, reason, effectiveDate)
VALUES (?, ?, ?, ?, ?)
`, o.ServiceCode, o.Field, o.Value, o.Reason, o.EffectiveDate)
	return err
}

func (d *DB) ListPricingOverrides(serviceCode string) ([]internal.PricingOverride, error) {
	query := `SELECT id, serviceCode, field, value, COALESCE(reason, ''), COALESCE(effectiveDate, '') FROM pricing_overrides`
	args := []any{}
	if serviceCode != "" {
		query += ` WHERE serviceCode = ?`
		args = append(args, serviceCode)
	}
	query += ` ORDER BY serviceCode, id`

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PricingOverride
	for rows.Next() {
		var o internal.PricingOverride
		if err := rows.Scan(&o.ID, &o.ServiceCode, &o.Field, &o.Value, &o.Reason, &o.EffectiveDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
