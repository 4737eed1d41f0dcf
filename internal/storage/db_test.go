package storage

import (
	"path/filepath"
	"testing"

	"stridewms/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestServiceRateRoundTrip(t *testing.T) {
	db := openTestDB(t)

	class := "M"
	rates := []internal.ServiceRate{
		{ServiceCode: "RECEIVING", ServiceName: "Receiving - Palletized", ClassCode: &class, BillingUnit: "Item", Rate: 14.5, Taxable: true, Active: true, Notes: "dock 4 only"},
		{ServiceCode: "STORAGE_DAY", ServiceName: "Daily Storage", BillingUnit: "Day", Rate: 0.85, Active: true},
	}
	if err := db.InsertServiceRates(rates); err != nil {
		t.Fatalf("insert: %v", err)
	}

	stored, err := db.ListServiceRates()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("len = %d", len(stored))
	}

	byCode := map[string]internal.ServiceRate{}
	for _, r := range stored {
		byCode[r.ServiceCode] = r
	}

	got := byCode["RECEIVING"]
	if got.ClassCode == nil || *got.ClassCode != "M" {
		t.Fatalf("class code = %v", got.ClassCode)
	}
	if got.Rate != 14.5 || !got.Taxable || got.Notes != "dock 4 only" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if byCode["STORAGE_DAY"].ClassCode != nil {
		t.Fatalf("nil class code not preserved")
	}
}

func TestInsertServiceRatesDuplicateFailsWhole(t *testing.T) {
	db := openTestDB(t)

	class := "S"
	first := []internal.ServiceRate{{ServiceCode: "PICK_PACK", ServiceName: "Pick and Pack", ClassCode: &class, BillingUnit: "Item", Rate: 1.2, Active: true}}
	if err := db.InsertServiceRates(first); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Same (serviceCode, classCode) pair violates the unique index; the
	// whole batch rolls back, including the fresh row alongside it.
	batch := []internal.ServiceRate{
		{ServiceCode: "KITTING", ServiceName: "Kitting", BillingUnit: "Task", Rate: 3, Active: true},
		{ServiceCode: "PICK_PACK", ServiceName: "Pick and Pack", ClassCode: &class, BillingUnit: "Item", Rate: 9.9, Active: true},
	}
	if err := db.InsertServiceRates(batch); err == nil {
		t.Fatal("expected unique constraint error")
	}

	stored, err := db.ListServiceRates()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("batch not rolled back, len = %d", len(stored))
	}
}

func TestListServiceCodesUppercased(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertServiceRates([]internal.ServiceRate{{ServiceCode: "receiving", ServiceName: "Receiving", BillingUnit: "Item", Rate: 1, Active: true}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	codes, err := db.ListServiceCodes()
	if err != nil {
		t.Fatalf("list codes: %v", err)
	}
	if _, ok := codes["RECEIVING"]; !ok {
		t.Fatalf("codes = %v", codes)
	}
}

func TestMetadata(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetMetadata("accounting.last_sync")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unset key, got %q", *got)
	}

	if err := db.SetMetadata("accounting.last_sync", "2026-08-26T10:00:00Z"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.SetMetadata("accounting.last_sync", "2026-08-26T11:00:00Z"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err = db.GetMetadata("accounting.last_sync")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || *got != "2026-08-26T11:00:00Z" {
		t.Fatalf("metadata = %v", got)
	}
}

func TestTemplateUpsertPreservesRawLegacy(t *testing.T) {
	db := openTestDB(t)

	raw := "<html><body>old</body></html>"
	if err := db.UpsertTemplate(internal.MessageTemplate{Key: "welcome", Channel: "email", Body: "migrated body", RawLegacy: &raw}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Later edits that carry no raw payload must not wipe the original.
	if err := db.UpsertTemplate(internal.MessageTemplate{Key: "welcome", Channel: "email", Body: "edited body"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	tpl, err := db.GetTemplate("welcome")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tpl == nil || tpl.Body != "edited body" {
		t.Fatalf("template = %+v", tpl)
	}
	if tpl.RawLegacy == nil || *tpl.RawLegacy != raw {
		t.Fatalf("rawLegacy lost on upsert: %v", tpl.RawLegacy)
	}
}
